// internal/model/review.go
package model

import (
	"time"

	"go_voca_srs/internal/srs"
)

// GradeRequest は品質スコア(0〜5)で採点するリクエストDTO
type GradeRequest struct {
	Quality *int `json:"quality" validate:"required,min=0,max=5"`
}

// AnswerRequest は正誤と自己申告の手応えで採点するリクエストDTO
type AnswerRequest struct {
	IsCorrect  *bool  `json:"is_correct" validate:"required"`
	Confidence string `json:"confidence,omitempty" validate:"omitempty,oneof=easy good hard"`
}

// CardResponse はカード状態に表示用の派生値を加えたレスポンスDTO
type CardResponse struct {
	srs.ReviewCard
	IsDue           bool `json:"is_due"`
	DaysUntilReview int  `json:"days_until_review"`
}

func NewCardResponse(c srs.ReviewCard, now time.Time) CardResponse {
	return CardResponse{
		ReviewCard:      c,
		IsDue:           srs.IsDue(c, now),
		DaysUntilReview: srs.DaysUntilReview(c, now),
	}
}

// GradeResponse は採点結果のレスポンスDTO
type GradeResponse struct {
	Quality int          `json:"quality"`
	Card    CardResponse `json:"card"`
}

// DueResponse は復習対象カード一覧のレスポンスDTO
type DueResponse struct {
	TotalDue int            `json:"total_due"`
	Cards    []CardResponse `json:"cards"`
}

// ExportBundleVersion はバックアップ形式のバージョン
const ExportBundleVersion = 1

// ExportBundle は学習進捗のバックアップ (エクスポート/インポート共通)
type ExportBundle struct {
	Version    int              `json:"version"`
	LearnerID  string           `json:"learner_id"`
	ExportedAt time.Time        `json:"exported_at"`
	Cards      []srs.ReviewCard `json:"cards" validate:"required"`
}

// ImportResponse はインポート結果のレスポンスDTO
type ImportResponse struct {
	Imported int `json:"imported"`
}
