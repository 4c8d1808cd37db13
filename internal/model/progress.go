// internal/model/progress.go
package model

import (
	"time"

	"go_voca_srs/internal/srs"

	"github.com/google/uuid"
)

// ReviewCardRecord はアカウント学習者のカード状態 (review_cards テーブルの1行)
type ReviewCardRecord struct {
	ID             uint      `gorm:"primaryKey"`
	LearnerID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_review_cards_learner_item"` // 複合ユニークインデックスの一部
	ItemID         string    `gorm:"type:varchar(64);not null;uniqueIndex:uq_review_cards_learner_item"`
	IntervalDays   int       `gorm:"not null;default:1"` // "interval" はPostgreSQLの予約語
	Ease           float64   `gorm:"not null;default:2.5"`
	Repetitions    int       `gorm:"not null;default:0"`
	Lapses         int       `gorm:"not null;default:0"`
	LastReviewedAt time.Time `gorm:"not null"`
	NextReviewAt   time.Time `gorm:"not null;index"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (ReviewCardRecord) TableName() string {
	return "review_cards"
}

// NormalizeTime はストア間で往復しても等しくなるよう、UTC・ミリ秒精度に揃えます。
func NormalizeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

// NormalizeCard はカードのタイムスタンプを NormalizeTime で揃えたコピーを返します。
func NormalizeCard(c srs.ReviewCard) srs.ReviewCard {
	c.LastReviewedAt = NormalizeTime(c.LastReviewedAt)
	c.NextReviewAt = NormalizeTime(c.NextReviewAt)
	return c
}

func NewReviewCardRecord(learnerID uuid.UUID, card srs.ReviewCard) *ReviewCardRecord {
	card = NormalizeCard(card)
	return &ReviewCardRecord{
		LearnerID:      learnerID,
		ItemID:         card.ItemID,
		IntervalDays:   card.Interval,
		Ease:           card.Ease,
		Repetitions:    card.Repetitions,
		Lapses:         card.Lapses,
		LastReviewedAt: card.LastReviewedAt,
		NextReviewAt:   card.NextReviewAt,
	}
}

func (r *ReviewCardRecord) ToCard() srs.ReviewCard {
	return NormalizeCard(srs.ReviewCard{
		ItemID:         r.ItemID,
		Interval:       r.IntervalDays,
		Ease:           r.Ease,
		Repetitions:    r.Repetitions,
		Lapses:         r.Lapses,
		LastReviewedAt: r.LastReviewedAt,
		NextReviewAt:   r.NextReviewAt,
	})
}
