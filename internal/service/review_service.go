package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"go_voca_srs/internal/config"
	"go_voca_srs/internal/middleware"
	"go_voca_srs/internal/model"
	"go_voca_srs/internal/repository"
	"go_voca_srs/internal/srs"
)

// StudyService は採点・復習対象の選択・統計・バックアップを扱います。
// スケジューリング自体は srs パッケージの純粋関数に任せ、ここでは保存先の選択と読み書きだけを行う。
type StudyService interface {
	Grade(ctx context.Context, learner model.Learner, itemID string, quality int) (*model.GradeResponse, error)
	Answer(ctx context.Context, learner model.Learner, itemID string, isCorrect bool, confidence string) (*model.GradeResponse, error)
	GetDueCards(ctx context.Context, learner model.Learner, limit int) (*model.DueResponse, error)
	GetStats(ctx context.Context, learner model.Learner) (*srs.Stats, error)
	GetCard(ctx context.Context, learner model.Learner, itemID string) (*model.CardResponse, error)
	Export(ctx context.Context, learner model.Learner) (*model.ExportBundle, error)
	Import(ctx context.Context, learner model.Learner, bundle *model.ExportBundle) (int, error)
}

type studyService struct {
	accounts repository.ProgressStore // JWT認証済みの学習者
	devices  repository.ProgressStore // X-Device-ID の学習者
	cfg      *config.Config
	now      func() time.Time
}

func NewStudyService(accounts, devices repository.ProgressStore, cfg *config.Config) StudyService {
	return &studyService{
		accounts: accounts,
		devices:  devices,
		cfg:      cfg,
		now:      time.Now,
	}
}

func (s *studyService) storeFor(learner model.Learner) (repository.ProgressStore, error) {
	var store repository.ProgressStore
	switch learner.Kind {
	case model.LearnerAccount:
		store = s.accounts
	case model.LearnerDevice:
		store = s.devices
	}
	if store == nil {
		return nil, model.NewAppError("STORE_UNAVAILABLE", "この学習者種別の進捗ストアは利用できません。", "", model.ErrForbidden)
	}
	return store, nil
}

func validateItemID(itemID string) error {
	if strings.TrimSpace(itemID) == "" || len(itemID) > config.ItemIDMaxLength || strings.Contains(itemID, ":") {
		return model.NewAppError("INVALID_ITEM_ID", "item_id が不正です。", "item_id", model.ErrInvalidInput)
	}
	return nil
}

func (s *studyService) Grade(ctx context.Context, learner model.Learner, itemID string, quality int) (*model.GradeResponse, error) {
	logger := middleware.GetLogger(ctx).With("learner", learner.String(), "item_id", itemID)

	q := srs.Quality(quality)
	if !q.Valid() {
		logger.Warn("Rejected grade with invalid quality", "quality", quality)
		return nil, model.NewAppError("INVALID_QUALITY", "quality は0〜5の整数で指定してください。", "quality", model.ErrInvalidInput)
	}
	return s.grade(ctx, logger, learner, itemID, q)
}

func (s *studyService) Answer(ctx context.Context, learner model.Learner, itemID string, isCorrect bool, confidence string) (*model.GradeResponse, error) {
	logger := middleware.GetLogger(ctx).With("learner", learner.String(), "item_id", itemID)

	c, err := srs.ParseConfidence(confidence)
	if err != nil {
		logger.Warn("Rejected answer with unknown confidence", "confidence", confidence)
		return nil, model.NewAppError("INVALID_CONFIDENCE", "confidence は easy / good / hard のいずれかです。", "confidence", model.ErrInvalidInput)
	}
	return s.grade(ctx, logger, learner, itemID, srs.QualityFromResponse(isCorrect, c))
}

func (s *studyService) grade(ctx context.Context, logger *slog.Logger, learner model.Learner, itemID string, q srs.Quality) (*model.GradeResponse, error) {
	if err := validateItemID(itemID); err != nil {
		return nil, err
	}
	store, err := s.storeFor(learner)
	if err != nil {
		return nil, err
	}

	now := s.now()
	card, err := store.Update(ctx, learner.ID, itemID, func(current *srs.ReviewCard) (srs.ReviewCard, error) {
		if current == nil {
			// 初回はデフォルトのカードを作ってから採点する
			logger.Debug("No card yet, creating default card")
			fresh := srs.NewCard(itemID, now)
			current = &fresh
		}
		return srs.Grade(*current, q, now)
	})
	if err != nil {
		if errors.Is(err, srs.ErrInvalidQuality) {
			return nil, model.NewAppError("INVALID_QUALITY", "quality は0〜5の整数で指定してください。", "quality", model.ErrInvalidInput)
		}
		logger.Error("Failed to grade card", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "採点結果の保存に失敗しました。", "", err)
	}

	logger.Info("Card graded",
		"quality", int(q),
		"repetitions", card.Repetitions,
		"interval", card.Interval,
		"ease", card.Ease,
		"lapses", card.Lapses,
	)
	return &model.GradeResponse{
		Quality: int(q),
		Card:    model.NewCardResponse(card, now),
	}, nil
}

func (s *studyService) GetDueCards(ctx context.Context, learner model.Learner, limit int) (*model.DueResponse, error) {
	logger := middleware.GetLogger(ctx).With("learner", learner.String())

	store, err := s.storeFor(learner)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = s.cfg.App.ReviewLimit
	}

	now := s.now()
	cards, err := store.ScanDue(ctx, learner.ID, now)
	if err != nil {
		logger.Error("Failed to scan due cards from store", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "復習対象の取得に失敗しました。", "", err)
	}

	due := srs.SelectDue(cards, now)
	total := len(due)
	if len(due) > limit {
		due = due[:limit]
	}

	resp := &model.DueResponse{TotalDue: total, Cards: make([]model.CardResponse, 0, len(due))}
	for _, c := range due {
		resp.Cards = append(resp.Cards, model.NewCardResponse(c, now))
	}
	logger.Info("Successfully retrieved due cards", "total_due", total, "returned", len(resp.Cards))
	return resp, nil
}

func (s *studyService) GetStats(ctx context.Context, learner model.Learner) (*srs.Stats, error) {
	logger := middleware.GetLogger(ctx).With("learner", learner.String())

	store, err := s.storeFor(learner)
	if err != nil {
		return nil, err
	}
	cards, err := store.List(ctx, learner.ID)
	if err != nil {
		logger.Error("Failed to list cards for stats", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "学習統計の取得に失敗しました。", "", err)
	}

	stats := srs.StudyStats(cards, s.now())
	return &stats, nil
}

func (s *studyService) GetCard(ctx context.Context, learner model.Learner, itemID string) (*model.CardResponse, error) {
	logger := middleware.GetLogger(ctx).With("learner", learner.String(), "item_id", itemID)

	if err := validateItemID(itemID); err != nil {
		return nil, err
	}
	store, err := s.storeFor(learner)
	if err != nil {
		return nil, err
	}
	card, err := store.Get(ctx, learner.ID, itemID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("CARD_NOT_FOUND", "この単語はまだ学習していません。", "item_id", model.ErrNotFound)
		}
		logger.Error("Failed to get card from store", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "カードの取得に失敗しました。", "", err)
	}

	resp := model.NewCardResponse(*card, s.now())
	return &resp, nil
}

func (s *studyService) Export(ctx context.Context, learner model.Learner) (*model.ExportBundle, error) {
	logger := middleware.GetLogger(ctx).With("learner", learner.String())

	store, err := s.storeFor(learner)
	if err != nil {
		return nil, err
	}
	cards, err := store.List(ctx, learner.ID)
	if err != nil {
		logger.Error("Failed to list cards for export", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "エクスポートに失敗しました。", "", err)
	}
	if cards == nil {
		cards = []srs.ReviewCard{}
	}

	logger.Info("Progress exported", "count", len(cards))
	return &model.ExportBundle{
		Version:    model.ExportBundleVersion,
		LearnerID:  learner.ID.String(),
		ExportedAt: model.NormalizeTime(s.now()),
		Cards:      cards,
	}, nil
}

// Import はバックアップのカードを学習者のストアにそのまま書き戻します (同じ itemID は上書き)。
func (s *studyService) Import(ctx context.Context, learner model.Learner, bundle *model.ExportBundle) (int, error) {
	logger := middleware.GetLogger(ctx).With("learner", learner.String())

	if bundle == nil {
		return 0, model.NewAppError("INVALID_BACKUP", "バックアップが空です。", "", model.ErrInvalidInput)
	}
	if bundle.Version != 0 && bundle.Version != model.ExportBundleVersion {
		return 0, model.NewAppError("UNSUPPORTED_BACKUP_VERSION", "未対応のバックアップ形式です。", "version", model.ErrInvalidInput)
	}
	for _, c := range bundle.Cards {
		if err := validateImportedCard(c); err != nil {
			logger.Warn("Rejected backup with invalid card", "item_id", c.ItemID, "error", err)
			return 0, err
		}
	}

	store, err := s.storeFor(learner)
	if err != nil {
		return 0, err
	}
	if err := store.PutMany(ctx, learner.ID, bundle.Cards); err != nil {
		logger.Error("Failed to import cards", "error", err)
		return 0, model.NewAppError("INTERNAL_SERVER_ERROR", "インポートに失敗しました。", "", err)
	}

	logger.Info("Progress imported", "count", len(bundle.Cards))
	return len(bundle.Cards), nil
}

func validateImportedCard(c srs.ReviewCard) error {
	if err := validateItemID(c.ItemID); err != nil {
		return err
	}
	if c.Interval < srs.InitialInterval || c.Interval > srs.MaxInterval || c.Ease < srs.MinEase || c.Repetitions < 0 || c.Lapses < 0 {
		return model.NewAppError("INVALID_BACKUP", "バックアップに不正なカードが含まれています: "+c.ItemID, "cards", model.ErrInvalidInput)
	}
	if c.NextReviewAt.IsZero() || c.LastReviewedAt.IsZero() {
		return model.NewAppError("INVALID_BACKUP", "バックアップのカードに日時がありません: "+c.ItemID, "cards", model.ErrInvalidInput)
	}
	// 次回復習日は最終復習日 + interval 日でなければならない
	if !c.NextReviewAt.Equal(c.LastReviewedAt.Add(time.Duration(c.Interval) * srs.Day)) {
		return model.NewAppError("INVALID_BACKUP", "バックアップのカードの次回復習日が interval と一致しません: "+c.ItemID, "cards", model.ErrInvalidInput)
	}
	return nil
}
