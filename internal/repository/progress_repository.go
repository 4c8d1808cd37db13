// internal/repository/progress_repository.go
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go_voca_srs/internal/middleware"
	"go_voca_srs/internal/model"
	"go_voca_srs/internal/srs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UpdateFunc はカードの読み取り→変更→書き込みの変更部分。
// カードが未作成なら nil を受け取ります。
// 別パッケージの実装 (kvstore) がそのまま満たせるよう型エイリアスにしている。
type UpdateFunc = func(current *srs.ReviewCard) (srs.ReviewCard, error)

// ProgressStore は学習者ごとのカード状態の保存先。
// アカウント用 (gorm行ストア) と端末用 (kvstore) の2実装がある。
type ProgressStore interface {
	Get(ctx context.Context, learnerID uuid.UUID, itemID string) (*srs.ReviewCard, error) // 未作成なら model.ErrNotFound
	Put(ctx context.Context, learnerID uuid.UUID, card srs.ReviewCard) error              // upsert
	PutMany(ctx context.Context, learnerID uuid.UUID, cards []srs.ReviewCard) error       // 1トランザクションでupsert
	ScanDue(ctx context.Context, learnerID uuid.UUID, now time.Time) ([]srs.ReviewCard, error)
	List(ctx context.Context, learnerID uuid.UUID) ([]srs.ReviewCard, error)
	Update(ctx context.Context, learnerID uuid.UUID, itemID string, fn UpdateFunc) (srs.ReviewCard, error)
}

// AccountProgressStore はリマインダー用にカードを持つ学習者を列挙できる ProgressStore
type AccountProgressStore interface {
	ProgressStore
	ListLearners(ctx context.Context) ([]uuid.UUID, error)
}

type gormProgressStore struct {
	db *gorm.DB
}

func NewGormProgressStore(db *gorm.DB) AccountProgressStore {
	return &gormProgressStore{db: db}
}

func (s *gormProgressStore) Get(ctx context.Context, learnerID uuid.UUID, itemID string) (*srs.ReviewCard, error) {
	rec, err := findCard(ctx, s.db, learnerID, itemID)
	if err != nil {
		return nil, err
	}
	card := rec.ToCard()
	return &card, nil
}

func (s *gormProgressStore) Put(ctx context.Context, learnerID uuid.UUID, card srs.ReviewCard) error {
	if err := upsertCard(ctx, s.db, learnerID, card); err != nil {
		middleware.GetLogger(ctx).Error("Error upserting review card in DB",
			"error", err,
			"learner_id", learnerID.String(),
			"item_id", card.ItemID,
		)
		return fmt.Errorf("gormProgressStore.Put: %w", err)
	}
	return nil
}

func (s *gormProgressStore) PutMany(ctx context.Context, learnerID uuid.UUID, cards []srs.ReviewCard) error {
	if len(cards) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, c := range cards {
			if err := upsertCard(ctx, tx, learnerID, c); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		middleware.GetLogger(ctx).Error("Error upserting review cards in DB",
			"error", err,
			"learner_id", learnerID.String(),
			"count", len(cards),
		)
		return fmt.Errorf("gormProgressStore.PutMany: %w", err)
	}
	return nil
}

func (s *gormProgressStore) ScanDue(ctx context.Context, learnerID uuid.UUID, now time.Time) ([]srs.ReviewCard, error) {
	var recs []*model.ReviewCardRecord
	result := s.db.WithContext(ctx).
		Where("learner_id = ? AND next_review_at <= ?", learnerID, model.NormalizeTime(now)).
		Order("next_review_at ASC").
		Find(&recs)
	if result.Error != nil {
		middleware.GetLogger(ctx).Error("Error scanning due review cards in DB",
			"error", result.Error,
			"learner_id", learnerID.String(),
		)
		return nil, fmt.Errorf("gormProgressStore.ScanDue: %w", result.Error)
	}
	return toCards(recs), nil
}

func (s *gormProgressStore) List(ctx context.Context, learnerID uuid.UUID) ([]srs.ReviewCard, error) {
	var recs []*model.ReviewCardRecord
	result := s.db.WithContext(ctx).Where("learner_id = ?", learnerID).Order("item_id ASC").Find(&recs)
	if result.Error != nil {
		middleware.GetLogger(ctx).Error("Error listing review cards in DB",
			"error", result.Error,
			"learner_id", learnerID.String(),
		)
		return nil, fmt.Errorf("gormProgressStore.List: %w", result.Error)
	}
	return toCards(recs), nil
}

func (s *gormProgressStore) Update(ctx context.Context, learnerID uuid.UUID, itemID string, fn UpdateFunc) (srs.ReviewCard, error) {
	var updated srs.ReviewCard
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current *srs.ReviewCard
		rec, err := findCard(ctx, tx.Clauses(clause.Locking{Strength: "UPDATE"}), learnerID, itemID)
		switch {
		case err == nil:
			c := rec.ToCard()
			current = &c
		case errors.Is(err, model.ErrNotFound):
			// 初回の採点
		default:
			return err
		}

		next, err := fn(current)
		if err != nil {
			return err
		}
		next.ItemID = itemID
		if err := upsertCard(ctx, tx, learnerID, next); err != nil {
			return fmt.Errorf("gormProgressStore.Update: %w", err)
		}
		updated = model.NormalizeCard(next)
		return nil
	})
	if err != nil {
		return srs.ReviewCard{}, err
	}
	return updated, nil
}

func (s *gormProgressStore) ListLearners(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	result := s.db.WithContext(ctx).Model(&model.ReviewCardRecord{}).
		Distinct().
		Order("learner_id").
		Pluck("learner_id", &ids)
	if result.Error != nil {
		middleware.GetLogger(ctx).Error("Error listing learners in DB", "error", result.Error)
		return nil, fmt.Errorf("gormProgressStore.ListLearners: %w", result.Error)
	}
	return ids, nil
}

func findCard(ctx context.Context, db *gorm.DB, learnerID uuid.UUID, itemID string) (*model.ReviewCardRecord, error) {
	var rec model.ReviewCardRecord
	result := db.WithContext(ctx).Where("learner_id = ? AND item_id = ?", learnerID, itemID).First(&rec)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		middleware.GetLogger(ctx).Error("Error finding review card in DB",
			"error", result.Error,
			"learner_id", learnerID.String(),
			"item_id", itemID,
		)
		return nil, fmt.Errorf("gormProgressStore.Get: %w", result.Error)
	}
	return &rec, nil
}

func upsertCard(ctx context.Context, db *gorm.DB, learnerID uuid.UUID, card srs.ReviewCard) error {
	rec := model.NewReviewCardRecord(learnerID, card)
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "learner_id"}, {Name: "item_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"interval_days", "ease", "repetitions", "lapses",
			"last_reviewed_at", "next_review_at", "updated_at",
		}),
	}).Create(rec).Error
}

func toCards(recs []*model.ReviewCardRecord) []srs.ReviewCard {
	cards := make([]srs.ReviewCard, 0, len(recs))
	for _, r := range recs {
		cards = append(cards, r.ToCard())
	}
	return cards
}
