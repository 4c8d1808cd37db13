package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"go_voca_srs/internal/model"
	"go_voca_srs/internal/srs"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB はテストごとに独立したインメモリDBを用意します。
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent), // テスト中はログを抑制
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

var storeNow = time.Date(2025, time.April, 2, 9, 30, 15, 123_000_000, time.UTC)

func sampleCard(itemID string, next time.Time) srs.ReviewCard {
	return srs.ReviewCard{
		ItemID:         itemID,
		Interval:       6,
		Ease:           2.36,
		Repetitions:    2,
		Lapses:         1,
		LastReviewedAt: next.Add(-6 * srs.Day),
		NextReviewAt:   next,
	}
}

func TestGormProgressStore_GetNotFound(t *testing.T) {
	store := NewGormProgressStore(setupTestDB(t))

	card, err := store.Get(context.Background(), uuid.New(), "missing")
	assert.Nil(t, card)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestGormProgressStore_PutGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewGormProgressStore(setupTestDB(t))
	learner := uuid.New()
	want := sampleCard("word-1", storeNow)

	require.NoError(t, store.Put(ctx, learner, want))

	got, err := store.Get(ctx, learner, "word-1")
	require.NoError(t, err)
	assert.Equal(t, want, *got)
}

func TestGormProgressStore_PutUpserts(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	store := NewGormProgressStore(db)
	learner := uuid.New()

	first := sampleCard("word-1", storeNow)
	require.NoError(t, store.Put(ctx, learner, first))

	second := first
	second.Repetitions = 3
	second.Interval = 14
	require.NoError(t, store.Put(ctx, learner, second))

	var count int64
	require.NoError(t, db.Model(&model.ReviewCardRecord{}).Where("learner_id = ?", learner).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	got, err := store.Get(ctx, learner, "word-1")
	require.NoError(t, err)
	assert.Equal(t, 3, got.Repetitions)
	assert.Equal(t, 14, got.Interval)
}

func TestGormProgressStore_ScanDue(t *testing.T) {
	ctx := context.Background()
	store := NewGormProgressStore(setupTestDB(t))
	learner := uuid.New()
	other := uuid.New()

	require.NoError(t, store.PutMany(ctx, learner, []srs.ReviewCard{
		sampleCard("overdue", storeNow.Add(-2*srs.Day)),
		sampleCard("exactly-now", storeNow),
		sampleCard("future", storeNow.Add(time.Hour)),
	}))
	require.NoError(t, store.Put(ctx, other, sampleCard("someone-else", storeNow.Add(-srs.Day))))

	due, err := store.ScanDue(ctx, learner, storeNow)
	require.NoError(t, err)

	ids := make([]string, 0, len(due))
	for _, c := range due {
		ids = append(ids, c.ItemID)
	}
	assert.Equal(t, []string{"overdue", "exactly-now"}, ids)
}

func TestGormProgressStore_List(t *testing.T) {
	ctx := context.Background()
	store := NewGormProgressStore(setupTestDB(t))
	learner := uuid.New()

	cards, err := store.List(ctx, learner)
	require.NoError(t, err)
	assert.Empty(t, cards)

	require.NoError(t, store.PutMany(ctx, learner, []srs.ReviewCard{
		sampleCard("b", storeNow),
		sampleCard("a", storeNow),
	}))
	cards, err = store.List(ctx, learner)
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, "a", cards[0].ItemID)
	assert.Equal(t, "b", cards[1].ItemID)
}

func TestGormProgressStore_Update(t *testing.T) {
	ctx := context.Background()
	store := NewGormProgressStore(setupTestDB(t))
	learner := uuid.New()

	// 1回目: カード未作成なので nil を受け取る
	created, err := store.Update(ctx, learner, "word-1", func(current *srs.ReviewCard) (srs.ReviewCard, error) {
		assert.Nil(t, current)
		return srs.Grade(srs.NewCard("word-1", storeNow), srs.QualityPerfect, storeNow)
	})
	require.NoError(t, err)
	assert.Equal(t, 1, created.Repetitions)

	// 2回目: 保存済みのカードを受け取る
	later := storeNow.Add(srs.Day)
	updated, err := store.Update(ctx, learner, "word-1", func(current *srs.ReviewCard) (srs.ReviewCard, error) {
		require.NotNil(t, current)
		assert.Equal(t, created, *current)
		return srs.Grade(*current, srs.QualityCorrectHesitation, later)
	})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Repetitions)
	assert.Equal(t, srs.SecondInterval, updated.Interval)

	got, err := store.Get(ctx, learner, "word-1")
	require.NoError(t, err)
	assert.Equal(t, updated, *got)
}

func TestGormProgressStore_UpdateErrorRollsBack(t *testing.T) {
	ctx := context.Background()
	store := NewGormProgressStore(setupTestDB(t))
	learner := uuid.New()
	boom := errors.New("boom")

	_, err := store.Update(ctx, learner, "word-1", func(*srs.ReviewCard) (srs.ReviewCard, error) {
		return srs.ReviewCard{}, boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = store.Get(ctx, learner, "word-1")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestGormProgressStore_ListLearners(t *testing.T) {
	ctx := context.Background()
	store := NewGormProgressStore(setupTestDB(t))
	a, b := uuid.New(), uuid.New()

	require.NoError(t, store.PutMany(ctx, a, []srs.ReviewCard{sampleCard("x", storeNow), sampleCard("y", storeNow)}))
	require.NoError(t, store.Put(ctx, b, sampleCard("x", storeNow)))

	learners, err := store.ListLearners(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{a, b}, learners)
}
