package repository

import (
	"context"
	"testing"
	"time"

	"go_voca_srs/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func newTestPack(slug string, published bool, createdAt time.Time) *model.WordPack {
	return &model.WordPack{
		PackID:      uuid.New(),
		Slug:        slug,
		Title:       "Pack " + slug,
		Level:       model.LevelBeginner,
		IsPublished: published,
		CreatedAt:   createdAt,
	}
}

func TestGormCatalogRepository_ListPublishedPacks(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewGormCatalogRepository()

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.CreatePack(ctx, db, newTestPack("older", true, base)))
	require.NoError(t, repo.CreatePack(ctx, db, newTestPack("newer", true, base.Add(time.Hour))))
	require.NoError(t, repo.CreatePack(ctx, db, newTestPack("draft", false, base.Add(2*time.Hour))))

	packs, err := repo.ListPublishedPacks(ctx, db)
	require.NoError(t, err)
	require.Len(t, packs, 2)
	assert.Equal(t, "newer", packs[0].Slug)
	assert.Equal(t, "older", packs[1].Slug)
}

func TestGormCatalogRepository_FindPackBySlug(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewGormCatalogRepository()
	pack := newTestPack("toeic-800", true, time.Now())
	require.NoError(t, repo.CreatePack(ctx, db, pack))

	got, err := repo.FindPackBySlug(ctx, db, "toeic-800")
	require.NoError(t, err)
	assert.Equal(t, pack.PackID, got.PackID)

	_, err = repo.FindPackBySlug(ctx, db, "nope")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestGormCatalogRepository_CreatePackDuplicateSlug(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewGormCatalogRepository()

	require.NoError(t, repo.CreatePack(ctx, db, newTestPack("dup", true, time.Now())))
	err := repo.CreatePack(ctx, db, newTestPack("dup", true, time.Now()))
	assert.ErrorIs(t, err, model.ErrConflict)
}

func TestGormCatalogRepository_Words(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewGormCatalogRepository()
	pack := newTestPack("basic", true, time.Now())
	require.NoError(t, repo.CreatePack(ctx, db, pack))

	words := []*model.Word{
		{WordID: uuid.New(), PackID: pack.PackID, Term: "third", MeaningKO: "세 번째", OrderIndex: 3},
		{
			WordID: uuid.New(), PackID: pack.PackID, Term: "abundant", MeaningKO: "풍부한", POS: "adj", OrderIndex: 1,
			Examples: datatypes.NewJSONSlice([]model.Example{{EN: "Water is abundant here.", KO: "이곳은 물이 풍부하다."}}),
			Synonyms: datatypes.NewJSONSlice([]string{"plentiful"}),
		},
		{WordID: uuid.New(), PackID: pack.PackID, Term: "second", MeaningKO: "두 번째", OrderIndex: 2},
	}
	require.NoError(t, repo.CreateWords(ctx, db, words))

	got, err := repo.ListWords(ctx, db, pack.PackID, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "abundant", got[0].Term)
	assert.Equal(t, "second", got[1].Term)
	require.Len(t, got[0].Examples, 1)
	assert.Equal(t, "이곳은 물이 풍부하다.", got[0].Examples[0].KO)
	assert.Equal(t, []string{"plentiful"}, []string(got[0].Synonyms))

	all, err := repo.ListWords(ctx, db, pack.PackID, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	byIDs, err := repo.FindWordsByIDs(ctx, db, []uuid.UUID{words[0].WordID, uuid.New()})
	require.NoError(t, err)
	require.Len(t, byIDs, 1)
	assert.Equal(t, "third", byIDs[0].Term)

	none, err := repo.FindWordsByIDs(ctx, db, nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}
