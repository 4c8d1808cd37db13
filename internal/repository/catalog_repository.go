package repository

import (
	"context"
	"errors"
	"fmt"

	"go_voca_srs/internal/middleware"
	"go_voca_srs/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// CatalogRepository は単語パックと単語 (読み取り中心のカタログ) を扱います。
type CatalogRepository interface {
	ListPublishedPacks(ctx context.Context, db *gorm.DB) ([]*model.WordPack, error)
	FindPackBySlug(ctx context.Context, db *gorm.DB, slug string) (*model.WordPack, error)
	ListWords(ctx context.Context, db *gorm.DB, packID uuid.UUID, limit int) ([]*model.Word, error)
	FindWordsByIDs(ctx context.Context, db *gorm.DB, wordIDs []uuid.UUID) ([]*model.Word, error)
	CreatePack(ctx context.Context, tx *gorm.DB, pack *model.WordPack) error
	CreateWords(ctx context.Context, tx *gorm.DB, words []*model.Word) error
}

type gormCatalogRepository struct{}

func NewGormCatalogRepository() CatalogRepository {
	return &gormCatalogRepository{}
}

func (r *gormCatalogRepository) ListPublishedPacks(ctx context.Context, db *gorm.DB) ([]*model.WordPack, error) {
	logger := middleware.GetLogger(ctx)
	var packs []*model.WordPack
	result := db.WithContext(ctx).Where("is_published = ?", true).Order("created_at DESC").Find(&packs)
	if result.Error != nil {
		logger.Error("Error listing published packs in DB", "error", result.Error)
		return nil, fmt.Errorf("gormCatalogRepository.ListPublishedPacks: %w", result.Error)
	}
	return packs, nil
}

func (r *gormCatalogRepository) FindPackBySlug(ctx context.Context, db *gorm.DB, slug string) (*model.WordPack, error) {
	logger := middleware.GetLogger(ctx)
	var pack model.WordPack
	result := db.WithContext(ctx).Where("slug = ?", slug).First(&pack)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding pack by slug in DB", "error", result.Error, "slug", slug)
		return nil, fmt.Errorf("gormCatalogRepository.FindPackBySlug: %w", result.Error)
	}
	return &pack, nil
}

func (r *gormCatalogRepository) ListWords(ctx context.Context, db *gorm.DB, packID uuid.UUID, limit int) ([]*model.Word, error) {
	logger := middleware.GetLogger(ctx)
	var words []*model.Word
	query := db.WithContext(ctx).Where("pack_id = ?", packID).Order("order_index ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	result := query.Find(&words)
	if result.Error != nil {
		logger.Error("Error listing words of pack in DB", "error", result.Error, "pack_id", packID.String())
		return nil, fmt.Errorf("gormCatalogRepository.ListWords: %w", result.Error)
	}
	return words, nil
}

func (r *gormCatalogRepository) FindWordsByIDs(ctx context.Context, db *gorm.DB, wordIDs []uuid.UUID) ([]*model.Word, error) {
	if len(wordIDs) == 0 {
		return []*model.Word{}, nil
	}
	logger := middleware.GetLogger(ctx)
	var words []*model.Word
	result := db.WithContext(ctx).Where("word_id IN ?", wordIDs).Find(&words)
	if result.Error != nil {
		logger.Error("Error finding words by IDs in DB", "error", result.Error, "count", len(wordIDs))
		return nil, fmt.Errorf("gormCatalogRepository.FindWordsByIDs: %w", result.Error)
	}
	return words, nil
}

func (r *gormCatalogRepository) CreatePack(ctx context.Context, tx *gorm.DB, pack *model.WordPack) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Create(pack)
	if result.Error != nil {
		var pgErr *pgconn.PgError
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) || (errors.As(result.Error, &pgErr) && pgErr.Code == "23505") {
			logger.Warn("Duplicate key error on create pack", "error", result.Error, "slug", pack.Slug)
			return model.ErrConflict
		}
		logger.Error("Error creating pack in DB", "error", result.Error, "slug", pack.Slug)
		return fmt.Errorf("gormCatalogRepository.CreatePack: %w", result.Error)
	}
	return nil
}

func (r *gormCatalogRepository) CreateWords(ctx context.Context, tx *gorm.DB, words []*model.Word) error {
	if len(words) == 0 {
		return nil
	}
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).CreateInBatches(words, 200)
	if result.Error != nil {
		logger.Error("Error creating words in DB", "error", result.Error, "count", len(words))
		return fmt.Errorf("gormCatalogRepository.CreateWords: %w", result.Error)
	}
	return nil
}
