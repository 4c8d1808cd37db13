package service

import (
	"context"
	"errors"
	"strings"

	"go_voca_srs/internal/config"
	"go_voca_srs/internal/middleware"
	"go_voca_srs/internal/model"
	"go_voca_srs/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PackService は公開中の単語パック (カタログ) を参照します。
type PackService interface {
	ListPacks(ctx context.Context) ([]*model.WordPack, error)
	GetPack(ctx context.Context, slug string) (*model.WordPack, error)
	ListWords(ctx context.Context, slug string, limit int) ([]*model.Word, error)
	LookupWords(ctx context.Context, ids []string) ([]*model.Word, error)
}

// MaxLookupWords は LookupWords で一度に引ける単語数の上限
const MaxLookupWords = 100

type packService struct {
	db          *gorm.DB
	catalogRepo repository.CatalogRepository
	cfg         *config.Config
}

func NewPackService(db *gorm.DB, catalogRepo repository.CatalogRepository, cfg *config.Config) PackService {
	return &packService{
		db:          db,
		catalogRepo: catalogRepo,
		cfg:         cfg,
	}
}

func (s *packService) ListPacks(ctx context.Context) ([]*model.WordPack, error) {
	logger := middleware.GetLogger(ctx)

	packs, err := s.catalogRepo.ListPublishedPacks(ctx, s.db)
	if err != nil {
		logger.Error("Failed to list published packs from repository", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "単語パック一覧の取得に失敗しました。", "", err)
	}
	if packs == nil {
		packs = []*model.WordPack{}
	}
	return packs, nil
}

func (s *packService) GetPack(ctx context.Context, slug string) (*model.WordPack, error) {
	logger := middleware.GetLogger(ctx).With("slug", slug)

	pack, err := s.catalogRepo.FindPackBySlug(ctx, s.db, slug)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("PACK_NOT_FOUND", "指定された単語パックが見つかりません。", "slug", model.ErrNotFound)
		}
		logger.Error("Failed to find pack by slug", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "単語パックの取得に失敗しました。", "", err)
	}
	// 非公開パックは存在しないものとして扱う
	if !pack.IsPublished {
		logger.Info("Unpublished pack requested")
		return nil, model.NewAppError("PACK_NOT_FOUND", "指定された単語パックが見つかりません。", "slug", model.ErrNotFound)
	}
	return pack, nil
}

func (s *packService) ListWords(ctx context.Context, slug string, limit int) ([]*model.Word, error) {
	logger := middleware.GetLogger(ctx).With("slug", slug)

	pack, err := s.GetPack(ctx, slug)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = s.cfg.App.WordLimit
	}

	words, err := s.catalogRepo.ListWords(ctx, s.db, pack.PackID, limit)
	if err != nil {
		logger.Error("Failed to list words of pack", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "単語の取得に失敗しました。", "", err)
	}
	if words == nil {
		words = []*model.Word{}
	}
	logger.Info("Successfully retrieved words", "count", len(words))
	return words, nil
}

// LookupWords は学習カードの itemID (単語ID) から単語の詳細をまとめて引きます。
// 存在しないIDは結果に含まれません。
func (s *packService) LookupWords(ctx context.Context, ids []string) ([]*model.Word, error) {
	logger := middleware.GetLogger(ctx)

	if len(ids) == 0 {
		return []*model.Word{}, nil
	}
	if len(ids) > MaxLookupWords {
		return nil, model.NewAppError("TOO_MANY_IDS", "一度に指定できる単語IDは100件までです。", "ids", model.ErrInvalidInput)
	}

	wordIDs := make([]uuid.UUID, 0, len(ids))
	for _, raw := range ids {
		id, err := uuid.Parse(strings.TrimSpace(raw))
		if err != nil {
			return nil, model.NewAppError("INVALID_WORD_ID", "単語IDの形式が正しくありません: "+raw, "ids", model.ErrInvalidInput)
		}
		wordIDs = append(wordIDs, id)
	}

	words, err := s.catalogRepo.FindWordsByIDs(ctx, s.db, wordIDs)
	if err != nil {
		logger.Error("Failed to find words by ids", "error", err, "count", len(wordIDs))
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "単語の取得に失敗しました。", "", err)
	}
	if words == nil {
		words = []*model.Word{}
	}
	return words, nil
}
