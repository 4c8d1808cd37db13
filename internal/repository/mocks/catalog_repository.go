package mocks

import (
	context "context"

	model "go_voca_srs/internal/model"

	uuid "github.com/google/uuid"
	mock "github.com/stretchr/testify/mock"
	gorm "gorm.io/gorm"
)

// CatalogRepository is a mock type for the CatalogRepository type
type CatalogRepository struct {
	mock.Mock
}

// ListPublishedPacks provides a mock function with given fields: ctx, db
func (_m *CatalogRepository) ListPublishedPacks(ctx context.Context, db *gorm.DB) ([]*model.WordPack, error) {
	ret := _m.Called(ctx, db)

	var r0 []*model.WordPack
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*model.WordPack)
	}
	return r0, ret.Error(1)
}

// FindPackBySlug provides a mock function with given fields: ctx, db, slug
func (_m *CatalogRepository) FindPackBySlug(ctx context.Context, db *gorm.DB, slug string) (*model.WordPack, error) {
	ret := _m.Called(ctx, db, slug)

	var r0 *model.WordPack
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.WordPack)
	}
	return r0, ret.Error(1)
}

// ListWords provides a mock function with given fields: ctx, db, packID, limit
func (_m *CatalogRepository) ListWords(ctx context.Context, db *gorm.DB, packID uuid.UUID, limit int) ([]*model.Word, error) {
	ret := _m.Called(ctx, db, packID, limit)

	var r0 []*model.Word
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*model.Word)
	}
	return r0, ret.Error(1)
}

// FindWordsByIDs provides a mock function with given fields: ctx, db, wordIDs
func (_m *CatalogRepository) FindWordsByIDs(ctx context.Context, db *gorm.DB, wordIDs []uuid.UUID) ([]*model.Word, error) {
	ret := _m.Called(ctx, db, wordIDs)

	var r0 []*model.Word
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*model.Word)
	}
	return r0, ret.Error(1)
}

// CreatePack provides a mock function with given fields: ctx, tx, pack
func (_m *CatalogRepository) CreatePack(ctx context.Context, tx *gorm.DB, pack *model.WordPack) error {
	ret := _m.Called(ctx, tx, pack)
	return ret.Error(0)
}

// CreateWords provides a mock function with given fields: ctx, tx, words
func (_m *CatalogRepository) CreateWords(ctx context.Context, tx *gorm.DB, words []*model.Word) error {
	ret := _m.Called(ctx, tx, words)
	return ret.Error(0)
}
