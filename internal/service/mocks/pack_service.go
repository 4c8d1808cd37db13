package mocks

import (
	context "context"

	model "go_voca_srs/internal/model"

	mock "github.com/stretchr/testify/mock"
)

// PackService is a mock type for the PackService type
type PackService struct {
	mock.Mock
}

// ListPacks provides a mock function with given fields: ctx
func (_m *PackService) ListPacks(ctx context.Context) ([]*model.WordPack, error) {
	ret := _m.Called(ctx)

	var r0 []*model.WordPack
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*model.WordPack)
	}
	return r0, ret.Error(1)
}

// GetPack provides a mock function with given fields: ctx, slug
func (_m *PackService) GetPack(ctx context.Context, slug string) (*model.WordPack, error) {
	ret := _m.Called(ctx, slug)

	var r0 *model.WordPack
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.WordPack)
	}
	return r0, ret.Error(1)
}

// ListWords provides a mock function with given fields: ctx, slug, limit
func (_m *PackService) ListWords(ctx context.Context, slug string, limit int) ([]*model.Word, error) {
	ret := _m.Called(ctx, slug, limit)

	var r0 []*model.Word
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*model.Word)
	}
	return r0, ret.Error(1)
}

// LookupWords provides a mock function with given fields: ctx, ids
func (_m *PackService) LookupWords(ctx context.Context, ids []string) ([]*model.Word, error) {
	ret := _m.Called(ctx, ids)

	var r0 []*model.Word
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*model.Word)
	}
	return r0, ret.Error(1)
}
