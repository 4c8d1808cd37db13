package mocks

import (
	context "context"

	model "go_voca_srs/internal/model"
	srs "go_voca_srs/internal/srs"

	mock "github.com/stretchr/testify/mock"
)

// StudyService is a mock type for the StudyService type
type StudyService struct {
	mock.Mock
}

// Grade provides a mock function with given fields: ctx, learner, itemID, quality
func (_m *StudyService) Grade(ctx context.Context, learner model.Learner, itemID string, quality int) (*model.GradeResponse, error) {
	ret := _m.Called(ctx, learner, itemID, quality)

	var r0 *model.GradeResponse
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.GradeResponse)
	}
	return r0, ret.Error(1)
}

// Answer provides a mock function with given fields: ctx, learner, itemID, isCorrect, confidence
func (_m *StudyService) Answer(ctx context.Context, learner model.Learner, itemID string, isCorrect bool, confidence string) (*model.GradeResponse, error) {
	ret := _m.Called(ctx, learner, itemID, isCorrect, confidence)

	var r0 *model.GradeResponse
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.GradeResponse)
	}
	return r0, ret.Error(1)
}

// GetDueCards provides a mock function with given fields: ctx, learner, limit
func (_m *StudyService) GetDueCards(ctx context.Context, learner model.Learner, limit int) (*model.DueResponse, error) {
	ret := _m.Called(ctx, learner, limit)

	var r0 *model.DueResponse
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.DueResponse)
	}
	return r0, ret.Error(1)
}

// GetStats provides a mock function with given fields: ctx, learner
func (_m *StudyService) GetStats(ctx context.Context, learner model.Learner) (*srs.Stats, error) {
	ret := _m.Called(ctx, learner)

	var r0 *srs.Stats
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*srs.Stats)
	}
	return r0, ret.Error(1)
}

// GetCard provides a mock function with given fields: ctx, learner, itemID
func (_m *StudyService) GetCard(ctx context.Context, learner model.Learner, itemID string) (*model.CardResponse, error) {
	ret := _m.Called(ctx, learner, itemID)

	var r0 *model.CardResponse
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.CardResponse)
	}
	return r0, ret.Error(1)
}

// Export provides a mock function with given fields: ctx, learner
func (_m *StudyService) Export(ctx context.Context, learner model.Learner) (*model.ExportBundle, error) {
	ret := _m.Called(ctx, learner)

	var r0 *model.ExportBundle
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.ExportBundle)
	}
	return r0, ret.Error(1)
}

// Import provides a mock function with given fields: ctx, learner, bundle
func (_m *StudyService) Import(ctx context.Context, learner model.Learner, bundle *model.ExportBundle) (int, error) {
	ret := _m.Called(ctx, learner, bundle)
	return ret.Int(0), ret.Error(1)
}
