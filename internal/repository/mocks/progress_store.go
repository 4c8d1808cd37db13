package mocks

import (
	context "context"
	time "time"

	srs "go_voca_srs/internal/srs"

	mock "github.com/stretchr/testify/mock"
	uuid "github.com/google/uuid"
)

// ProgressStore is a mock type for the ProgressStore type
type ProgressStore struct {
	mock.Mock
}

// Get provides a mock function with given fields: ctx, learnerID, itemID
func (_m *ProgressStore) Get(ctx context.Context, learnerID uuid.UUID, itemID string) (*srs.ReviewCard, error) {
	ret := _m.Called(ctx, learnerID, itemID)

	var r0 *srs.ReviewCard
	if rf, ok := ret.Get(0).(func(context.Context, uuid.UUID, string) *srs.ReviewCard); ok {
		r0 = rf(ctx, learnerID, itemID)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(*srs.ReviewCard)
	}

	return r0, ret.Error(1)
}

// Put provides a mock function with given fields: ctx, learnerID, card
func (_m *ProgressStore) Put(ctx context.Context, learnerID uuid.UUID, card srs.ReviewCard) error {
	ret := _m.Called(ctx, learnerID, card)
	return ret.Error(0)
}

// PutMany provides a mock function with given fields: ctx, learnerID, cards
func (_m *ProgressStore) PutMany(ctx context.Context, learnerID uuid.UUID, cards []srs.ReviewCard) error {
	ret := _m.Called(ctx, learnerID, cards)
	return ret.Error(0)
}

// ScanDue provides a mock function with given fields: ctx, learnerID, now
func (_m *ProgressStore) ScanDue(ctx context.Context, learnerID uuid.UUID, now time.Time) ([]srs.ReviewCard, error) {
	ret := _m.Called(ctx, learnerID, now)

	var r0 []srs.ReviewCard
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]srs.ReviewCard)
	}

	return r0, ret.Error(1)
}

// List provides a mock function with given fields: ctx, learnerID
func (_m *ProgressStore) List(ctx context.Context, learnerID uuid.UUID) ([]srs.ReviewCard, error) {
	ret := _m.Called(ctx, learnerID)

	var r0 []srs.ReviewCard
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]srs.ReviewCard)
	}

	return r0, ret.Error(1)
}

// Update provides a mock function with given fields: ctx, learnerID, itemID, fn
//
// Return(*srs.ReviewCard or nil, nil) hands that card to fn like a real store does.
// Return(srs.ReviewCard, err) is returned as is.
func (_m *ProgressStore) Update(ctx context.Context, learnerID uuid.UUID, itemID string, fn func(*srs.ReviewCard) (srs.ReviewCard, error)) (srs.ReviewCard, error) {
	ret := _m.Called(ctx, learnerID, itemID, fn)

	if current, ok := ret.Get(0).(*srs.ReviewCard); ok || ret.Get(0) == nil {
		if err := ret.Error(1); err != nil {
			return srs.ReviewCard{}, err
		}
		return fn(current)
	}

	var r0 srs.ReviewCard
	if v, ok := ret.Get(0).(srs.ReviewCard); ok {
		r0 = v
	}
	return r0, ret.Error(1)
}

// ListLearners provides a mock function with given fields: ctx
func (_m *ProgressStore) ListLearners(ctx context.Context) ([]uuid.UUID, error) {
	ret := _m.Called(ctx)

	var r0 []uuid.UUID
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]uuid.UUID)
	}

	return r0, ret.Error(1)
}
