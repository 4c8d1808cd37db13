// internal/service/review_service_test.go
package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go_voca_srs/internal/config"
	"go_voca_srs/internal/model"
	"go_voca_srs/internal/repository/mocks"
	"go_voca_srs/internal/srs"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var studyNow = time.Date(2025, time.June, 1, 10, 0, 0, 0, time.UTC)

func newTestStudyService(accounts, devices *mocks.ProgressStore) *studyService {
	cfg := &config.Config{App: config.AppConfig{ReviewLimit: 2}}
	s := &studyService{cfg: cfg, now: func() time.Time { return studyNow }}
	// nil ポインタをインターフェースに入れると「ストアあり」扱いになるため分けて代入
	if accounts != nil {
		s.accounts = accounts
	}
	if devices != nil {
		s.devices = devices
	}
	return s
}

func assertAppError(t *testing.T, err error, code string, sentinel error) {
	t.Helper()
	require.Error(t, err)
	var appErr *model.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Detail.Code)
	assert.ErrorIs(t, err, sentinel)
}

func Test_studyService_Grade(t *testing.T) {
	ctx := context.Background()
	accounts := new(mocks.ProgressStore)
	devices := new(mocks.ProgressStore)
	svc := newTestStudyService(accounts, devices)

	account := model.Learner{ID: uuid.New(), Kind: model.LearnerAccount}
	device := model.Learner{ID: uuid.New(), Kind: model.LearnerDevice}
	existing := &srs.ReviewCard{
		ItemID: "word-1", Repetitions: 1, Interval: 1, Ease: 2.5,
		LastReviewedAt: studyNow.Add(-srs.Day), NextReviewAt: studyNow,
	}

	tests := []struct {
		name      string
		learner   model.Learner
		quality   int
		setupMock func()
		wantErr   error
		wantCode  string
		check     func(t *testing.T, resp *model.GradeResponse)
	}{
		{
			name:    "正常系: 初回の採点はデフォルトカードから計算",
			learner: account,
			quality: 5,
			setupMock: func() {
				accounts.On("Update", ctx, account.ID, "word-1", mock.Anything).Return(nil, nil).Once()
			},
			check: func(t *testing.T, resp *model.GradeResponse) {
				assert.Equal(t, 5, resp.Quality)
				assert.Equal(t, 1, resp.Card.Repetitions)
				assert.Equal(t, 1, resp.Card.Interval)
				assert.Equal(t, 2.6, resp.Card.Ease)
				assert.Equal(t, studyNow.Add(srs.Day), resp.Card.NextReviewAt)
				assert.False(t, resp.Card.IsDue)
				assert.Equal(t, 1, resp.Card.DaysUntilReview)
			},
		},
		{
			name:    "正常系: 2回目の成功は6日後",
			learner: account,
			quality: 4,
			setupMock: func() {
				accounts.On("Update", ctx, account.ID, "word-1", mock.Anything).Return(existing, nil).Once()
			},
			check: func(t *testing.T, resp *model.GradeResponse) {
				assert.Equal(t, 2, resp.Card.Repetitions)
				assert.Equal(t, 6, resp.Card.Interval)
				assert.Equal(t, 2.5, resp.Card.Ease)
			},
		},
		{
			name:    "正常系: 端末学習者は端末ストアを使う",
			learner: device,
			quality: 1,
			setupMock: func() {
				devices.On("Update", ctx, device.ID, "word-1", mock.Anything).Return(existing, nil).Once()
			},
			check: func(t *testing.T, resp *model.GradeResponse) {
				assert.Equal(t, 0, resp.Card.Repetitions)
				assert.Equal(t, 1, resp.Card.Lapses)
				assert.Equal(t, 2.5, resp.Card.Ease)
			},
		},
		{
			name:      "異常系: quality が範囲外",
			learner:   account,
			quality:   6,
			setupMock: func() {},
			wantErr:   model.ErrInvalidInput,
			wantCode:  "INVALID_QUALITY",
		},
		{
			name:      "異常系: quality が負",
			learner:   account,
			quality:   -1,
			setupMock: func() {},
			wantErr:   model.ErrInvalidInput,
			wantCode:  "INVALID_QUALITY",
		},
		{
			name:    "異常系: ストアのエラー",
			learner: account,
			quality: 3,
			setupMock: func() {
				accounts.On("Update", ctx, account.ID, "word-1", mock.Anything).
					Return(srs.ReviewCard{}, errors.New("db down")).Once()
			},
			wantErr:  nil,
			wantCode: "INTERNAL_SERVER_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accounts.Mock = mock.Mock{}
			devices.Mock = mock.Mock{}
			tt.setupMock()

			resp, err := svc.Grade(ctx, tt.learner, "word-1", tt.quality)

			if tt.wantCode != "" {
				require.Error(t, err)
				var appErr *model.AppError
				require.ErrorAs(t, err, &appErr)
				assert.Equal(t, tt.wantCode, appErr.Detail.Code)
				if tt.wantErr != nil {
					assert.ErrorIs(t, err, tt.wantErr)
				}
				assert.Nil(t, resp)
			} else {
				require.NoError(t, err)
				require.NotNil(t, resp)
				tt.check(t, resp)
			}
			accounts.AssertExpectations(t)
			devices.AssertExpectations(t)
		})
	}
}

func Test_studyService_GradeRejectsBadItemID(t *testing.T) {
	svc := newTestStudyService(new(mocks.ProgressStore), nil)
	learner := model.Learner{ID: uuid.New(), Kind: model.LearnerAccount}

	for _, id := range []string{"", "   ", "has:colon", string(make([]byte, config.ItemIDMaxLength+1))} {
		_, err := svc.Grade(context.Background(), learner, id, 4)
		assertAppError(t, err, "INVALID_ITEM_ID", model.ErrInvalidInput)
	}
}

func Test_studyService_UnavailableStore(t *testing.T) {
	svc := newTestStudyService(new(mocks.ProgressStore), nil)
	device := model.Learner{ID: uuid.New(), Kind: model.LearnerDevice}

	_, err := svc.Grade(context.Background(), device, "w", 4)
	assertAppError(t, err, "STORE_UNAVAILABLE", model.ErrForbidden)
}

func Test_studyService_Answer(t *testing.T) {
	ctx := context.Background()
	accounts := new(mocks.ProgressStore)
	svc := newTestStudyService(accounts, nil)
	learner := model.Learner{ID: uuid.New(), Kind: model.LearnerAccount}

	tests := []struct {
		name        string
		isCorrect   bool
		confidence  string
		wantQuality int
	}{
		{"不正解は0", false, "easy", 0},
		{"正解・easy は5", true, "easy", 5},
		{"正解・省略は4", true, "", 4},
		{"正解・hard は3", true, "hard", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accounts.Mock = mock.Mock{}
			accounts.On("Update", ctx, learner.ID, "w", mock.Anything).Return(nil, nil).Once()

			resp, err := svc.Answer(ctx, learner, "w", tt.isCorrect, tt.confidence)
			require.NoError(t, err)
			assert.Equal(t, tt.wantQuality, resp.Quality)
			accounts.AssertExpectations(t)
		})
	}

	t.Run("異常系: 不明な confidence", func(t *testing.T) {
		accounts.Mock = mock.Mock{}
		_, err := svc.Answer(ctx, learner, "w", true, "meh")
		assertAppError(t, err, "INVALID_CONFIDENCE", model.ErrInvalidInput)
		accounts.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func Test_studyService_GetDueCards(t *testing.T) {
	ctx := context.Background()
	accounts := new(mocks.ProgressStore)
	svc := newTestStudyService(accounts, nil)
	learner := model.Learner{ID: uuid.New(), Kind: model.LearnerAccount}

	scanned := []srs.ReviewCard{
		{ItemID: "a", Ease: 2.5, NextReviewAt: studyNow.Add(-3 * srs.Day)},
		{ItemID: "b", Ease: 2.5, Lapses: 2, NextReviewAt: studyNow.Add(-time.Hour)},
		{ItemID: "c", Ease: 1.3, NextReviewAt: studyNow.Add(-3 * srs.Day)},
	}

	t.Run("正常系: 優先順で limit 件まで", func(t *testing.T) {
		accounts.Mock = mock.Mock{}
		accounts.On("ScanDue", ctx, learner.ID, studyNow).Return(scanned, nil).Once()

		resp, err := svc.GetDueCards(ctx, learner, 0) // 0 は設定値 (2) を使う
		require.NoError(t, err)
		assert.Equal(t, 3, resp.TotalDue)
		require.Len(t, resp.Cards, 2)
		assert.Equal(t, "b", resp.Cards[0].ItemID)
		assert.Equal(t, "c", resp.Cards[1].ItemID)
		assert.True(t, resp.Cards[0].IsDue)
		accounts.AssertExpectations(t)
	})

	t.Run("正常系: 0件", func(t *testing.T) {
		accounts.Mock = mock.Mock{}
		accounts.On("ScanDue", ctx, learner.ID, studyNow).Return(nil, nil).Once()

		resp, err := svc.GetDueCards(ctx, learner, 10)
		require.NoError(t, err)
		assert.Equal(t, 0, resp.TotalDue)
		assert.NotNil(t, resp.Cards)
		assert.Empty(t, resp.Cards)
	})

	t.Run("異常系: ストアのエラー", func(t *testing.T) {
		accounts.Mock = mock.Mock{}
		boom := errors.New("scan failed")
		accounts.On("ScanDue", ctx, learner.ID, studyNow).Return(nil, boom).Once()

		_, err := svc.GetDueCards(ctx, learner, 10)
		assertAppError(t, err, "INTERNAL_SERVER_ERROR", boom)
	})
}

func Test_studyService_GetStats(t *testing.T) {
	ctx := context.Background()
	accounts := new(mocks.ProgressStore)
	svc := newTestStudyService(accounts, nil)
	learner := model.Learner{ID: uuid.New(), Kind: model.LearnerAccount}

	cards := []srs.ReviewCard{
		{ItemID: "1", NextReviewAt: studyNow.Add(-srs.Day)},
		{ItemID: "2", NextReviewAt: studyNow.Add(-time.Minute)},
		{ItemID: "3", NextReviewAt: studyNow.Add(20 * time.Hour)},
		{ItemID: "4", NextReviewAt: studyNow.Add(4 * srs.Day), Repetitions: 2},
		{ItemID: "5", NextReviewAt: studyNow.Add(10 * srs.Day), Repetitions: 3},
	}
	accounts.On("List", ctx, learner.ID).Return(cards, nil).Once()

	stats, err := svc.GetStats(ctx, learner)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.DueToday)
	assert.Equal(t, 1, stats.DueTomorrow)
	assert.Equal(t, 5, stats.TotalCards)
	assert.Equal(t, 2, stats.MatureCards)
	accounts.AssertExpectations(t)
}

func Test_studyService_GetCard(t *testing.T) {
	ctx := context.Background()
	accounts := new(mocks.ProgressStore)
	svc := newTestStudyService(accounts, nil)
	learner := model.Learner{ID: uuid.New(), Kind: model.LearnerAccount}

	accounts.On("Get", ctx, learner.ID, "missing").Return(nil, model.ErrNotFound).Once()
	_, err := svc.GetCard(ctx, learner, "missing")
	assertAppError(t, err, "CARD_NOT_FOUND", model.ErrNotFound)

	card := &srs.ReviewCard{ItemID: "w", Interval: 6, Ease: 2.5, Repetitions: 2, NextReviewAt: studyNow.Add(-time.Hour)}
	accounts.On("Get", ctx, learner.ID, "w").Return(card, nil).Once()
	resp, err := svc.GetCard(ctx, learner, "w")
	require.NoError(t, err)
	assert.True(t, resp.IsDue)
	assert.Equal(t, 6, resp.Interval)
	accounts.AssertExpectations(t)
}

func Test_studyService_ExportImport(t *testing.T) {
	ctx := context.Background()
	devices := new(mocks.ProgressStore)
	svc := newTestStudyService(nil, devices)
	learner := model.Learner{ID: uuid.New(), Kind: model.LearnerDevice}

	cards := []srs.ReviewCard{
		{ItemID: "w1", Interval: 1, Ease: 2.5, LastReviewedAt: studyNow, NextReviewAt: studyNow.Add(srs.Day)},
		{ItemID: "w2", Interval: 6, Ease: 2.2, Repetitions: 2, LastReviewedAt: studyNow, NextReviewAt: studyNow.Add(6 * srs.Day)},
	}

	devices.On("List", ctx, learner.ID).Return(cards, nil).Once()
	bundle, err := svc.Export(ctx, learner)
	require.NoError(t, err)
	assert.Equal(t, model.ExportBundleVersion, bundle.Version)
	assert.Equal(t, learner.ID.String(), bundle.LearnerID)
	assert.Equal(t, studyNow, bundle.ExportedAt)
	assert.Equal(t, cards, bundle.Cards)

	devices.On("PutMany", ctx, learner.ID, cards).Return(nil).Once()
	n, err := svc.Import(ctx, learner, bundle)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	devices.AssertExpectations(t)
}

func Test_studyService_ImportRejectsInvalidCards(t *testing.T) {
	ctx := context.Background()
	devices := new(mocks.ProgressStore)
	svc := newTestStudyService(nil, devices)
	learner := model.Learner{ID: uuid.New(), Kind: model.LearnerDevice}

	valid := srs.ReviewCard{ItemID: "ok", Interval: 1, Ease: 2.5, LastReviewedAt: studyNow, NextReviewAt: studyNow.Add(srs.Day)}
	tooEasy := valid
	tooEasy.ItemID, tooEasy.Ease = "bad-ease", 1.0
	noDates := srs.ReviewCard{ItemID: "no-dates", Interval: 1, Ease: 2.5}
	shifted := valid
	shifted.ItemID, shifted.NextReviewAt = "shifted", studyNow.Add(30*srs.Day)
	tooLong := valid
	tooLong.ItemID, tooLong.Interval = "too-long", srs.MaxInterval+1
	tooLong.NextReviewAt = studyNow.Add(time.Duration(tooLong.Interval) * srs.Day)

	tests := []struct {
		name     string
		bundle   *model.ExportBundle
		wantCode string
	}{
		{"nil バンドル", nil, "INVALID_BACKUP"},
		{"未対応バージョン", &model.ExportBundle{Version: 99, Cards: []srs.ReviewCard{valid}}, "UNSUPPORTED_BACKUP_VERSION"},
		{"ease が下限未満", &model.ExportBundle{Version: 1, Cards: []srs.ReviewCard{valid, tooEasy}}, "INVALID_BACKUP"},
		{"次回復習日が interval と不一致", &model.ExportBundle{Version: 1, Cards: []srs.ReviewCard{valid, shifted}}, "INVALID_BACKUP"},
		{"interval が上限超過", &model.ExportBundle{Version: 1, Cards: []srs.ReviewCard{tooLong}}, "INVALID_BACKUP"},
		{"日時なし", &model.ExportBundle{Version: 1, Cards: []srs.ReviewCard{noDates}}, "INVALID_BACKUP"},
		{"空の itemID", &model.ExportBundle{Version: 1, Cards: []srs.ReviewCard{{Interval: 1, Ease: 2.5}}}, "INVALID_ITEM_ID"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Import(ctx, learner, tt.bundle)
			assertAppError(t, err, tt.wantCode, model.ErrInvalidInput)
		})
	}
	devices.AssertNotCalled(t, "PutMany", mock.Anything, mock.Anything, mock.Anything)
}
