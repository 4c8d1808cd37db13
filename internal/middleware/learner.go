package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"go_voca_srs/internal/config"
	"go_voca_srs/internal/model"
	"go_voca_srs/internal/webutil"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DeviceIDHeader はログインしていない端末を識別するヘッダーです。
const DeviceIDHeader = "X-Device-ID"

// LearnerMiddleware はリクエストの学習者を決定してコンテキストに格納します。
//
// Authorization: Bearer <JWT> があればアカウント学習者 (sub が学習者ID)。
// なければ X-Device-ID ヘッダーの UUID を端末学習者として扱います。
// Authorization が付いていて検証に失敗した場合は端末扱いに落とさず 401 を返します。
func LearnerMiddleware(cfg *config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := GetLogger(r.Context())

			var learner model.Learner
			if authHeader := r.Header.Get("Authorization"); authHeader != "" {
				id, appErr := parseBearer(authHeader, cfg.Auth.JWTSecret)
				if appErr != nil {
					logger.Warn("Account auth failed", "code", appErr.Detail.Code, "error", appErr.Err)
					webutil.HandleError(w, logger, appErr)
					return
				}
				learner = model.Learner{ID: id, Kind: model.LearnerAccount}
			} else {
				deviceHeader := strings.TrimSpace(r.Header.Get(DeviceIDHeader))
				if deviceHeader == "" {
					logger.Warn("Auth failed: no credentials")
					webutil.HandleError(w, logger, model.NewAppError("UNAUTHORIZED", "Authorization または X-Device-ID ヘッダーが必要です。", "", model.ErrUnauthorized))
					return
				}
				if !cfg.Auth.AllowDevice {
					logger.Warn("Device auth rejected: device learners are disabled")
					webutil.HandleError(w, logger, model.NewAppError("DEVICE_LOGIN_DISABLED", "端末のみでの学習は無効になっています。", "", model.ErrUnauthorized))
					return
				}
				id, err := uuid.Parse(deviceHeader)
				if err != nil || id == uuid.Nil {
					logger.Warn("Device auth failed: invalid device id")
					webutil.HandleError(w, logger, model.NewAppError("INVALID_DEVICE_ID", "X-Device-ID の形式が正しくありません。", "", model.ErrUnauthorized))
					return
				}
				learner = model.Learner{ID: id, Kind: model.LearnerDevice}
			}

			ctx := WithLearner(r.Context(), learner)
			ctx = WithLogger(ctx, logger.With("learner", learner.String()))
			setRequestLearner(ctx, learner.String())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func parseBearer(authHeader, secret string) (uuid.UUID, *model.AppError) {
	scheme, tokenString, ok := strings.Cut(authHeader, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(tokenString) == "" {
		return uuid.Nil, model.NewAppError("UNAUTHORIZED", "Authorizationヘッダーの形式が正しくありません。", "", model.ErrUnauthorized)
	}
	if secret == "" {
		return uuid.Nil, model.NewAppError("ACCOUNT_LOGIN_DISABLED", "アカウント認証は設定されていません。", "", model.ErrUnauthorized)
	}

	claims := &model.LearnerClaims{}
	token, err := jwt.ParseWithClaims(strings.TrimSpace(tokenString), claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return uuid.Nil, model.NewAppError("INVALID_TOKEN", "トークンが無効です。", "", wrapUnauthorized(err))
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, model.NewAppError("INVALID_TOKEN", "トークンの学習者情報が不正です。", "", wrapUnauthorized(err))
	}
	return id, nil
}

func wrapUnauthorized(err error) error {
	if err == nil {
		return model.ErrUnauthorized
	}
	return fmt.Errorf("%w: %w", model.ErrUnauthorized, err)
}

// WithLearner は学習者をコンテキストに格納します。
func WithLearner(ctx context.Context, learner model.Learner) context.Context {
	return context.WithValue(ctx, model.LearnerKey, learner)
}

// GetLearnerFromContext はミドルウェアが格納した学習者を取り出します。
func GetLearnerFromContext(ctx context.Context) (model.Learner, error) {
	learner, ok := ctx.Value(model.LearnerKey).(model.Learner)
	if !ok || learner.ID == uuid.Nil {
		return model.Learner{}, model.NewAppError("UNAUTHORIZED", "学習者情報が見つかりません。", "", model.ErrUnauthorized)
	}
	return learner, nil
}
