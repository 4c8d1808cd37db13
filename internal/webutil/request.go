package webutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"go_voca_srs/internal/model"

	"github.com/go-playground/validator/v10"
)

// maxBodyBytes はバックアップの取り込みを考慮したリクエストボディの上限です。
const maxBodyBytes = 8 << 20

// DecodeJSONBody はリクエストボディをデコードします。
// 上限を超えたボディは model.ErrTooLarge を返します。
func DecodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return model.ErrInvalidInput
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return fmt.Errorf("%w: limit %d bytes", model.ErrTooLarge, maxErr.Limit)
		}
		return fmt.Errorf("%w: %v", model.ErrInvalidInput, err)
	}
	return nil
}

// DecodeAndValidate はボディのデコードとバリデーションをまとめて行い、
// 失敗時はクライアントに返せる AppError を返します。
func DecodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}, logger *slog.Logger) error {
	if err := DecodeJSONBody(w, r, dst); err != nil {
		logger.Warn("Failed to decode request body", slog.String("error", err.Error()))
		if errors.Is(err, model.ErrTooLarge) {
			return model.NewAppError("REQUEST_BODY_TOO_LARGE", "リクエストボディが大きすぎます (上限 8MB)。", "", err)
		}
		return model.NewAppError("INVALID_REQUEST_BODY", "リクエストボディの形式が正しくありません。", "", model.ErrInvalidInput)
	}

	if err := Validator.Struct(dst); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			logger.Warn("Validation failed", slog.String("errors", validationErrors.Error()))
			return NewValidationErrorResponse(validationErrors)
		}
		logger.Error("Unexpected error during validation", slog.Any("error", err))
		return err
	}
	return nil
}
