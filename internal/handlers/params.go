package handlers

import (
	"net/http"
	"strconv"

	"go_voca_srs/internal/model"
)

const maxLimit = 500

// parseLimit は ?limit= を読みます。未指定なら 0 (サービス側の既定値) を返します。
func parseLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 || limit > maxLimit {
		return 0, model.NewAppError("INVALID_QUERY_PARAM", "limit は1〜"+strconv.Itoa(maxLimit)+"の整数で指定してください。", "limit", model.ErrInvalidInput)
	}
	return limit, nil
}
