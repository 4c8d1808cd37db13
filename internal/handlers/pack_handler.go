// internal/handlers/pack_handler.go
package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"go_voca_srs/internal/service"
	"go_voca_srs/internal/webutil"

	"github.com/go-chi/chi/v5"
)

type PackHandler struct {
	service service.PackService
	logger  *slog.Logger
}

func NewPackHandler(s service.PackService, logger *slog.Logger) *PackHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PackHandler{
		service: s,
		logger:  logger,
	}
}

// ListPacks は公開中の単語パック一覧を返します
func (h *PackHandler) ListPacks(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "ListPacks"))

	packs, err := h.service.ListPacks(r.Context())
	if err != nil {
		logger.Error("Error listing packs in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Packs listed successfully", slog.Int("count", len(packs)))
	webutil.RespondWithJSON(w, http.StatusOK, packs, logger)
}

// GetPack は slug で指定された単語パックを返します
func (h *PackHandler) GetPack(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	logger := h.logger.With(slog.String("handler", "GetPack"), slog.String("slug", slug))

	pack, err := h.service.GetPack(r.Context(), slug)
	if err != nil {
		logger.Warn("Error getting pack in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, pack, logger)
}

// ListWords はパックの単語を並び順どおりに返します (?limit=N)
func (h *PackHandler) ListWords(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	logger := h.logger.With(slog.String("handler", "ListWords"), slog.String("slug", slug))

	limit, err := parseLimit(r)
	if err != nil {
		logger.Warn("Invalid limit query parameter", slog.String("limit", r.URL.Query().Get("limit")))
		webutil.HandleError(w, logger, err)
		return
	}

	words, err := h.service.ListWords(r.Context(), slug, limit)
	if err != nil {
		logger.Warn("Error listing words in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Words listed successfully", slog.Int("count", len(words)))
	webutil.RespondWithJSON(w, http.StatusOK, words, logger)
}

// LookupWords は ?ids=a,b,c で指定された単語をまとめて返します
func (h *PackHandler) LookupWords(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "LookupWords"))

	var ids []string
	for _, part := range strings.Split(r.URL.Query().Get("ids"), ",") {
		if part = strings.TrimSpace(part); part != "" {
			ids = append(ids, part)
		}
	}

	words, err := h.service.LookupWords(r.Context(), ids)
	if err != nil {
		logger.Warn("Error looking up words in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, words, logger)
}
