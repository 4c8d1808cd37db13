// internal/handlers/study_handler.go
package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"go_voca_srs/internal/middleware"
	"go_voca_srs/internal/model"
	"go_voca_srs/internal/service"
	"go_voca_srs/internal/webutil"

	"github.com/go-chi/chi/v5"
)

type StudyHandler struct {
	service service.StudyService
	logger  *slog.Logger
}

func NewStudyHandler(s service.StudyService, logger *slog.Logger) *StudyHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &StudyHandler{
		service: s,
		logger:  logger,
	}
}

// learnerLogger は学習者を取り出し、ハンドラ名と学習者付きのロガーを返します。
func (h *StudyHandler) learnerLogger(w http.ResponseWriter, r *http.Request, handler string) (model.Learner, *slog.Logger, bool) {
	logger := h.logger.With(slog.String("handler", handler))

	learner, err := middleware.GetLearnerFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return model.Learner{}, nil, false
	}
	return learner, logger.With(slog.String("learner", learner.String())), true
}

// GetDue は今日復習すべきカードを優先順に返します (?limit=N)
func (h *StudyHandler) GetDue(w http.ResponseWriter, r *http.Request) {
	learner, logger, ok := h.learnerLogger(w, r, "GetDue")
	if !ok {
		return
	}

	limit, err := parseLimit(r)
	if err != nil {
		logger.Warn("Invalid limit query parameter", slog.String("limit", r.URL.Query().Get("limit")))
		webutil.HandleError(w, logger, err)
		return
	}

	resp, err := h.service.GetDueCards(r.Context(), learner, limit)
	if err != nil {
		logger.Error("Error getting due cards in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, resp, logger)
}

// GetStats は学習統計を返します
func (h *StudyHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	learner, logger, ok := h.learnerLogger(w, r, "GetStats")
	if !ok {
		return
	}

	stats, err := h.service.GetStats(r.Context(), learner)
	if err != nil {
		logger.Error("Error getting stats in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, stats, logger)
}

// GetCard は1単語分のカードを返します
func (h *StudyHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	learner, logger, ok := h.learnerLogger(w, r, "GetCard")
	if !ok {
		return
	}
	itemID := chi.URLParam(r, "item_id")

	card, err := h.service.GetCard(r.Context(), learner, itemID)
	if err != nil {
		logger.Warn("Error getting card in service", slog.String("item_id", itemID), slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, card, logger)
}

// GradeCard は品質スコア(0〜5)で採点します
func (h *StudyHandler) GradeCard(w http.ResponseWriter, r *http.Request) {
	learner, logger, ok := h.learnerLogger(w, r, "GradeCard")
	if !ok {
		return
	}
	itemID := chi.URLParam(r, "item_id")

	var req model.GradeRequest
	if err := webutil.DecodeAndValidate(w, r, &req, logger); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	resp, err := h.service.Grade(r.Context(), learner, itemID, *req.Quality)
	if err != nil {
		logger.Warn("Error grading card in service", slog.String("item_id", itemID), slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, resp, logger)
}

// AnswerCard は正誤と手応えから品質スコアを決めて採点します
func (h *StudyHandler) AnswerCard(w http.ResponseWriter, r *http.Request) {
	learner, logger, ok := h.learnerLogger(w, r, "AnswerCard")
	if !ok {
		return
	}
	itemID := chi.URLParam(r, "item_id")

	var req model.AnswerRequest
	if err := webutil.DecodeAndValidate(w, r, &req, logger); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	resp, err := h.service.Answer(r.Context(), learner, itemID, *req.IsCorrect, req.Confidence)
	if err != nil {
		logger.Warn("Error answering card in service", slog.String("item_id", itemID), slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, resp, logger)
}

// Export は学習進捗のバックアップをダウンロードさせます
func (h *StudyHandler) Export(w http.ResponseWriter, r *http.Request) {
	learner, logger, ok := h.learnerLogger(w, r, "Export")
	if !ok {
		return
	}

	bundle, err := h.service.Export(r.Context(), learner)
	if err != nil {
		logger.Error("Error exporting progress in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	filename := fmt.Sprintf("voca-srs-backup-%s.json", bundle.ExportedAt.Format("2006-01-02"))
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	webutil.RespondWithJSON(w, http.StatusOK, bundle, logger)
}

// Import はバックアップを学習者のストアへ書き戻します
func (h *StudyHandler) Import(w http.ResponseWriter, r *http.Request) {
	learner, logger, ok := h.learnerLogger(w, r, "Import")
	if !ok {
		return
	}

	var bundle model.ExportBundle
	if err := webutil.DecodeAndValidate(w, r, &bundle, logger); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	n, err := h.service.Import(r.Context(), learner, &bundle)
	if err != nil {
		logger.Warn("Error importing progress in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Progress imported successfully", slog.Int("count", n))
	webutil.RespondWithJSON(w, http.StatusOK, model.ImportResponse{Imported: n}, logger)
}
