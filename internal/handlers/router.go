package handlers

import (
	"log/slog"
	"time"

	"go_voca_srs/internal/config"
	"go_voca_srs/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

// NewRouter は API 全体のルーティングとミドルウェアを組み立てます。
func NewRouter(cfg *config.Config, logger *slog.Logger, packs *PackHandler, study *StudyHandler, health *HealthHandler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.LoggingMiddleware(logger))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		ExposedHeaders:   cfg.CORS.ExposedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           cfg.CORS.MaxAge,
	})
	r.Use(corsHandler.Handler)

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	r.Route("/api/v1", func(r chi.Router) {
		// カタログは誰でも参照できる
		r.Route("/packs", func(r chi.Router) {
			r.Get("/", packs.ListPacks)
			r.Get("/{slug}", packs.GetPack)
			r.Get("/{slug}/words", packs.ListWords)
		})
		r.Get("/words", packs.LookupWords)

		// 学習進捗は学習者ごと
		r.Group(func(r chi.Router) {
			r.Use(middleware.LearnerMiddleware(cfg))

			r.Route("/study", func(r chi.Router) {
				r.Get("/due", study.GetDue)
				r.Get("/stats", study.GetStats)
				r.Get("/export", study.Export)
				r.Post("/import", study.Import)
				r.Get("/cards/{item_id}", study.GetCard)
				r.Put("/cards/{item_id}/grade", study.GradeCard)
				r.Post("/cards/{item_id}/answer", study.AnswerCard)
			})
		})
	})

	if health != nil {
		r.Get("/health", health.Check)
	}
	return r
}
