package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// Pinger は疎通確認できる依存先です。
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PingFunc は関数を Pinger として扱うためのアダプタです。
type PingFunc func(ctx context.Context) error

func (f PingFunc) PingContext(ctx context.Context) error { return f(ctx) }

// HealthHandler は登録された依存先 (DB、端末ストア) にpingして結果を返します。
type HealthHandler struct {
	checks map[string]Pinger
	logger *slog.Logger
}

func NewHealthHandler(checks map[string]Pinger, logger *slog.Logger) *HealthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthHandler{checks: checks, logger: logger}
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	for name, p := range h.checks {
		if p == nil {
			continue
		}
		if err := p.PingContext(ctx); err != nil {
			h.logger.ErrorContext(ctx, "Health check failed", slog.String("dependency", name), slog.Any("error", err))
			http.Error(w, "Health check failed", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
