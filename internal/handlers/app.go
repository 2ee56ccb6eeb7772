package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/petermazzocco/go-photo-gallery/internal/auth"
	"github.com/petermazzocco/go-photo-gallery/internal/metrics"
	"github.com/petermazzocco/go-photo-gallery/internal/store"
	"github.com/petermazzocco/go-photo-gallery/internal/upload"
)

// App carries everything the handlers share. It is built once in main.
type App struct {
	Users    *store.UserStore
	Photos   *store.PhotoStore
	Pipeline *upload.Pipeline
	Sessions *auth.Sessions
	Metrics  *metrics.Metrics
	// Ping checks the database for /healthz.
	Ping func(ctx context.Context) error
	Log  *slog.Logger
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (a *App) Healthz(w http.ResponseWriter, r *http.Request) {
	if a.Ping != nil {
		if err := a.Ping(r.Context()); err != nil {
			a.Log.WarnContext(r.Context(), "health check failed", "err", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
