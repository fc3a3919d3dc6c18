package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/contentideas/internal/httpserver/deps"
	"github.com/MrSnakeDoc/contentideas/internal/logger"
)

// Reload asks the content-mix reloader for an immediate reload.
func Reload(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		if d.Mix == nil || !d.Mix.Enabled() || d.ReloadTrigger == nil {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte("No content mix file configured\n"))
			return
		}

		select {
		case d.ReloadTrigger <- struct{}{}:
			d.Logger.Info("manual content mix reload triggered via endpoint",
				logger.String("remote_ip", r.RemoteAddr))
			w.WriteHeader(http.StatusAccepted)
			_, _ = w.Write([]byte("✅ Reload triggered successfully\n"))
		default:
			d.Logger.Warn("content mix reload already pending",
				logger.String("remote_ip", r.RemoteAddr))
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte("⏳ Reload already in progress, please wait\n"))
		}
	}
}
