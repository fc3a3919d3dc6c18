package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/contentideas/internal/domain"
	"github.com/MrSnakeDoc/contentideas/internal/generation"
	"github.com/MrSnakeDoc/contentideas/internal/httpserver/deps"
	"github.com/MrSnakeDoc/contentideas/internal/logger"
)

// Ideas is the stateless generation endpoint. A non-empty selectedIdeas
// switches the request to continuation mode. Every failure, malformed
// bodies included, is answered with the failure envelope and 500.
func Ideas(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodOptions:
			w.WriteHeader(http.StatusOK)
			return
		case http.MethodPost:
		default:
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.WriteHeader(http.StatusMethodNotAllowed)
			_, _ = w.Write([]byte("Method not allowed"))
			return
		}

		var req generation.Request
		if err := decodeBody(d, r, &req); err != nil {
			d.Logger.Warn("invalid generation request", logger.Error(err))
			writeJSON(w, http.StatusInternalServerError, domain.Failed(err))
			return
		}

		res := generation.Dispatch(r.Context(), d.Generator, req)
		if !res.Success {
			writeJSON(w, http.StatusInternalServerError, res)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}
