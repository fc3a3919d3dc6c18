package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/contentideas/internal/httpserver/deps"
	"github.com/MrSnakeDoc/contentideas/internal/httpserver/handlers"
)

func init() { Register(registerIdeas) }

// registerIdeas mounts the stateless endpoint on every method so that
// non-POST requests get the endpoint's own 405.
func registerIdeas(r chi.Router, d deps.Deps) {
	h := handlers.Ideas(d)
	throttled(r, d).HandleFunc("/", h)
	throttled(r, d).HandleFunc("/generate-more", h)
}
