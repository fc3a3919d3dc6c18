package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/contentideas/internal/httpserver/deps"
	"github.com/MrSnakeDoc/contentideas/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/contentideas/internal/httpserver/mw"
)

func init() { Register(registerAPI) }

func registerAPI(r chi.Router, d deps.Deps) {
	r.Route("/api", func(r chi.Router) {
		r.Use(mw.Preflight)

		r.Post("/sessions", handlers.CreateSession(d))
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", handlers.GetSession(d))
			r.Delete("/", handlers.DeleteSession(d))

			throttled(r, d).Post("/generate", handlers.GenerateSession(d))
			throttled(r, d).Post("/generate-more", handlers.GenerateMoreSession(d))

			r.Post("/ideas/{ideaID}/bookmark", handlers.ToggleBookmark(d))
			r.Delete("/bookmarks", handlers.ClearBookmarks(d))
			r.Post("/groups", handlers.CommitGroup(d))
			r.Delete("/groups/{groupID}", handlers.DeleteGroup(d))
			r.Get("/export", handlers.ExportSession(d))
		})

		throttled(r, d).Post("/website", handlers.Website(d))
	})
}
