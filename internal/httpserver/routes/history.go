package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/propintel/internal/httpserver/deps"
	"github.com/MrSnakeDoc/propintel/internal/httpserver/handlers"
)

func init() { Register("history", registerHistory) }

func registerHistory(r chi.Router, d deps.Deps) {
	r.Route("/api/history", func(r chi.Router) {
		r.Get("/", handlers.History(d))
		r.Get("/{id}", handlers.HistoryEntry(d))
		r.Post("/{id}/view", handlers.ViewHistory(d))
		r.Get("/{id}/export/{format}", handlers.ExportHistory(d))
	})
}
