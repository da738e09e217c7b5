package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/propintel/internal/httpserver/deps"
	"github.com/MrSnakeDoc/propintel/internal/httpserver/handlers"
)

func init() { Register("saved", registerSaved) }

func registerSaved(r chi.Router, d deps.Deps) {
	r.Route("/api/saved", func(r chi.Router) {
		r.Get("/", handlers.SavedList(d))
		r.Post("/", handlers.Save(d))
		r.Get("/{id}", handlers.SavedGet(d))
		r.Delete("/{id}", handlers.SavedDelete(d))
		r.Post("/{id}/view", handlers.ViewSaved(d))
		r.Get("/{id}/export/{format}", handlers.ExportSaved(d))
	})
}
