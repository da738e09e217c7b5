package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/propintel/internal/httpserver/deps"
	"github.com/MrSnakeDoc/propintel/internal/httpserver/handlers"
)

func init() { Register("current", registerCurrent) }

func registerCurrent(r chi.Router, d deps.Deps) {
	r.Get("/api/current", handlers.Current(d))
	r.Delete("/api/current", handlers.ClearCurrent(d))
	r.Get("/api/current/export/{format}", handlers.ExportCurrent(d))
	r.Get("/api/sample", handlers.Sample(d))
}
