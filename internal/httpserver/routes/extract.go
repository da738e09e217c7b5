package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/propintel/internal/httpserver/deps"
	"github.com/MrSnakeDoc/propintel/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/propintel/internal/httpserver/mw"
)

func init() { Register("extract", registerExtract) }

func registerExtract(r chi.Router, d deps.Deps) {
	limit := mw.RateLimit(mw.RateLimitConfig{
		Burst:      d.ExtractBurst,
		PerMinute:  d.ExtractPerMin,
		MaxClients: 10000,
		TrustProxy: d.TrustProxy,
		Logger:     d.Logger,
	})
	r.With(limit).Post("/api/extract", handlers.Extract(d))
}
