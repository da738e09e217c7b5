package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/propintel/internal/httpserver/deps"
)

type componentStatus struct {
	OK      bool   `json:"ok"`
	Entries *int   `json:"entries,omitempty"`
	Mode    string `json:"mode,omitempty"`
	Impact  string `json:"impact,omitempty"`
	Error   string `json:"error,omitempty"`
}

type infraResponse struct {
	Mode       string                     `json:"mode"`
	Components map[string]componentStatus `json:"components"`
}

func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		historyCount, savedCount := d.Records.Counts()
		extractorMode := "idle"
		if d.Extraction != nil && d.Extraction.Busy() {
			extractorMode = "busy"
		}

		components := map[string]componentStatus{
			"redis":     checkRedis(r.Context(), d),
			"history":   {OK: true, Entries: &historyCount},
			"saved":     {OK: true, Entries: &savedCount},
			"extractor": {OK: true, Mode: extractorMode},
		}

		writeJSON(w, http.StatusOK, infraResponse{
			Mode:       determineMode(components),
			Components: components,
		})
	}
}

func determineMode(components map[string]componentStatus) string {
	// Redis down: records still work but are lost on restart
	if redis, exists := components["redis"]; exists && !redis.OK {
		return "degraded"
	}
	return "operational"
}

func checkRedis(parent context.Context, d deps.Deps) componentStatus {
	if d.RedisClient == nil {
		return componentStatus{
			OK:     false,
			Mode:   "memory-only",
			Impact: "records-not-durable",
			Error:  "client not initialized",
		}
	}

	ctx, cancel := context.WithTimeout(parent, 2*time.Second)
	defer cancel()

	if err := d.RedisClient.Ping(ctx).Err(); err != nil {
		return componentStatus{
			OK:     false,
			Mode:   "memory-only",
			Impact: "records-not-durable",
			Error:  err.Error(),
		}
	}

	return componentStatus{
		OK:     true,
		Mode:   "durable",
		Impact: "none",
	}
}
