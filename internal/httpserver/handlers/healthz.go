package handlers

import (
	"net/http"
	"time"

	"github.com/MrSnakeDoc/propintel/internal/httpserver/deps"
)

type healthzResponse struct {
	Status        string    `json:"status"`
	Time          time.Time `json:"time"`
	UptimeSeconds float64   `json:"uptime_seconds"`
	Build         buildInfo `json:"build"`
}

type buildInfo struct {
	Version   string `json:"version,omitempty"`
	Commit    string `json:"commit,omitempty"`
	Date      string `json:"date,omitempty"`
	GoVersion string `json:"go_version,omitempty"`
}

// Healthz reports liveness only; it never touches Redis or the extractor.
func Healthz(d deps.Deps) http.HandlerFunc {
	now := d.TimeNow
	if now == nil {
		now = time.Now
	}
	build := buildInfo{
		Version:   d.Version,
		Commit:    d.Commit,
		Date:      d.BuildDate,
		GoVersion: d.GoVersion,
	}
	return func(w http.ResponseWriter, r *http.Request) {
		t := now()
		writeJSON(w, http.StatusOK, healthzResponse{
			Status:        "ok",
			Time:          t.UTC(),
			UptimeSeconds: t.Sub(d.StartTime).Seconds(),
			Build:         build,
		})
	}
}
