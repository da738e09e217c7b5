package deps

import (
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/propintel/internal/extraction"
	"github.com/MrSnakeDoc/propintel/internal/logger"
	"github.com/MrSnakeDoc/propintel/internal/metrics"
	"github.com/MrSnakeDoc/propintel/internal/records"
	"github.com/MrSnakeDoc/propintel/internal/workspace"
)

type Deps struct {
	Logger       logger.Logger
	StartTime    time.Time
	Version      string
	Commit       string
	BuildDate    string
	GoVersion    string
	TimeNow      func() time.Time // for testing, defaults to time.Now
	AllowedHosts []string         // Host headers allowed on ops endpoints
	AllowedCIDRS []string         // IPs allowed on ops endpoints
	TrustProxy   bool             // true if running behind a trusted reverse proxy (e.g., cloudflared)

	RedisClient *redis.Client        // nil disables the redis check in /readyz and /infra
	Records     *records.Gateway     // history log and saved store
	Extraction  *extraction.Service  // runs extraction attempts
	Workspace   *workspace.Workspace // current record and error
	Metrics     *metrics.Metrics     // optional
	SampleText  string               // served by /api/sample

	ExtractBurst  int // rate limit on /api/extract: bucket size per client
	ExtractPerMin int // rate limit on /api/extract: refill per client per minute
}
