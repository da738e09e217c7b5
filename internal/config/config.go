package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

const envPrefix = "PROPINTEL_"

// Disable values for PROPINTEL_FETCH_PROXY_URL that mean "fetch directly".
var directFetchValues = map[string]bool{"direct": true, "none": true, "off": true}

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s
	RequestTimeout  time.Duration // per-request budget, must cover a full extraction
	CORSOrigins     []string      // browser origins allowed to call the API

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Extraction
	GeminiAPIKey  string
	GeminiModel   string        // ex: "gemini-2.5-flash"
	GeminiBaseURL string        // override for tests or proxies
	GeminiTimeout time.Duration // HTTP timeout for one generateContent call

	// Fetch
	FetchProxyURL    string // relay taking a url= query; empty = direct GET
	FetchTimeout     time.Duration
	FetchMaxBytes    int64
	FetchUserAgent   string
	FetchConvertHTML bool // convert HTML pages to Markdown before extraction

	// History
	HistoryRetention time.Duration // default 14 days
	PruneInterval    time.Duration // how often expired history is swept

	// Redis
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	AllowedHosts []string // optional, restrict ops endpoints to specific Host headers
	AllowedCIDRS []string // optional, restrict ops endpoints to specific IPs/CIDRs
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)

	RateLimitBurst  int // extraction requests per client before throttling
	RateLimitPerMin int // token refill per client per minute
}

// Load reads the optional config file, then the environment. Missing
// required settings panic, like the rest of startup misconfiguration.
func Load() *Config {
	fc, err := LoadFile(os.Getenv(envPrefix + "CONFIG_FILE"))
	if err != nil {
		panic(fmt.Sprintf("❌ FATAL: %v", err))
	}
	return FromEnv(fc)
}

// FromEnv builds the config from the environment, using fc for defaults.
func FromEnv(fc *FileConfig) *Config {
	if fc == nil {
		fc = &FileConfig{}
	}

	cfg := &Config{
		// Server settings
		ListenPort:      getenv("LISTEN_PORT", orString(fc.Server.ListenPort, ":8080")),
		ShutdownTimeout: mustDuration("SHUTDOWN_TIMEOUT", orDuration(fc.Server.ShutdownTimeout, 5*time.Second)),
		RequestTimeout:  mustDuration("REQUEST_TIMEOUT", orDuration(fc.Server.RequestTimeout, 90*time.Second)),
		CORSOrigins:     getenvSlice("CORS_ORIGINS", orSlice(fc.Server.CORSOrigins, []string{"*"})),

		// Logging
		LogLevel:  getenv("LOG_LEVEL", orString(fc.Log.Level, "info")),
		PrettyLog: mustBool("PRETTY_LOG", orBool(fc.Log.Pretty, true)),

		// Extraction
		GeminiAPIKey:  requireEnv("GEMINI_API_KEY"),
		GeminiModel:   getenv("GEMINI_MODEL", orString(fc.Gemini.Model, "gemini-2.5-flash")),
		GeminiBaseURL: getenv("GEMINI_BASE_URL", orString(fc.Gemini.BaseURL, "https://generativelanguage.googleapis.com/v1beta")),
		GeminiTimeout: mustDuration("GEMINI_TIMEOUT", orDuration(fc.Gemini.Timeout, 60*time.Second)),

		// Fetch
		FetchProxyURL:    proxyURL(getenv("FETCH_PROXY_URL", orString(fc.Fetch.ProxyURL, "https://api.allorigins.win/raw"))),
		FetchTimeout:     mustDuration("FETCH_TIMEOUT", orDuration(fc.Fetch.Timeout, 20*time.Second)),
		FetchMaxBytes:    int64(getenvInt("FETCH_MAX_BYTES", int(orInt64(fc.Fetch.MaxBytes, 5<<20)))),
		FetchUserAgent:   getenv("FETCH_USER_AGENT", fc.Fetch.UserAgent),
		FetchConvertHTML: mustBool("FETCH_CONVERT_HTML", orBool(fc.Fetch.ConvertHTML, false)),

		// History
		HistoryRetention: mustDuration("HISTORY_RETENTION", orDuration(fc.History.Retention, 14*24*time.Hour)),
		PruneInterval:    mustDuration("PRUNE_INTERVAL", orDuration(fc.History.PruneInterval, time.Hour)),

		// Redis settings
		RedisAddr:             requireEnvOr("REDIS_ADDR", fc.Redis.Addr),
		RedisUser:             getenv("REDIS_USERNAME", orString(fc.Redis.Username, "default")),
		RedisPasswordRequired: mustBool("REDIS_PASSWORD_REQUIRED", false),
		RedisPassword:         getenv("REDIS_PASSWORD", ""),
		RedisDB:               getenvInt("REDIS_DB", derefInt(fc.Redis.DB, 0)),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", orInt(fc.Redis.PoolSize, 10)),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", orDuration(fc.Redis.ConnectTimeout, 30*time.Second)),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Access restrictions
		AllowedHosts: getenvSlice("ALLOWED_HOSTS", fc.Access.AllowedHosts),
		AllowedCIDRS: getenvSlice("ALLOWED_CIDRS", fc.Access.AllowedCIDRS),
		TrustProxy:   mustBool("TRUST_PROXY", orBool(fc.Access.TrustProxy, false)),

		RateLimitBurst:  getenvInt("RATE_LIMIT_BURST", orInt(fc.RateLimit.Burst, 5)),
		RateLimitPerMin: getenvInt("RATE_LIMIT_PER_MIN", orInt(fc.RateLimit.PerMinute, 10)),
	}

	if cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		panic("❌ FATAL: PROPINTEL_REDIS_PASSWORD is required when PROPINTEL_REDIS_PASSWORD_REQUIRED=true")
	}
	if cfg.HistoryRetention <= 0 {
		panic("❌ FATAL: PROPINTEL_HISTORY_RETENTION must be positive")
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		log.Printf("[DEBUG] cfg: %+v\n", cfg.Redacted())
	}

	return cfg
}

// Redacted returns a copy safe to print.
func (c Config) Redacted() Config {
	c.GeminiAPIKey = "***REDACTED***"
	if c.RedisPassword != "" {
		c.RedisPassword = "***REDACTED***"
	}
	return c
}

// helpers; every key is read with the PROPINTEL_ prefix

func getenv(key, def string) string {
	if v := os.Getenv(envPrefix + key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	return requireEnvOr(key, "")
}

// requireEnvOr panics when neither the variable nor the fallback is set.
func requireEnvOr(key, fallback string) string {
	if v := os.Getenv(envPrefix + key); v != "" {
		return v
	}
	if fallback != "" {
		return fallback
	}
	panic(fmt.Sprintf("❌ FATAL: Required environment variable %s%s is not set", envPrefix, key))
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(envPrefix + key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getenvSlice(key string, def []string) []string {
	if v := os.Getenv(envPrefix + key); v != "" {
		return splitAndTrim(v)
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(envPrefix + key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(envPrefix + key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func proxyURL(v string) string {
	if directFetchValues[strings.ToLower(strings.TrimSpace(v))] {
		return ""
	}
	return v
}

func orInt64(v, def int64) int64 {
	if v != 0 {
		return v
	}
	return def
}

func derefInt(v *int, def int) int {
	if v != nil {
		return *v
	}
	return def
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
