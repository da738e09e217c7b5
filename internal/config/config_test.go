package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("PROPINTEL_GEMINI_API_KEY", "test-key")
	t.Setenv("PROPINTEL_REDIS_ADDR", "localhost:6379")
}

func TestRequireEnv(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		value     string
		fallback  string
		want      string
		wantPanic bool
	}{
		{name: "variable set", key: "TEST_VAR", value: "test_value", want: "test_value"},
		{name: "fallback used", key: "TEST_VAR_FALLBACK", fallback: "from_file", want: "from_file"},
		{name: "variable wins over fallback", key: "TEST_VAR_BOTH", value: "env", fallback: "file", want: "env"},
		{name: "variable not set", key: "TEST_VAR_MISSING", wantPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv(envPrefix+tt.key, tt.value)
			}

			if tt.wantPanic {
				defer func() {
					if r := recover(); r == nil {
						t.Errorf("requireEnvOr() should have panicked")
					}
				}()
			}

			result := requireEnvOr(tt.key, tt.fallback)
			if !tt.wantPanic && result != tt.want {
				t.Errorf("requireEnvOr() = %v, want %v", result, tt.want)
			}
		})
	}
}

func TestMustDuration(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		def      time.Duration
		expected time.Duration
	}{
		{name: "valid duration", value: "5s", def: time.Second, expected: 5 * time.Second},
		{name: "hours", value: "336h", def: time.Hour, expected: 14 * 24 * time.Hour},
		{name: "invalid duration uses default", value: "invalid", def: 10 * time.Second, expected: 10 * time.Second},
		{name: "missing variable uses default", value: "", def: 15 * time.Second, expected: 15 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv("PROPINTEL_TEST_DURATION", tt.value)
			}
			if got := mustDuration("TEST_DURATION", tt.def); got != tt.expected {
				t.Errorf("mustDuration() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestMustBool(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		def      bool
		expected bool
	}{
		{name: "true value", value: "true", def: false, expected: true},
		{name: "false value", value: "false", def: true, expected: false},
		{name: "invalid value uses default", value: "invalid", def: true, expected: true},
		{name: "missing variable uses default", value: "", def: false, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv("PROPINTEL_TEST_BOOL", tt.value)
			}
			if got := mustBool("TEST_BOOL", tt.def); got != tt.expected {
				t.Errorf("mustBool() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestSplitAndTrim(t *testing.T) {
	got := splitAndTrim(` "10.0.0.0/8", 192.168.1.4 ,,'::1' `)
	want := []string{"10.0.0.0/8", "192.168.1.4", "::1"}
	if len(got) != len(want) {
		t.Fatalf("splitAndTrim() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("splitAndTrim()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFromEnvDefaults(t *testing.T) {
	setRequired(t)

	cfg := FromEnv(nil)

	if cfg.ListenPort != ":8080" {
		t.Errorf("ListenPort = %q", cfg.ListenPort)
	}
	if cfg.HistoryRetention != 14*24*time.Hour {
		t.Errorf("HistoryRetention = %v", cfg.HistoryRetention)
	}
	if cfg.FetchProxyURL != "https://api.allorigins.win/raw" {
		t.Errorf("FetchProxyURL = %q", cfg.FetchProxyURL)
	}
	if cfg.FetchConvertHTML {
		t.Error("HTML conversion should be off by default")
	}
	if cfg.GeminiModel != "gemini-2.5-flash" {
		t.Errorf("GeminiModel = %q", cfg.GeminiModel)
	}
	if cfg.AllowedHosts != nil || cfg.AllowedCIDRS != nil {
		t.Errorf("access lists should be empty by default: %v %v", cfg.AllowedHosts, cfg.AllowedCIDRS)
	}
}

func TestFromEnvMissingAPIKeyPanics(t *testing.T) {
	t.Setenv("PROPINTEL_REDIS_ADDR", "localhost:6379")
	t.Setenv("PROPINTEL_GEMINI_API_KEY", "")

	defer func() {
		if r := recover(); r == nil {
			t.Error("FromEnv() should panic without an API key")
		}
	}()
	FromEnv(nil)
}

func TestFromEnvDirectFetch(t *testing.T) {
	setRequired(t)
	t.Setenv("PROPINTEL_FETCH_PROXY_URL", "direct")

	if cfg := FromEnv(nil); cfg.FetchProxyURL != "" {
		t.Errorf("FetchProxyURL = %q, want direct fetching", cfg.FetchProxyURL)
	}
}

func TestLoadFileOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "propintel.yaml")
	yaml := `
server:
  listen_port: ":9090"
  request_timeout: 2m
  cors_origins: ["https://app.example.com"]
log:
  level: debug
  pretty: false
fetch:
  convert_html: true
  max_bytes: 1024
history:
  retention: 168h
redis:
  addr: "redis.internal:6379"
  db: 2
access:
  allowed_cidrs: ["10.0.0.0/8"]
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	fc, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	t.Setenv("PROPINTEL_GEMINI_API_KEY", "test-key")
	t.Setenv("PROPINTEL_LISTEN_PORT", ":7070")

	cfg := FromEnv(fc)

	if cfg.ListenPort != ":7070" {
		t.Errorf("environment should win: ListenPort = %q", cfg.ListenPort)
	}
	if cfg.RequestTimeout != 2*time.Minute {
		t.Errorf("RequestTimeout = %v", cfg.RequestTimeout)
	}
	if cfg.PrettyLog {
		t.Error("PrettyLog should come from the file")
	}
	if !cfg.FetchConvertHTML || cfg.FetchMaxBytes != 1024 {
		t.Errorf("fetch settings = %v %d", cfg.FetchConvertHTML, cfg.FetchMaxBytes)
	}
	if cfg.HistoryRetention != 7*24*time.Hour {
		t.Errorf("HistoryRetention = %v", cfg.HistoryRetention)
	}
	if cfg.RedisAddr != "redis.internal:6379" || cfg.RedisDB != 2 {
		t.Errorf("redis = %s/%d", cfg.RedisAddr, cfg.RedisDB)
	}
	if len(cfg.CORSOrigins) != 1 || len(cfg.AllowedCIDRS) != 1 {
		t.Errorf("lists = %v %v", cfg.CORSOrigins, cfg.AllowedCIDRS)
	}
}

func TestLoadFileErrors(t *testing.T) {
	if fc, err := LoadFile(""); err != nil || fc == nil {
		t.Errorf("LoadFile(\"\") = %v, %v; want empty config", fc, err)
	}
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadFile() should fail on a missing file")
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("server: [unclosed"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(bad); err == nil {
		t.Error("LoadFile() should fail on invalid YAML")
	}
}

func TestRedacted(t *testing.T) {
	cfg := Config{GeminiAPIKey: "secret", RedisPassword: "hunter2"}
	r := cfg.Redacted()
	if r.GeminiAPIKey == "secret" || r.RedisPassword == "hunter2" {
		t.Errorf("Redacted() leaked secrets: %+v", r)
	}
	if cfg.GeminiAPIKey != "secret" {
		t.Error("Redacted() must not modify the receiver")
	}
}
