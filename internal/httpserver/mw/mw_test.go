package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MrSnakeDoc/propintel/internal/logger"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func serve(h http.Handler, r *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	return rec
}

func TestAllowOnlyCIDRS(t *testing.T) {
	tests := []struct {
		name       string
		allowed    []string
		remote     string
		xff        string
		trustProxy bool
		want       int
	}{
		{name: "empty list passes", remote: "203.0.113.1:1", want: http.StatusOK},
		{name: "allowed cidr", allowed: []string{"10.0.0.0/8"}, remote: "10.1.2.3:1", want: http.StatusOK},
		{name: "outside cidr", allowed: []string{"10.0.0.0/8"}, remote: "203.0.113.1:1", want: http.StatusForbidden},
		{name: "spoofed header ignored", allowed: []string{"10.0.0.0/8"}, remote: "203.0.113.1:1", xff: "10.0.0.1", want: http.StatusForbidden},
		{name: "trusted proxy header", allowed: []string{"10.0.0.0/8"}, remote: "127.0.0.1:1", xff: "10.0.0.1", trustProxy: true, want: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := AllowOnlyCIDRS(tt.allowed, tt.trustProxy, logger.NewNop())(okHandler)
			r := httptest.NewRequest("GET", "/readyz", nil)
			r.RemoteAddr = tt.remote
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if got := serve(h, r).Code; got != tt.want {
				t.Errorf("status = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMatchHost(t *testing.T) {
	tests := []struct {
		host, pattern string
		want          bool
	}{
		{"intel.example.com", "intel.example.com", true},
		{"a.example.com", "*.example.com", true},
		{"a.b.example.com", "*.example.com", true},
		{"example.com", "*.example.com", false},
		{"badexample.com", "*.example.com", false},
		{"other.com", "intel.example.com", false},
	}
	for _, tt := range tests {
		if got := matchHost(tt.host, tt.pattern); got != tt.want {
			t.Errorf("matchHost(%q, %q) = %v, want %v", tt.host, tt.pattern, got, tt.want)
		}
	}
}

func TestEnforceHost(t *testing.T) {
	h := EnforceHost([]string{"Intel.Example.com", "*.internal"}, logger.NewNop())(okHandler)

	for host, want := range map[string]int{
		"intel.example.com:8080": http.StatusOK,
		"api.internal":           http.StatusOK,
		"evil.com":               http.StatusMisdirectedRequest,
	} {
		r := httptest.NewRequest("GET", "/", nil)
		r.Host = host
		if got := serve(h, r).Code; got != want {
			t.Errorf("host %s: status = %d, want %d", host, got, want)
		}
	}

	open := EnforceHost(nil, logger.NewNop())(okHandler)
	if got := serve(open, httptest.NewRequest("GET", "/", nil)).Code; got != http.StatusOK {
		t.Errorf("empty allowlist: status = %d", got)
	}
}

func TestRateLimit(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	h := RateLimit(RateLimitConfig{
		Burst:     2,
		PerMinute: 60,
		Now:       func() time.Time { return now },
	})(okHandler)

	call := func(remote string) *httptest.ResponseRecorder {
		r := httptest.NewRequest("POST", "/api/extract", nil)
		r.RemoteAddr = remote
		return serve(h, r)
	}

	for i := 0; i < 2; i++ {
		if rec := call("192.0.2.1:1"); rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i, rec.Code)
		}
	}

	rec := call("192.0.2.1:1")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("burst exhausted: status = %d, want 429", rec.Code)
	}
	if got := rec.Header().Get("Retry-After"); got != "1" {
		t.Errorf("Retry-After = %q, want 1", got)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	if rec := call("192.0.2.2:1"); rec.Code != http.StatusOK {
		t.Errorf("other clients have their own bucket: status = %d", rec.Code)
	}

	now = now.Add(time.Second)
	if rec := call("192.0.2.1:1"); rec.Code != http.StatusOK {
		t.Errorf("a token should refill after one second: status = %d", rec.Code)
	}
}

func TestLimiterSweepsIdleClients(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	l := newLimiter(RateLimitConfig{
		IdleTTL:       time.Minute,
		SweepInterval: time.Minute,
		Now:           func() time.Time { return now },
	})

	l.bucketFor("a", now)
	l.bucketFor("b", now)
	if n := l.size(); n != 2 {
		t.Fatalf("size = %d, want 2", n)
	}

	l.bucketFor("c", now.Add(2*time.Minute))
	if n := l.size(); n != 1 {
		t.Errorf("idle clients should be swept, size = %d", n)
	}
}

func TestLogCapturesStatus(t *testing.T) {
	var status int
	h := Log(logger.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := w.(*statusWriter)
		http.Error(w, "nope", http.StatusTeapot)
		status = ww.status
	}))

	if rec := serve(h, httptest.NewRequest("GET", "/", nil)); rec.Code != http.StatusTeapot {
		t.Errorf("status = %d", rec.Code)
	}
	if status != http.StatusTeapot {
		t.Errorf("statusWriter recorded %d", status)
	}
}

func TestCORSExposesContentDisposition(t *testing.T) {
	h := CORS([]string{"https://app.example.com"})(okHandler)

	r := httptest.NewRequest("GET", "/api/current", nil)
	r.Header.Set("Origin", "https://app.example.com")
	rec := serve(h, r)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Errorf("Allow-Origin = %q", got)
	}
	if got := rec.Header().Get("Access-Control-Expose-Headers"); got == "" {
		t.Error("expected exposed headers")
	}
}
