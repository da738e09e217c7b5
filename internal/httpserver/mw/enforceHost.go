package mw

import (
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/propintel/internal/logger"
	"github.com/MrSnakeDoc/propintel/internal/utils"
)

// EnforceHost accepts a request only when its Host header, port excluded,
// matches one of the allowed hosts. Patterns like "*.example.com" match any
// subdomain. An empty list disables the check.
func EnforceHost(allowedHosts []string, log logger.Logger) func(http.Handler) http.Handler {
	if len(allowedHosts) == 0 {
		log.Debug("host allowlist empty, not filtering")
		return passthrough
	}

	patterns := make([]string, 0, len(allowedHosts))
	for _, h := range allowedHosts {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			patterns = append(patterns, h)
		}
	}
	log.Debug("host allowlist enabled", logger.Strings("hosts", patterns))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			host := strings.ToLower(utils.ParseHostNoPort(r.Host))
			for _, pattern := range patterns {
				if matchHost(host, pattern) {
					next.ServeHTTP(w, r)
					return
				}
			}

			log.Warn("request rejected by host allowlist",
				logger.String("host", r.Host),
				logger.String("path", r.URL.Path))
			reject(w, http.StatusMisdirectedRequest, "unknown host")
		})
	}
}

// matchHost reports whether host equals pattern or, for "*.example.com",
// is a strict subdomain of example.com.
func matchHost(host, pattern string) bool {
	if host == pattern {
		return true
	}
	suffix, ok := strings.CutPrefix(pattern, "*")
	if !ok || !strings.HasPrefix(suffix, ".") {
		return false
	}
	return len(host) > len(suffix) && strings.HasSuffix(host, suffix)
}
