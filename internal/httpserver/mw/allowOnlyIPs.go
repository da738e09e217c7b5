package mw

import (
	"net/http"

	"github.com/MrSnakeDoc/propintel/internal/logger"
	"github.com/MrSnakeDoc/propintel/internal/utils"
)

// AllowOnlyCIDRS restricts a route to clients whose IP matches one of the
// allowed IPs or CIDRs. An empty list disables the check.
// Set trustProxy only when the service is reachable exclusively through a
// trusted reverse proxy, otherwise forwarded headers can be spoofed.
func AllowOnlyCIDRS(allowed []string, trustProxy bool, log logger.Logger) func(http.Handler) http.Handler {
	m := utils.NewIPMatcher(allowed)
	if m.IsEmpty() {
		log.Debug("ip allowlist empty, not filtering")
		return passthrough
	}

	log.Debug("ip allowlist enabled",
		logger.Int("rules", len(allowed)),
		logger.Bool("trust_proxy", trustProxy))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := utils.ClientIP(r, trustProxy)
			if !m.Allow(ip) {
				log.Warn("request rejected by ip allowlist",
					logger.String("client_ip", ip),
					logger.String("remote_addr", r.RemoteAddr),
					logger.String("path", r.URL.Path))
				reject(w, http.StatusForbidden, http.StatusText(http.StatusForbidden))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func passthrough(next http.Handler) http.Handler { return next }
