package mw

import (
	"net/http"

	"github.com/MrSnakeDoc/contentideas/internal/logger"
	"github.com/MrSnakeDoc/contentideas/internal/utils"
)

func clientIP(r *http.Request, trustProxy bool) string {
	return utils.ClientIP(r, trustProxy)
}

// AllowOnlyCIDRs restricts a route to the given IPs/CIDRs. An empty list
// disables filtering.
func AllowOnlyCIDRs(allowed []string, trustProxy bool, log logger.Logger) func(http.Handler) http.Handler {
	m := utils.NewIPMatcher(allowed)
	if m.IsEmpty() {
		return func(next http.Handler) http.Handler { return next }
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r, trustProxy)
			if !m.Allow(ip) {
				log.Debug("request rejected by cidr filter",
					logger.String("remote_ip", ip),
					logger.String("path", r.URL.Path))
				w.WriteHeader(http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
