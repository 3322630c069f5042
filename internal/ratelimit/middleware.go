package ratelimit

import (
	"encoding/json"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/sungwon/contact-relay/internal/metrics"
)

// Middleware rejects clients that exceed the request budget with a 429 and a
// Retry-After hint. It runs before the wrapped handler, so rate-limited
// requests never reach body parsing or validation. Backend failures fail
// open: the request proceeds and the error is logged.
func Middleware(l *Limiter, log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := "ratelimit:contact:" + ClientIP(r)

			allowed, retryAfter, err := l.Allow(r.Context(), key)
			if err != nil {
				log.Warn().Err(err).Msg("rate limit check failed; allowing request")
			}
			if !allowed {
				metrics.RateLimitedTotal.Inc()

				seconds := int(math.Ceil(retryAfter.Seconds()))
				if seconds < 1 {
					seconds = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(seconds))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(map[string]string{
					"error": "too many requests, please try again later",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP extracts the originating client address, preferring the first
// X-Forwarded-For hop set by a fronting proxy.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.IndexByte(xff, ','); i >= 0 {
			xff = xff[:i]
		}
		return strings.TrimSpace(xff)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
