package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	goGuard "github.com/HariprasadPoojary/goGuard"
)

// RateLimit returns middleware that throttles a route to times requests per
// window per caller. Authenticated callers get a per-user bucket, anonymous
// callers share a per-IP bucket. An empty route uses the request path.
func RateLimit(engine *goGuard.Engine, route string, times int, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}

			key := route
			if key == "" {
				key = r.URL.Path
			}

			ctx := goGuard.WithClientIP(r.Context(), clientIP(r))
			token, _ := bearerToken(r.Header.Get("Authorization"))
			identifier := engine.Identifier(ctx, token, key)

			decision, err := engine.Allow(ctx, identifier, times, window)
			if err != nil {
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			if !decision.Allowed {
				seconds := int((decision.RetryAfter + time.Second - 1) / time.Second)
				if seconds < 1 {
					seconds = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(seconds))
				http.Error(w, "too many requests", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			fwd = fwd[:i]
		}
		return strings.TrimSpace(fwd)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
