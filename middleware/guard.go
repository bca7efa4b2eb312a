package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	goGuard "github.com/HariprasadPoojary/goGuard"
)

type identityContextKey struct{}

func IdentityFromContext(ctx context.Context) (*goGuard.Identity, bool) {
	id, ok := ctx.Value(identityContextKey{}).(*goGuard.Identity)
	return id, ok
}

// Guard returns middleware that requires a valid bearer token carrying every
// listed scope. Missing or defective tokens get 401 with a WWW-Authenticate
// challenge; a valid token lacking a scope gets 403.
func Guard(engine *goGuard.Engine, scopes ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				w.Header().Set("WWW-Authenticate", "Bearer")
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			token, _ := bearerToken(r.Header.Get("Authorization"))

			identity, err := engine.Authorize(r.Context(), token, scopes...)
			if err != nil {
				if errors.Is(err, goGuard.ErrInsufficientScope) {
					w.Header().Set("WWW-Authenticate", fmt.Sprintf("Bearer scope=%q", strings.Join(scopes, " ")))
					http.Error(w, "forbidden", http.StatusForbidden)
					return
				}
				w.Header().Set("WWW-Authenticate", "Bearer")
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), identityContextKey{}, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Optional returns middleware that attaches an identity when a bearer token
// is present and valid, and an anonymous identity when the header is absent.
// A token that is present but defective is still rejected with 401.
func Optional(engine *goGuard.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				identity := goGuard.AnonymousIdentity()
				ctx := context.WithValue(r.Context(), identityContextKey{}, identity)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			if engine == nil {
				w.Header().Set("WWW-Authenticate", "Bearer")
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			identity, err := engine.Authorize(r.Context(), token)
			if err != nil {
				w.Header().Set("WWW-Authenticate", "Bearer")
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), identityContextKey{}, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	token := value[len(bearer):]
	if token == "" {
		return "", false
	}

	return token, true
}
