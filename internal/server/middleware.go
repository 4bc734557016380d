package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"golang.org/x/time/rate"

	"mixtape/internal/services"
)

type contextKey string

const identityKey contextKey = "identity"

// IdentityFrom returns the caller identity resolved by the session
// middleware. Anonymous requests yield the zero [services.Identity].
func IdentityFrom(ctx context.Context) services.Identity {
	ident, _ := ctx.Value(identityKey).(services.Identity)
	return ident
}

// requestLogger logs one line per request with status, latency and size.
func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			t := time.Now()

			defer func() {
				logger.Info(
					"request",
					"status", ww.Status(),
					"method", r.Method,
					"uri", r.RequestURI,
					"address", r.RemoteAddr,
					"latency", time.Since(t),
					"bytes", ww.BytesWritten(),
				)
			}()

			next.ServeHTTP(ww, r)
		}

		return http.HandlerFunc(fn)
	}
}

// rateLimiter rejects requests beyond limit per second with a burst of
// twice the limit. A non-positive limit disables throttling.
func rateLimiter(limit float64) func(http.Handler) http.Handler {
	var limiter *rate.Limiter
	if limit > 0 {
		limiter = rate.NewLimiter(rate.Limit(limit), int(limit*2))
	}

	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			if limiter != nil && !limiter.Allow() {
				render.Render(w, r, responseTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		}

		return http.HandlerFunc(fn)
	}
}

// sessions resolves the Authorization bearer token into an identity on
// the request context. Requests without a valid token stay anonymous.
func sessions(store *SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			if token := bearerToken(r); token != "" {
				if ident, ok := store.Resolve(token); ok {
					ctx := context.WithValue(r.Context(), identityKey, ident)
					r = r.WithContext(ctx)
				}
			}

			next.ServeHTTP(w, r)
		}

		return http.HandlerFunc(fn)
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
