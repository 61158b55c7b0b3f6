package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/messagely/messagely/internal/auth/service"
	commonerrors "github.com/messagely/messagely/internal/common/errors"
	commonhttp "github.com/messagely/messagely/internal/common/http"
	"github.com/messagely/messagely/internal/common/logger"
)

type contextKey string

const claimsKey contextKey = "auth_claims"

// Guard gates protected routes. Per request it walks a small state machine:
// no token -> reject; token decodes -> authenticated; target user matches ->
// authorized. Unproven identity is 401, proven-but-wrong identity is 403.
type Guard struct {
	tokens *service.TokenService
	log    *logger.Logger
}

func NewGuard(tokens *service.TokenService, log *logger.Logger) *Guard {
	return &Guard{tokens: tokens, log: log}
}

// EnsureAuthenticated requires a valid bearer token and attaches the decoded
// claims to the request context.
func (g *Guard) EnsureAuthenticated(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := g.authenticate(r)
		if err != nil {
			g.log.Warnf("auth failed path=%s: %v", r.URL.Path, err)
			commonhttp.HandleError(w, r, err, g.log)
			return
		}

		next(w, r.WithContext(withClaims(r.Context(), claims)))
	}
}

// EnsureCorrectUser requires a valid bearer token whose username equals the
// one extracted from the request path.
func (g *Guard) EnsureCorrectUser(param func(*http.Request) string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			claims, err := g.authenticate(r)
			if err != nil {
				g.log.Warnf("auth failed path=%s: %v", r.URL.Path, err)
				commonhttp.HandleError(w, r, err, g.log)
				return
			}

			target := param(r)
			if target == "" || target != claims.Username {
				g.log.Warnf("access denied path=%s user=%s target=%s", r.URL.Path, claims.Username, target)
				commonhttp.HandleError(w, r, commonerrors.ErrForbidden, g.log)
				return
			}

			next(w, r.WithContext(withClaims(r.Context(), claims)))
		}
	}
}

func (g *Guard) authenticate(r *http.Request) (service.Claims, error) {
	raw := r.Header.Get("Authorization")
	if raw == "" || !strings.HasPrefix(raw, "Bearer ") {
		return service.Claims{}, commonerrors.ErrUnauthorized
	}

	return g.tokens.Verify(strings.TrimPrefix(raw, "Bearer "))
}

func withClaims(ctx context.Context, claims service.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// FromContext returns the claims EnsureAuthenticated attached, if any.
func FromContext(ctx context.Context) (service.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(service.Claims)
	return claims, ok
}
