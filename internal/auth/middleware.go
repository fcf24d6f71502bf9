package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/levibo0306/mentora/internal/auth/jwt"
	httperrors "github.com/levibo0306/mentora/pkg/http/errors"
)

type claimsKey struct{}
type tokenKey struct{}

// WithClaims returns a context carrying the authenticated claims.
func WithClaims(ctx context.Context, claims *jwt.Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// ClaimsFromContext returns the claims injected by AuthMiddleware.
func ClaimsFromContext(ctx context.Context) (*jwt.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*jwt.Claims)
	return claims, ok && claims != nil
}

// UserIDFromContext returns the authenticated user id, or uuid.Nil.
func UserIDFromContext(ctx context.Context) uuid.UUID {
	if claims, ok := ClaimsFromContext(ctx); ok {
		return claims.UserID
	}
	return uuid.Nil
}

func tokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}

func bearerToken(r *http.Request) string {
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// AuthMiddleware validates bearer tokens and injects claims into the request
// context. Missing, invalid and revoked tokens leave the request anonymous so
// shared-quiz routes stay reachable; RequireAuth guards the rest.
func AuthMiddleware(authSvc *Service, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := authSvc.Authenticate(r.Context(), token)
			if err != nil {
				logger.Debug().Err(err).Msg("ignoring unusable token")
				next.ServeHTTP(w, r)
				return
			}

			ctx := WithClaims(r.Context(), claims)
			ctx = context.WithValue(ctx, tokenKey{}, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth ensures the request is authenticated.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := ClaimsFromContext(r.Context()); !ok {
			httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole ensures the authenticated user has the given role.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, _ := ClaimsFromContext(r.Context())
			if claims.Role != role {
				httperrors.RespondForbidden(w, httperrors.ErrCodeRoleRequired, "Forbidden")
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}
