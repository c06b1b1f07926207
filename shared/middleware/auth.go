package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/teamforge/teamforge-api/shared/auth"
	"github.com/teamforge/teamforge-api/shared/httputil"
)

type contextKey struct{}

// SessionClaimsKey is the request-context key under which the validated
// session claims are stored.
var SessionClaimsKey = contextKey{}

// RequireSession validates the bearer token on every request and stores its
// claims in the request context. Requests without a valid token get 401.
func RequireSession(jwtAuth auth.JWTAuthenticator, secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := extractAndValidateToken(r, jwtAuth, secret)
			if err != nil {
				httputil.Error(w, http.StatusUnauthorized, err.Error())
				return
			}

			ctx := context.WithValue(r.Context(), SessionClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireTwoFactorAuthenticated rejects sessions that have not completed the
// second authentication factor. It must be mounted inside RequireSession.
func RequireTwoFactorAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := SessionFromContext(r.Context())
		if !ok {
			httputil.Error(w, http.StatusUnauthorized, "missing session")
			return
		}

		if !claims.TwoFactorAuthenticated {
			httputil.Error(w, http.StatusUnauthorized, "two-factor authentication required")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// SessionFromContext returns the session claims stored by RequireSession.
func SessionFromContext(ctx context.Context) (*auth.SessionClaims, bool) {
	claims, ok := ctx.Value(SessionClaimsKey).(*auth.SessionClaims)
	return claims, ok
}

func extractAndValidateToken(r *http.Request, jwtAuth auth.JWTAuthenticator, secret string) (*auth.SessionClaims, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, errors.New("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return nil, errors.New("invalid authorization header format")
	}

	claims, err := jwtAuth.ValidateSessionToken(parts[1], secret)
	if err != nil {
		return nil, errors.New("invalid or expired session token")
	}

	return claims, nil
}
