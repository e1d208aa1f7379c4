package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/davedeals/davedeals-server/internal/auth"
	domainerrors "github.com/davedeals/davedeals-server/internal/errors"
	"github.com/davedeals/davedeals-server/internal/service"
)

// ctxKey is the type for context keys to avoid collisions.
type ctxKey string

// claimsKey is the context key for the verified access token claims.
const claimsKey ctxKey = "claims"

// GetClaims returns the verified token claims from context.
// Returns a 401 error if the request is not authenticated.
func GetClaims(ctx context.Context) (*auth.AccessClaims, error) {
	claims, ok := ctx.Value(claimsKey).(*auth.AccessClaims)
	if !ok || claims == nil {
		return nil, huma.Error401Unauthorized("Authentication required")
	}
	return claims, nil
}

// optionalClaims returns the verified claims or nil for anonymous
// requests. Used by endpoints whose response depends on who is asking
// but that do not require authentication.
func optionalClaims(ctx context.Context) *auth.AccessClaims {
	claims, _ := ctx.Value(claimsKey).(*auth.AccessClaims)
	return claims
}

// setClaims stores verified claims in context.
func setClaims(ctx context.Context, claims *auth.AccessClaims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// authMiddleware returns a middleware that validates Bearer tokens and
// stores the claims in context. If no token is present or it fails
// verification, the request continues anonymously; handlers use
// GetClaims to reject where authentication is required.
func authMiddleware(authService *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := authService.VerifyAccessToken(authHeader[7:])
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(setClaims(r.Context(), claims)))
		})
	}
}

// RequireAdmin validates the caller is an authenticated admin.
func RequireAdmin(ctx context.Context) (*auth.AccessClaims, error) {
	claims, err := GetClaims(ctx)
	if err != nil {
		return nil, err
	}
	if !claims.IsAdmin() {
		return nil, domainerrors.Forbidden("Admin access required")
	}
	return claims, nil
}

// RequireSeller validates the caller can manage product listings.
func RequireSeller(ctx context.Context) (*auth.AccessClaims, error) {
	claims, err := GetClaims(ctx)
	if err != nil {
		return nil, err
	}
	if !claims.CanSell() {
		return nil, domainerrors.Forbidden("Seller access required")
	}
	return claims, nil
}
