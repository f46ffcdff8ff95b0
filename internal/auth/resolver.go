package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/mmynk/petpals/internal/apperr"
	"github.com/mmynk/petpals/internal/tenant"
)

// TokenResolver resolves the tenant context from a bearer token.
type TokenResolver struct {
	jwt *JWTManager
}

var _ tenant.Resolver = (*TokenResolver)(nil)

// NewTokenResolver creates a resolver validating tokens with m.
func NewTokenResolver(m *JWTManager) *TokenResolver {
	return &TokenResolver{jwt: m}
}

// Resolve reads "Authorization: Bearer <token>". A missing or invalid token
// is apperr.ErrUnauthorized; a valid token without an organization yields a
// Context with an empty TenantID.
func (r *TokenResolver) Resolve(header http.Header) (tenant.Context, error) {
	token, err := BearerToken(header)
	if err != nil {
		return tenant.Context{}, fmt.Errorf("%w: %v", apperr.ErrUnauthorized, err)
	}

	claims, err := r.jwt.Validate(token)
	if err != nil {
		return tenant.Context{}, fmt.Errorf("%w: %v", apperr.ErrUnauthorized, err)
	}

	return tenant.Context{UserID: claims.UserID, TenantID: claims.OrganizationID}, nil
}

// BearerToken extracts the token from an Authorization header.
func BearerToken(header http.Header) (string, error) {
	authHeader := header.Get("Authorization")
	if authHeader == "" {
		return "", ErrMissingToken
	}

	scheme, token, ok := strings.Cut(authHeader, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", ErrInvalidToken
	}
	return strings.TrimSpace(token), nil
}
