package ports

import (
	"context"
	"time"

	"github.com/opsdesk/console/internal/core/domain"
)

// TokenClaims is the verified identity carried by a bearer token.
type TokenClaims struct {
	Username  string
	Role      string
	ExpiresAt time.Time
}

// AuthService implements operator registration, login, and token lifecycle.
type AuthService interface {
	Register(ctx context.Context, username, password, email, role string) (*domain.Operator, error)
	Login(ctx context.Context, username, password string) (string, *domain.Operator, error)
	// Verify parses and validates a bearer token, including the revocation
	// check, and returns its claims.
	Verify(ctx context.Context, token string) (*TokenClaims, error)
	// Logout revokes the token for the remainder of its lifetime.
	Logout(ctx context.Context, token string) error
}

// TokenRevoker is the server-side denylist for signed-out tokens.
type TokenRevoker interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}
