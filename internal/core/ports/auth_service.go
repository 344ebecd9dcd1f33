package ports

import (
	"context"
	"time"

	"github.com/userhub/user-service/internal/core/domain"
)

// AccessToken is a signed bearer token and its absolute expiry.
type AccessToken struct {
	Token     string
	Type      string
	ExpiresAt time.Time
}

// TokenIssuer signs access tokens for a set of claims.
type TokenIssuer interface {
	Issue(claims domain.TokenClaims, ttl time.Duration) (string, time.Time, error)
}

// TokenVerifier validates a bearer token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*domain.TokenClaims, error)
}

type AuthService interface {
	Login(ctx context.Context, username, password string) (*AccessToken, error)
	Refresh(ctx context.Context, subject string) (*AccessToken, error)
	Logout(ctx context.Context, subject string) error
}
