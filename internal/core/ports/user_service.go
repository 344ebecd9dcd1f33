package ports

import (
	"context"

	"github.com/userhub/user-service/internal/core/domain"
)

// PasswordHasher hashes and verifies credentials.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

// UserService defines user use cases. Every returned user is sanitized.
type UserService interface {
	GetAll(ctx context.Context) ([]domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Register(ctx context.Context, input domain.UserCreate) (*domain.User, error)
	Update(ctx context.Context, id string, profile domain.UserProfile) (bool, error)
	ChangePassword(ctx context.Context, id, password string) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)
	Logout(ctx context.Context, id string) error
}
