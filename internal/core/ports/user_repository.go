package ports

import (
	"context"

	"github.com/userhub/user-service/internal/core/domain"
)

// UserRepository adds username lookups to the generic repository.
type UserRepository interface {
	Repository[domain.UserRecord, domain.UserPatch]
	// FindByUsername reads straight from the store, bypassing the cache.
	FindByUsername(ctx context.Context, username string) (*domain.UserRecord, error)
}
