package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/userhub/user-service/internal/core/domain"
	"github.com/userhub/user-service/internal/core/ports"
)

const usersCollection = "users"

// UserRepository stores users with caching enabled and a unique username.
type UserRepository struct {
	*Repository[domain.UserRecord, domain.UserPatch]
}

var _ ports.UserRepository = (*UserRepository)(nil)

func NewUserRepository(db *mongo.Database, cache ports.EntityCache) *UserRepository {
	return &UserRepository{
		Repository: NewRepository[domain.UserRecord, domain.UserPatch](db.Collection(usersCollection), cache),
	}
}

// FindByUsername reads the user straight from the store.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.UserRecord, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

// EnsureIndexes creates the unique indexes on id and username. Username
// uniqueness relies on this index; there is no check-then-insert.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	if err := r.Repository.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("users id index: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("users username index: %w", err)
	}
	return nil
}
