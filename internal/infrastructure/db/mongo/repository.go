package mongo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/userhub/user-service/internal/core/domain"
	"github.com/userhub/user-service/internal/core/ports"
	"github.com/userhub/user-service/internal/pkg/metrics"
)

// idField is the application-level identifier; Mongo's own _id is left to
// the driver.
const idField = "id"

// Repository implements ports.Repository for documents keyed by idField.
// When cache is nil every operation goes to the store only.
//
// Cache entries are written only after a successful store write: Update
// refreshes the entry from the store, Delete evicts it. Get reads the cache
// first but never back-fills it on a miss.
type Repository[E ports.Entity, P any] struct {
	col   *mongo.Collection
	cache ports.EntityCache
}

// NewRepository builds a repository over col. Pass a nil cache to disable caching.
func NewRepository[E ports.Entity, P any](col *mongo.Collection, cache ports.EntityCache) *Repository[E, P] {
	return &Repository[E, P]{col: col, cache: cache}
}

// GetAll streams every document in the collection. Iteration stops at the
// first error, which is yielded with a zero entity.
func (r *Repository[E, P]) GetAll(ctx context.Context) iter.Seq2[E, error] {
	return func(yield func(E, error) bool) {
		var zero E

		cur, err := r.col.Find(ctx, bson.M{})
		if err != nil {
			yield(zero, fmt.Errorf("find %s: %w", r.col.Name(), err))
			return
		}
		defer cur.Close(ctx)

		for cur.Next(ctx) {
			var e E
			if err := cur.Decode(&e); err != nil {
				yield(zero, fmt.Errorf("decode %s: %w", r.col.Name(), err))
				return
			}
			if !yield(e, nil) {
				return
			}
		}
		if err := cur.Err(); err != nil {
			yield(zero, fmt.Errorf("iterate %s: %w", r.col.Name(), err))
		}
	}
}

// Get returns the cached snapshot when present, otherwise the stored document.
// A failing or corrupt cache read falls back to the store.
func (r *Repository[E, P]) Get(ctx context.Context, id string) (*E, error) {
	if r.cache != nil {
		if e, ok := r.fromCache(ctx, id); ok {
			return e, nil
		}
	}
	return r.find(ctx, id)
}

// Create inserts entity. A unique index violation maps to domain.ErrDuplicateKey.
func (r *Repository[E, P]) Create(ctx context.Context, entity *E) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, entity); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", domain.ErrDuplicateKey
		}
		return "", fmt.Errorf("insert %s: %w", r.col.Name(), err)
	}
	return (*entity).EntityID(), nil
}

// Update applies patch with $set and, when a document matched, refreshes its
// cache entry from the store.
func (r *Repository[E, P]) Update(ctx context.Context, id string, patch P) (bool, error) {
	opCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(opCtx, bson.M{idField: id}, bson.M{"$set": patch})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, domain.ErrDuplicateKey
		}
		return false, fmt.Errorf("update %s %s: %w", r.col.Name(), id, err)
	}
	if res.MatchedCount == 0 {
		return false, nil
	}

	if err := r.CacheEntity(ctx, id); err != nil {
		// Never leave the pre-update snapshot behind.
		metrics.CacheErrorsTotal.WithLabelValues("refresh").Inc()
		if evictErr := r.CacheClearEntity(ctx, id); evictErr != nil {
			return true, errors.Join(err, evictErr)
		}
	}
	return true, nil
}

// Delete removes the document, then evicts any cache entry whether or not a
// document was found.
func (r *Repository[E, P]) Delete(ctx context.Context, id string) (bool, error) {
	opCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(opCtx, bson.M{idField: id})
	if err != nil {
		return false, fmt.Errorf("delete %s %s: %w", r.col.Name(), id, err)
	}

	if err := r.CacheClearEntity(ctx, id); err != nil {
		metrics.CacheErrorsTotal.WithLabelValues("evict").Inc()
		return res.DeletedCount > 0, err
	}
	return res.DeletedCount > 0, nil
}

// CacheEntity copies the stored document for id into the cache. It is a no-op
// when caching is disabled or the document does not exist.
func (r *Repository[E, P]) CacheEntity(ctx context.Context, id string) error {
	if r.cache == nil {
		return nil
	}

	e, err := r.find(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}

	b, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode %s %s: %w", r.col.Name(), id, err)
	}
	return r.cache.Set(ctx, r.cacheKey(id), b)
}

// CacheClearEntity evicts the cache entry for id. It is a no-op when caching
// is disabled.
func (r *Repository[E, P]) CacheClearEntity(ctx context.Context, id string) error {
	if r.cache == nil {
		return nil
	}
	return r.cache.Delete(ctx, r.cacheKey(id))
}

// EnsureIndexes creates the unique index on the identifier field.
func (r *Repository[E, P]) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: idField, Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *Repository[E, P]) find(ctx context.Context, id string) (*E, error) {
	return r.findOne(ctx, bson.M{idField: id})
}

func (r *Repository[E, P]) findOne(ctx context.Context, filter bson.M) (*E, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var e E
	if err := r.col.FindOne(ctx, filter).Decode(&e); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find %s: %w", r.col.Name(), err)
	}
	return &e, nil
}

func (r *Repository[E, P]) fromCache(ctx context.Context, id string) (*E, bool) {
	b, ok, err := r.cache.Get(ctx, r.cacheKey(id))
	if err != nil {
		metrics.CacheErrorsTotal.WithLabelValues("get").Inc()
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var e E
	if err := json.Unmarshal(b, &e); err != nil {
		metrics.CacheErrorsTotal.WithLabelValues("get").Inc()
		return nil, false
	}
	return &e, true
}

func (r *Repository[E, P]) cacheKey(id string) string {
	return r.col.Name() + ":" + id
}
