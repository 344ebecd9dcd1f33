package ports

import (
	"context"
	"iter"
)

// Entity is a document addressable by a string identifier.
type Entity interface {
	EntityID() string
}

// Repository defines generic persistence for a document collection E with
// partial updates expressed as P.
//
// Get consults the cache (when enabled) before the store. A cache miss is
// never back-filled; only Update and CacheEntity populate the cache.
type Repository[E Entity, P any] interface {
	// GetAll lazily scans the whole collection. The sequence yields a
	// non-nil error at most once, after which it stops.
	GetAll(ctx context.Context) iter.Seq2[E, error]
	// Get returns domain.ErrNotFound when no document has the given id.
	Get(ctx context.Context, id string) (*E, error)
	// Create inserts the document and returns its id, or domain.ErrDuplicateKey.
	Create(ctx context.Context, entity *E) (string, error)
	// Update applies patch with $set semantics; false means no document matched.
	Update(ctx context.Context, id string, patch P) (bool, error)
	// Delete removes the document and evicts its cache entry; false means
	// nothing was deleted.
	Delete(ctx context.Context, id string) (bool, error)
	CacheEntity(ctx context.Context, id string) error
	CacheClearEntity(ctx context.Context, id string) error
}

// EntityCache stores serialized entity snapshots by key.
type EntityCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Mapper converts between the persisted entity E, its outward DTO D, and the
// update input I turned into the store patch P.
type Mapper[E any, D any, I any, P any] interface {
	ToDTO(entity E) D
	ToPatch(input I) P
}
