// Package ports defines interfaces the domain requires of its
// infrastructure collaborators.
package ports

import (
	"context"

	"github.com/ersonp/rolodex-core/internal/domain/entities"
)

// Query selects person records from storage. The zero value matches all
// records. Results are always ordered ascending by display name.
type Query struct {
	// NameContains, when non-empty, matches records whose normalized name
	// contains it as a substring. Callers normalize the value themselves.
	NameContains string

	// Limit bounds the number of returned records; zero or negative means
	// no bound.
	Limit int

	// Offset skips that many records after ordering.
	Offset int
}

// Storage is a key-addressable person store. Two implementations exist: a
// SQLite table with a normalized-name index, and a Qdrant payload-only
// collection. Both must expose identical observable behavior; the domain
// never depends on which is active.
//
// The collection a store operates on is bound at construction. Absent
// records are reported as (nil, nil), never as errors.
type Storage interface {
	// EnsureReady bootstraps the backing collection (schema, indexes).
	// Idempotent.
	EnsureReady(ctx context.Context) error

	// Close releases the underlying connection.
	Close() error

	// Get returns the record stored under id, or nil if absent.
	Get(ctx context.Context, id string) (*entities.Person, error)

	// Put writes the record under its ID, replacing any existing value at
	// that key.
	Put(ctx context.Context, person *entities.Person) error

	// Delete removes the record stored under id. Returns true if a record
	// existed and was removed.
	Delete(ctx context.Context, id string) (bool, error)

	// Find returns the records matching the query, ordered ascending by
	// display name, then sliced by offset/limit.
	Find(ctx context.Context, q Query) ([]*entities.Person, error)

	// FindOne returns the record whose normalized name equals
	// normalizedName exactly, or nil if absent. If duplicates exist the
	// first match wins.
	FindOne(ctx context.Context, normalizedName string) (*entities.Person, error)

	// Count returns the total number of stored records.
	Count(ctx context.Context) (int, error)
}
