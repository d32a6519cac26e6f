// Package mocks provides in-memory implementations of the domain ports for
// testing.
package mocks

import (
	"context"
	"sort"
	"strings"

	"github.com/ersonp/rolodex-core/internal/domain/entities"
	"github.com/ersonp/rolodex-core/internal/domain/ports"
)

// Storage is an in-memory implementation of ports.Storage. Setting Err makes
// every operation fail with it, for exercising error propagation.
type Storage struct {
	Persons map[string]*entities.Person
	Err     error
}

// NewStorage creates a new mock Storage.
func NewStorage() *Storage {
	return &Storage{
		Persons: make(map[string]*entities.Person),
	}
}

// EnsureReady bootstraps the backing collection.
func (m *Storage) EnsureReady(_ context.Context) error {
	return m.Err
}

// Close releases the underlying connection.
func (m *Storage) Close() error {
	return nil
}

// Get returns the record stored under id, or nil if absent.
func (m *Storage) Get(_ context.Context, id string) (*entities.Person, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	p, ok := m.Persons[id]
	if !ok {
		return nil, nil
	}
	clone := *p
	return &clone, nil
}

// Put writes the record under its ID, replacing any existing value.
func (m *Storage) Put(_ context.Context, person *entities.Person) error {
	if m.Err != nil {
		return m.Err
	}
	clone := *person
	m.Persons[person.ID] = &clone
	return nil
}

// Delete removes the record stored under id.
func (m *Storage) Delete(_ context.Context, id string) (bool, error) {
	if m.Err != nil {
		return false, m.Err
	}
	_, ok := m.Persons[id]
	delete(m.Persons, id)
	return ok, nil
}

// Find returns records matching the query, ordered ascending by display
// name, then sliced by offset/limit.
func (m *Storage) Find(_ context.Context, q ports.Query) ([]*entities.Person, error) {
	if m.Err != nil {
		return nil, m.Err
	}

	result := make([]*entities.Person, 0, len(m.Persons))
	for _, p := range m.Persons {
		if q.NameContains != "" && !strings.Contains(p.NormalizedName, q.NameContains) {
			continue
		}
		clone := *p
		result = append(result, &clone)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	if q.Offset > 0 {
		if q.Offset >= len(result) {
			return []*entities.Person{}, nil
		}
		result = result[q.Offset:]
	}
	if q.Limit > 0 && q.Limit < len(result) {
		result = result[:q.Limit]
	}
	return result, nil
}

// FindOne returns the record with the given normalized name, or nil.
func (m *Storage) FindOne(_ context.Context, normalizedName string) (*entities.Person, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	// Iterate in sorted ID order for deterministic first-match behavior.
	ids := make([]string, 0, len(m.Persons))
	for id := range m.Persons {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if m.Persons[id].NormalizedName == normalizedName {
			clone := *m.Persons[id]
			return &clone, nil
		}
	}
	return nil, nil
}

// Count returns the total number of stored records.
func (m *Storage) Count(_ context.Context) (int, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	return len(m.Persons), nil
}
