// Package services contains the domain services that translate person-level
// operations into storage calls.
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ersonp/rolodex-core/internal/domain/entities"
	"github.com/ersonp/rolodex-core/internal/domain/ports"
)

// DefaultListLimit is applied when List is called without an explicit limit.
const DefaultListLimit = 50

// timeNow returns the current time (can be swapped in tests).
var timeNow = time.Now

// CreateInput holds the fields for creating a person.
type CreateInput struct {
	Name        string
	Description string
	Metadata    map[string]string
}

// UpdateInput holds a partial update. Each field is handled independently:
// a nil pointer (or nil map) means "not provided, keep the stored value"; a
// non-nil pointer to an empty string is an explicit clear. Metadata is
// replaced as a whole object when non-nil; field-level metadata merging is
// the responsibility of the calling layer.
type UpdateInput struct {
	Name        *string
	Description *string
	Metadata    map[string]string
}

// UpsertInput holds the fields for a find-or-create-then-merge write. Name
// is required and is the lookup key; Description and Metadata carry the same
// presence semantics as UpdateInput.
type UpsertInput struct {
	Name        string
	Description *string
	Metadata    map[string]string
}

// PersonService is the single authority over person records: it owns id
// generation, name normalization and the upsert/merge rules, and never
// depends on which storage backend is active.
type PersonService struct {
	storage ports.Storage
}

// NewPersonService creates a new PersonService.
func NewPersonService(storage ports.Storage) *PersonService {
	return &PersonService{storage: storage}
}

// List returns persons whose normalized name contains the normalized query
// as a substring, or all persons when query is empty. Results are ordered
// ascending by display name, then sliced by offset/limit. A limit of zero or
// less falls back to DefaultListLimit; no upper bound is imposed here.
func (s *PersonService) List(ctx context.Context, query string, limit, offset int) ([]*entities.Person, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if offset < 0 {
		offset = 0
	}
	persons, err := s.storage.Find(ctx, ports.Query{
		NameContains: entities.NormalizeName(query),
		Limit:        limit,
		Offset:       offset,
	})
	if err != nil {
		return nil, fmt.Errorf("finding persons: %w", err)
	}
	return persons, nil
}

// GetByID returns the person stored under id, or nil if absent. Absence is
// a normal outcome, not an error.
func (s *PersonService) GetByID(ctx context.Context, id string) (*entities.Person, error) {
	person, err := s.storage.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting person: %w", err)
	}
	return person, nil
}

// GetByName returns the person whose normalized name exactly equals the
// normalization of name, or nil if absent.
func (s *PersonService) GetByName(ctx context.Context, name string) (*entities.Person, error) {
	person, err := s.storage.FindOne(ctx, entities.NormalizeName(name))
	if err != nil {
		return nil, fmt.Errorf("finding person by name: %w", err)
	}
	return person, nil
}

// Create persists a new person with a fresh id. It does not check for an
// existing name collision; callers wanting collision-safe semantics use
// Upsert.
func (s *PersonService) Create(ctx context.Context, in CreateInput) (*entities.Person, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, entities.ErrNameRequired
	}

	now := timeNow()
	person := &entities.Person{
		ID:             uuid.New().String(),
		Name:           in.Name,
		NormalizedName: entities.NormalizeName(in.Name),
		Description:    in.Description,
		Metadata:       cloneMetadata(in.Metadata),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.storage.Put(ctx, person); err != nil {
		return nil, fmt.Errorf("saving person: %w", err)
	}
	return person, nil
}

// Update applies a partial update to the person stored under id and returns
// the updated record, or nil if no such person exists. CreatedAt is never
// touched; UpdatedAt is always refreshed.
func (s *PersonService) Update(ctx context.Context, id string, in UpdateInput) (*entities.Person, error) {
	person, err := s.storage.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting person: %w", err)
	}
	if person == nil {
		return nil, nil
	}

	if in.Name != nil {
		if err := person.Rename(*in.Name); err != nil {
			return nil, err
		}
	}
	if in.Description != nil {
		person.Description = *in.Description
	}
	if in.Metadata != nil {
		person.Metadata = cloneMetadata(in.Metadata)
	}
	person.UpdatedAt = timeNow()

	if err := s.storage.Put(ctx, person); err != nil {
		return nil, fmt.Errorf("saving person: %w", err)
	}
	return person, nil
}

// Upsert looks up a person by normalized name and merges the input into the
// existing record, or creates a new one if none matches. The returned bool
// is true when a new record was created.
//
// The lookup and the write are separate storage calls: two concurrent
// upserts for a previously-absent name can both observe "not found" and
// both create, leaving two records with the same normalized name. This is a
// known race, accepted rather than closed with a lock or unique index.
func (s *PersonService) Upsert(ctx context.Context, in UpsertInput) (*entities.Person, bool, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, false, entities.ErrNameRequired
	}

	existing, err := s.GetByName(ctx, in.Name)
	if err != nil {
		return nil, false, err
	}

	if existing != nil {
		person, err := s.Update(ctx, existing.ID, UpdateInput{
			Name:        &in.Name,
			Description: in.Description,
			Metadata:    in.Metadata,
		})
		if err != nil {
			return nil, false, err
		}
		return person, false, nil
	}

	create := CreateInput{Name: in.Name, Metadata: in.Metadata}
	if in.Description != nil {
		create.Description = *in.Description
	}
	person, err := s.Create(ctx, create)
	if err != nil {
		return nil, false, err
	}
	return person, true, nil
}

// Delete removes the person stored under id. Returns true if a record
// existed and was removed; deleting an absent id returns false, never an
// error.
func (s *PersonService) Delete(ctx context.Context, id string) (bool, error) {
	existed, err := s.storage.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("deleting person: %w", err)
	}
	return existed, nil
}

// DeleteByName resolves a person by normalized name and removes it, with the
// same idempotent semantics as Delete.
func (s *PersonService) DeleteByName(ctx context.Context, name string) (bool, error) {
	person, err := s.GetByName(ctx, name)
	if err != nil {
		return false, err
	}
	if person == nil {
		return false, nil
	}
	return s.Delete(ctx, person.ID)
}

// Count returns the total number of stored persons.
func (s *PersonService) Count(ctx context.Context) (int, error) {
	count, err := s.storage.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("counting persons: %w", err)
	}
	return count, nil
}

func cloneMetadata(metadata map[string]string) map[string]string {
	if len(metadata) == 0 {
		return nil
	}
	clone := make(map[string]string, len(metadata))
	for k, v := range metadata {
		clone[k] = v
	}
	return clone
}
