// Package handlers contains the tool boundary: flat parameter sets mapped
// onto domain operations, with every outcome folded into a uniform Result.
package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/ersonp/rolodex-core/internal/domain/entities"
	"github.com/ersonp/rolodex-core/internal/domain/services"
)

// MaxListLimit caps the page size a caller may request through the tool
// boundary. The domain service itself imposes no upper bound.
const MaxListLimit = 100

// Result is the uniform envelope returned by every tool operation: either a
// data payload on success or a human-readable error string. Failures never
// escape the tool boundary as raw errors.
type Result struct {
	Success bool               `json:"success"`
	Person  *entities.Person   `json:"person,omitempty"`
	Persons []*entities.Person `json:"persons,omitempty"`
	Total   int                `json:"total,omitempty"`
	Created bool               `json:"created,omitempty"`
	Deleted bool               `json:"deleted,omitempty"`
	Summary string             `json:"summary,omitempty"`
	Error   string             `json:"error,omitempty"`
}

// respond runs a tool operation and folds any failure into an error Result.
// Every handler goes through it, so all operations share one shape:
// parameter validation, domain call, envelope.
func respond(op func() (*Result, error)) *Result {
	res, err := op()
	if err != nil {
		return &Result{Error: err.Error()}
	}
	res.Success = true
	return res
}

func failf(format string, args ...any) (*Result, error) {
	return nil, fmt.Errorf(format, args...)
}

// PersonHandler exposes the person registry as tool operations.
type PersonHandler struct {
	people    *services.PersonService
	summaries *services.SummaryService
}

// NewPersonHandler creates a new PersonHandler. The summary service may be
// nil when no summarizer is configured.
func NewPersonHandler(people *services.PersonService, summaries *services.SummaryService) *PersonHandler {
	return &PersonHandler{
		people:    people,
		summaries: summaries,
	}
}

// ListParams are the parameters for HandleList.
type ListParams struct {
	Query  string
	Limit  int
	Offset int
}

// HandleList returns persons matching the query (all persons when empty),
// ordered by display name. Limits above MaxListLimit are clamped.
func (h *PersonHandler) HandleList(ctx context.Context, p ListParams) *Result {
	return respond(func() (*Result, error) {
		if p.Limit > MaxListLimit {
			p.Limit = MaxListLimit
		}

		persons, err := h.people.List(ctx, p.Query, p.Limit, p.Offset)
		if err != nil {
			return nil, err
		}

		total, err := h.people.Count(ctx)
		if err != nil {
			return nil, err
		}

		return &Result{Persons: persons, Total: total}, nil
	})
}

// GetParams are the parameters for HandleGet. Exactly one of ID or Name
// should be set; ID wins when both are.
type GetParams struct {
	ID   string
	Name string
}

// HandleGet looks up a single person by id or by name.
func (h *PersonHandler) HandleGet(ctx context.Context, p GetParams) *Result {
	return respond(func() (*Result, error) {
		person, ref, err := h.resolve(ctx, p.ID, p.Name)
		if err != nil {
			return nil, err
		}
		if person == nil {
			return failf("No person found with %s", ref)
		}
		return &Result{Person: person}, nil
	})
}

// UpsertParams are the parameters for HandleUpsert. With ID set the existing
// record is updated; otherwise Name is the create-or-update key. Pointer
// fields distinguish "not provided" (nil, keep stored value) from "provided
// as empty" (explicit clear). The five metadata fields merge independently;
// unrecognized keys already stored are never touched.
type UpsertParams struct {
	ID           string
	Name         *string
	Description  *string
	Relationship *string
	Email        *string
	Phone        *string
	Birthday     *string
	Workplace    *string
}

// HandleUpsert creates or merges a person record.
func (h *PersonHandler) HandleUpsert(ctx context.Context, p UpsertParams) *Result {
	return respond(func() (*Result, error) {
		if p.ID != "" {
			return h.updateByID(ctx, p)
		}
		return h.upsertByName(ctx, p)
	})
}

func (h *PersonHandler) updateByID(ctx context.Context, p UpsertParams) (*Result, error) {
	existing, err := h.people.GetByID(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return failf("No person found with ID %q", p.ID)
	}

	person, err := h.people.Update(ctx, existing.ID, services.UpdateInput{
		Name:        p.Name,
		Description: p.Description,
		Metadata:    p.mergedMetadata(existing.Metadata),
	})
	if err != nil {
		return nil, err
	}
	return &Result{Person: person}, nil
}

func (h *PersonHandler) upsertByName(ctx context.Context, p UpsertParams) (*Result, error) {
	if p.Name == nil {
		return failf("a name is required to create or update a person")
	}

	// Fetch any existing record first so the metadata fields can be merged
	// against its stored map before the whole-object write.
	existing, err := h.people.GetByName(ctx, *p.Name)
	if err != nil {
		return nil, err
	}
	var stored map[string]string
	if existing != nil {
		stored = existing.Metadata
	}

	person, created, err := h.people.Upsert(ctx, services.UpsertInput{
		Name:        *p.Name,
		Description: p.Description,
		Metadata:    p.mergedMetadata(stored),
	})
	if err != nil {
		return nil, err
	}
	return &Result{Person: person, Created: created}, nil
}

// mergedMetadata folds the provided metadata fields into the stored map.
// Returns nil when no field was provided, so the domain layer keeps the
// stored map untouched.
func (p UpsertParams) mergedMetadata(stored map[string]string) map[string]string {
	updates := make(map[string]string)
	fields := map[string]*string{
		entities.MetaRelationship: p.Relationship,
		entities.MetaEmail:        p.Email,
		entities.MetaPhone:        p.Phone,
		entities.MetaBirthday:     p.Birthday,
		entities.MetaWorkplace:    p.Workplace,
	}
	for key, value := range fields {
		if value != nil {
			updates[key] = *value
		}
	}
	if len(updates) == 0 {
		return nil
	}
	merged := entities.MergeMetadata(stored, updates)
	if merged == nil {
		// All keys cleared: still an explicit whole-object write.
		return map[string]string{}
	}
	return merged
}

// DeleteParams are the parameters for HandleDelete. Exactly one of ID or
// Name should be set; ID wins when both are.
type DeleteParams struct {
	ID   string
	Name string
}

// HandleDelete removes a person by id or by name.
func (h *PersonHandler) HandleDelete(ctx context.Context, p DeleteParams) *Result {
	return respond(func() (*Result, error) {
		person, ref, err := h.resolve(ctx, p.ID, p.Name)
		if err != nil {
			return nil, err
		}
		if person == nil {
			return failf("No person found with %s", ref)
		}

		deleted, err := h.people.Delete(ctx, person.ID)
		if err != nil {
			return nil, err
		}
		return &Result{Person: person, Deleted: deleted}, nil
	})
}

// SummaryParams are the parameters for HandleSummary.
type SummaryParams struct {
	Name string
}

// HandleSummary drafts a short bio of a stored person.
func (h *PersonHandler) HandleSummary(ctx context.Context, p SummaryParams) *Result {
	return respond(func() (*Result, error) {
		if h.summaries == nil {
			return failf("no summarizer is configured")
		}
		if p.Name == "" {
			return failf("a name is required")
		}

		person, summary, err := h.summaries.ForName(ctx, p.Name)
		if err != nil {
			return nil, err
		}
		if person == nil {
			return failf("No person found with name %q", p.Name)
		}
		return &Result{Person: person, Summary: summary}, nil
	})
}

// resolve looks up a person by id when given, falling back to name. The
// returned ref describes the lookup for error messages.
func (h *PersonHandler) resolve(ctx context.Context, id, name string) (*entities.Person, string, error) {
	switch {
	case id != "":
		person, err := h.people.GetByID(ctx, id)
		return person, fmt.Sprintf("ID %q", id), err
	case name != "":
		person, err := h.people.GetByName(ctx, name)
		return person, fmt.Sprintf("name %q", name), err
	default:
		return nil, "", errors.New("either an id or a name is required")
	}
}
