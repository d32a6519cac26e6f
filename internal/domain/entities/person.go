// Package entities defines the core domain types for the person registry.
package entities

import (
	"errors"
	"strings"
	"time"
)

// Recognized metadata keys. Arbitrary extra keys are permitted alongside
// these; the constants exist so callers agree on spelling.
const (
	MetaRelationship = "relationship"
	MetaEmail        = "email"
	MetaPhone        = "phone"
	MetaBirthday     = "birthday"
	MetaWorkplace    = "workplace"
)

// MetadataKeys lists the recognized metadata keys in display order.
var MetadataKeys = []string{
	MetaRelationship,
	MetaEmail,
	MetaPhone,
	MetaBirthday,
	MetaWorkplace,
}

// ErrNameRequired is returned when a person is created or renamed with a
// name that is empty after trimming.
var ErrNameRequired = errors.New("name is required")

// Person is a stored record about an individual: a display name plus
// free-form description and contact/relationship metadata.
type Person struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`            // Original name (e.g., "Maria Silva")
	NormalizedName string            `json:"normalized_name"` // Lowercase for matching (e.g., "maria silva")
	Description    string            `json:"description,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// NormalizeName converts a name to lowercase and trims surrounding
// whitespace for case-insensitive matching. NormalizedName is always derived
// through this function, never set independently.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Rename sets a new display name and recomputes the normalized name.
// Returns ErrNameRequired if the name is empty after trimming.
func (p *Person) Rename(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrNameRequired
	}
	p.Name = name
	p.NormalizedName = NormalizeName(name)
	return nil
}

// MergeMetadata applies field-level updates onto existing metadata and
// returns the merged map. Each key in updates is handled independently:
//
//   - value non-empty after trimming: stored value replaced with the trimmed value
//   - value empty or whitespace-only: key removed (explicit clear)
//
// Keys absent from updates are preserved unchanged, including unrecognized
// extra keys. Neither input map is mutated.
func MergeMetadata(existing, updates map[string]string) map[string]string {
	merged := make(map[string]string, len(existing)+len(updates))
	for k, v := range existing {
		merged[k] = v
	}
	for k, v := range updates {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			delete(merged, k)
			continue
		}
		merged[k] = trimmed
	}
	if len(merged) == 0 {
		return nil
	}
	return merged
}
