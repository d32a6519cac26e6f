package ports

import (
	"context"

	"github.com/ersonp/rolodex-core/internal/domain/entities"
)

// Summarizer drafts a short human-readable summary of a stored person from
// the record's name, description and metadata.
type Summarizer interface {
	Summarize(ctx context.Context, person *entities.Person) (string, error)
}
