package services

import (
	"context"
	"fmt"

	"github.com/ersonp/rolodex-core/internal/domain/entities"
	"github.com/ersonp/rolodex-core/internal/domain/ports"
)

// SummaryService drafts short bios of stored persons.
type SummaryService struct {
	people     *PersonService
	summarizer ports.Summarizer
}

// NewSummaryService creates a new SummaryService.
func NewSummaryService(people *PersonService, summarizer ports.Summarizer) *SummaryService {
	return &SummaryService{
		people:     people,
		summarizer: summarizer,
	}
}

// ForName resolves a person by name and returns a drafted summary. Returns
// (nil record, empty summary) without error when no person matches.
func (s *SummaryService) ForName(ctx context.Context, name string) (*entities.Person, string, error) {
	person, err := s.people.GetByName(ctx, name)
	if err != nil {
		return nil, "", err
	}
	if person == nil {
		return nil, "", nil
	}

	summary, err := s.summarizer.Summarize(ctx, person)
	if err != nil {
		return nil, "", fmt.Errorf("summarizing person: %w", err)
	}
	return person, summary, nil
}
