package mocks

import (
	"context"

	"github.com/ersonp/rolodex-core/internal/domain/entities"
)

// Summarizer is a mock implementation of ports.Summarizer.
type Summarizer struct {
	Summary string
	Err     error
}

// Summarize returns the configured summary or error.
func (m *Summarizer) Summarize(_ context.Context, _ *entities.Person) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	return m.Summary, nil
}
