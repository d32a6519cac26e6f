package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/ersonp/rolodex-core/internal/application/handlers"
	"github.com/ersonp/rolodex-core/internal/domain/ports"
	"github.com/ersonp/rolodex-core/internal/domain/services"
	"github.com/ersonp/rolodex-core/internal/infrastructure/config"
	llm "github.com/ersonp/rolodex-core/internal/infrastructure/llm/openai"
	"github.com/ersonp/rolodex-core/internal/infrastructure/storage/qdrant"
	"github.com/ersonp/rolodex-core/internal/infrastructure/storage/sqlite"
)

// Deps holds high-level dependencies for commands. Only the handler is
// exposed - services and storage are internal.
type Deps struct {
	Config        *config.Config
	PersonHandler *handlers.PersonHandler
}

// withDeps loads config and builds dependencies, then calls the provided
// function. It handles cleanup automatically.
func withDeps(ctx context.Context, fn func(*Deps) error) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	cfg, err := config.Load(cwd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	storage, err := newStorage(cfg)
	if err != nil {
		return err
	}
	defer storage.Close()

	// The SQLite schema is cheap to verify on every run; the Qdrant
	// collection is created once by `rolodex init`.
	if cfg.Storage.Backend == config.BackendSQLite {
		if err := storage.EnsureReady(ctx); err != nil {
			return fmt.Errorf("ensuring sqlite schema: %w", err)
		}
	}

	people := services.NewPersonService(storage)

	// The summarizer is optional: without an API key the summary command
	// reports that no summarizer is configured.
	var summaries *services.SummaryService
	if cfg.LLM.APIKey != "" {
		summarizer, err := llm.NewClient(cfg.LLM)
		if err != nil {
			return fmt.Errorf("creating llm client: %w", err)
		}
		summaries = services.NewSummaryService(people, summarizer)
	}

	deps := &Deps{
		Config:        cfg,
		PersonHandler: handlers.NewPersonHandler(people, summaries),
	}

	return fn(deps)
}

// newStorage builds the configured storage backend. The rest of the program
// never depends on which one is active.
func newStorage(cfg *config.Config) (ports.Storage, error) {
	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		storage, err := sqlite.NewRepository(cfg.SQLite)
		if err != nil {
			return nil, fmt.Errorf("creating sqlite storage: %w", err)
		}
		return storage, nil
	case config.BackendQdrant:
		storage, err := qdrant.NewRepository(cfg.Qdrant)
		if err != nil {
			return nil, fmt.Errorf("creating qdrant storage: %w", err)
		}
		return storage, nil
	default:
		return nil, errors.New("no storage backend configured")
	}
}
