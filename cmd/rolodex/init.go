package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ersonp/rolodex-core/internal/infrastructure/config"
)

func newInitCmd() *cobra.Command {
	var backend string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new rolodex",
		Long:  "Creates a .rolodex directory with default configuration and bootstraps the storage backend.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, backend)
		},
	}

	cmd.Flags().StringVar(&backend, "backend", config.BackendSQLite,
		fmt.Sprintf("Storage backend (%s or %s)", config.BackendSQLite, config.BackendQdrant))

	return cmd
}

func runInit(cmd *cobra.Command, backend string) error {
	ctx := cmd.Context()

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	if config.Exists(cwd) {
		return fmt.Errorf("rolodex already initialized in %s", cwd)
	}

	if err := writeInitialConfig(cwd, backend); err != nil {
		return err
	}
	fmt.Printf("Created %s\n", config.ConfigFilePath(cwd))

	cfg, err := config.Load(cwd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	storage, err := newStorage(cfg)
	if err != nil {
		return err
	}
	defer storage.Close()

	if err := storage.EnsureReady(ctx); err != nil {
		return fmt.Errorf("bootstrapping %s storage: %w", cfg.Storage.Backend, err)
	}

	fmt.Printf("Storage backend ready: %s\n", cfg.Storage.Backend)
	fmt.Println("Rolodex initialized successfully!")

	return nil
}

// writeInitialConfig writes the annotated default config when the default
// backend is kept, and a config generated from the chosen backend otherwise.
func writeInitialConfig(cwd, backend string) error {
	switch backend {
	case config.BackendSQLite:
		if err := config.WriteDefault(cwd); err != nil {
			return fmt.Errorf("writing default config: %w", err)
		}
	case config.BackendQdrant:
		cfg := config.Default()
		cfg.Storage.Backend = backend
		if err := config.Write(cwd, cfg); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}
	default:
		return fmt.Errorf("unknown backend %q (expected %s or %s)",
			backend, config.BackendSQLite, config.BackendQdrant)
	}
	return nil
}
