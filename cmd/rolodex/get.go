package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ersonp/rolodex-core/internal/application/handlers"
)

func newGetCmd() *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:   "get [name]",
		Short: "Show a person",
		Long:  "Looks up a single person by name (case-insensitive) or by --id.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) > 0 {
				name = args[0]
			}
			return runGet(cmd, id, name)
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Look up by record ID instead of name")

	return cmd
}

func runGet(cmd *cobra.Command, id, name string) error {
	ctx := cmd.Context()

	if id == "" && name == "" {
		return errors.New("specify a name or --id")
	}

	return withDeps(ctx, func(d *Deps) error {
		res := d.PersonHandler.HandleGet(ctx, handlers.GetParams{ID: id, Name: name})
		if !res.Success {
			return fmt.Errorf("%s", res.Error)
		}

		displayPerson(res.Person)
		return nil
	})
}
