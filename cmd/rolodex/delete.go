package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ersonp/rolodex-core/internal/application/handlers"
)

func newDeleteCmd() *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:   "delete [name]",
		Short: "Delete a person",
		Long:  "Deletes a person by name (case-insensitive) or by --id.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) > 0 {
				name = args[0]
			}
			return runDelete(cmd, id, name)
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Delete by record ID instead of name")

	return cmd
}

func runDelete(cmd *cobra.Command, id, name string) error {
	ctx := cmd.Context()

	if id == "" && name == "" {
		return errors.New("specify a name or --id")
	}

	return withDeps(ctx, func(d *Deps) error {
		res := d.PersonHandler.HandleDelete(ctx, handlers.DeleteParams{ID: id, Name: name})
		if !res.Success {
			return fmt.Errorf("%s", res.Error)
		}

		fmt.Printf("Deleted %s\n", res.Person.Name)
		return nil
	})
}
