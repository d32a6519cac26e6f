package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ersonp/rolodex-core/internal/application/handlers"
)

func newListCmd() *cobra.Command {
	var (
		limit  int
		offset int
	)

	cmd := &cobra.Command{
		Use:   "list [query]",
		Short: "List people",
		Long:  "Lists stored people, optionally filtered by a case-insensitive name substring.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) > 0 {
				query = args[0]
			}
			return runList(cmd, query, limit, offset)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "Maximum number of people to display (capped at 100)")
	cmd.Flags().IntVarP(&offset, "offset", "o", 0, "Number of people to skip")

	return cmd
}

func runList(cmd *cobra.Command, query string, limit, offset int) error {
	ctx := cmd.Context()

	return withDeps(ctx, func(d *Deps) error {
		res := d.PersonHandler.HandleList(ctx, handlers.ListParams{
			Query:  query,
			Limit:  limit,
			Offset: offset,
		})
		if !res.Success {
			return fmt.Errorf("listing people: %s", res.Error)
		}

		if len(res.Persons) == 0 {
			fmt.Println("No people found.")
			return nil
		}

		fmt.Printf("Showing %d of %d people:\n\n", len(res.Persons), res.Total)
		for _, person := range res.Persons {
			displayPersonLine(person)
		}
		return nil
	})
}
