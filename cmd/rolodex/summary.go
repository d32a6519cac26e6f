package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ersonp/rolodex-core/internal/application/handlers"
)

func newSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary <name>",
		Short: "Draft a short bio of a person",
		Long:  "Uses the configured LLM to draft a short summary of a stored person's record.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSummary(cmd, args[0])
		},
	}
}

func runSummary(cmd *cobra.Command, name string) error {
	ctx := cmd.Context()

	return withDeps(ctx, func(d *Deps) error {
		res := d.PersonHandler.HandleSummary(ctx, handlers.SummaryParams{Name: name})
		if !res.Success {
			return fmt.Errorf("%s", res.Error)
		}

		fmt.Printf("%s\n\n%s\n", res.Person.Name, res.Summary)
		return nil
	})
}
