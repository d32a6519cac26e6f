package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ersonp/rolodex-core/internal/application/handlers"
)

// upsertFlags mirror the tool boundary's flat parameter set. Presence is
// read from cobra's Changed tracking so an empty flag value is an explicit
// clear, not an omission.
type upsertFlags struct {
	id           string
	name         string
	description  string
	relationship string
	email        string
	phone        string
	birthday     string
	workplace    string
}

func newUpsertCmd() *cobra.Command {
	var flags upsertFlags

	cmd := &cobra.Command{
		Use:   "upsert [name]",
		Short: "Create or update a person",
		Long: `Creates a person, or merges the given fields into the existing record with
the same name (case-insensitive). Passing an empty value for a field clears
it; omitted fields are left unchanged. With --id the record is updated in
place and the name argument renames it.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				flags.name = args[0]
			}
			return runUpsert(cmd, args, flags)
		},
	}

	cmd.Flags().StringVar(&flags.id, "id", "", "Update an existing record by ID")
	cmd.Flags().StringVarP(&flags.description, "description", "d", "", "Free-form description")
	cmd.Flags().StringVar(&flags.relationship, "relationship", "", "Relationship to you")
	cmd.Flags().StringVar(&flags.email, "email", "", "Email address")
	cmd.Flags().StringVar(&flags.phone, "phone", "", "Phone number")
	cmd.Flags().StringVar(&flags.birthday, "birthday", "", "Birthday")
	cmd.Flags().StringVar(&flags.workplace, "workplace", "", "Workplace")

	return cmd
}

func runUpsert(cmd *cobra.Command, args []string, flags upsertFlags) error {
	ctx := cmd.Context()

	if flags.id == "" && flags.name == "" {
		return errors.New("specify a name or --id")
	}

	params := handlers.UpsertParams{
		ID:           flags.id,
		Description:  changedString(cmd, "description", flags.description),
		Relationship: changedString(cmd, "relationship", flags.relationship),
		Email:        changedString(cmd, "email", flags.email),
		Phone:        changedString(cmd, "phone", flags.phone),
		Birthday:     changedString(cmd, "birthday", flags.birthday),
		Workplace:    changedString(cmd, "workplace", flags.workplace),
	}
	if len(args) > 0 {
		params.Name = &flags.name
	}

	return withDeps(ctx, func(d *Deps) error {
		res := d.PersonHandler.HandleUpsert(ctx, params)
		if !res.Success {
			return fmt.Errorf("%s", res.Error)
		}

		if res.Created {
			fmt.Printf("Created %s\n\n", res.Person.Name)
		} else {
			fmt.Printf("Updated %s\n\n", res.Person.Name)
		}
		displayPerson(res.Person)
		return nil
	})
}

// changedString returns a pointer to value when the flag was set on the
// command line, nil otherwise.
func changedString(cmd *cobra.Command, flag, value string) *string {
	if cmd.Flags().Changed(flag) {
		return &value
	}
	return nil
}
