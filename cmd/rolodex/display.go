package main

import (
	"fmt"

	"github.com/ersonp/rolodex-core/internal/domain/entities"
)

// displayPerson prints a person record in the long form used by get and
// upsert output.
func displayPerson(person *entities.Person) {
	fmt.Printf("ID:          %s\n", person.ID)
	fmt.Printf("Name:        %s\n", person.Name)
	if person.Description != "" {
		fmt.Printf("Description: %s\n", person.Description)
	}
	for _, key := range entities.MetadataKeys {
		if value, ok := person.Metadata[key]; ok {
			fmt.Printf("%-12s %s\n", key+":", value)
		}
	}
	for key, value := range person.Metadata {
		if !isRecognizedKey(key) {
			fmt.Printf("%-12s %s\n", key+":", value)
		}
	}
	fmt.Printf("Updated:     %s\n", person.UpdatedAt.Format("2006-01-02 15:04:05"))
}

// displayPersonLine prints a person as a single list row.
func displayPersonLine(person *entities.Person) {
	line := person.Name
	if rel, ok := person.Metadata[entities.MetaRelationship]; ok {
		line += fmt.Sprintf(" (%s)", rel)
	}
	if person.Description != "" {
		line += " - " + truncate(person.Description, 60)
	}
	fmt.Printf("  %s\n", line)
}

func isRecognizedKey(key string) bool {
	for _, k := range entities.MetadataKeys {
		if k == key {
			return true
		}
	}
	return false
}

// truncate shortens a string to max length with ellipsis.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
