package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "already normalized",
			input:    "maria",
			expected: "maria",
		},
		{
			name:     "uppercase lowered",
			input:    "MARIA",
			expected: "maria",
		},
		{
			name:     "surrounding whitespace trimmed",
			input:    "  Maria Silva  ",
			expected: "maria silva",
		},
		{
			name:     "inner whitespace preserved",
			input:    "Maria  Silva",
			expected: "maria  silva",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "whitespace only",
			input:    "   ",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeName(tt.input))
		})
	}
}

func TestPerson_Rename(t *testing.T) {
	t.Run("recomputes normalized name", func(t *testing.T) {
		p := &Person{Name: "Maria", NormalizedName: "maria"}

		err := p.Rename("  Mark  ")
		require.NoError(t, err)
		assert.Equal(t, "  Mark  ", p.Name)
		assert.Equal(t, "mark", p.NormalizedName)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		p := &Person{Name: "Maria", NormalizedName: "maria"}

		err := p.Rename("   ")
		require.ErrorIs(t, err, ErrNameRequired)
		assert.Equal(t, "Maria", p.Name, "failed rename should not touch the record")
		assert.Equal(t, "maria", p.NormalizedName)
	})
}

func TestMergeMetadata(t *testing.T) {
	t.Run("untouched fields preserved", func(t *testing.T) {
		existing := map[string]string{
			MetaRelationship: "friend",
			MetaEmail:        "maria@example.com",
		}

		merged := MergeMetadata(existing, map[string]string{MetaWorkplace: "Acme"})

		assert.Equal(t, "friend", merged[MetaRelationship])
		assert.Equal(t, "maria@example.com", merged[MetaEmail])
		assert.Equal(t, "Acme", merged[MetaWorkplace])
	})

	t.Run("empty value clears the field", func(t *testing.T) {
		existing := map[string]string{
			MetaEmail: "maria@example.com",
			MetaPhone: "555-0100",
		}

		merged := MergeMetadata(existing, map[string]string{MetaEmail: "   "})

		_, ok := merged[MetaEmail]
		assert.False(t, ok, "email should be cleared")
		assert.Equal(t, "555-0100", merged[MetaPhone])
	})

	t.Run("values trimmed on write", func(t *testing.T) {
		merged := MergeMetadata(nil, map[string]string{MetaWorkplace: "  Acme  "})
		assert.Equal(t, "Acme", merged[MetaWorkplace])
	})

	t.Run("unrecognized keys survive merges", func(t *testing.T) {
		existing := map[string]string{"nickname": "Mia"}

		merged := MergeMetadata(existing, map[string]string{MetaEmail: "maria@example.com"})

		assert.Equal(t, "Mia", merged["nickname"])
	})

	t.Run("inputs not mutated", func(t *testing.T) {
		existing := map[string]string{MetaEmail: "maria@example.com"}

		MergeMetadata(existing, map[string]string{MetaEmail: ""})

		assert.Equal(t, "maria@example.com", existing[MetaEmail])
	})

	t.Run("clearing the last key yields nil", func(t *testing.T) {
		existing := map[string]string{MetaEmail: "maria@example.com"}

		merged := MergeMetadata(existing, map[string]string{MetaEmail: ""})

		assert.Nil(t, merged)
	})
}
