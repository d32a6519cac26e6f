package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/rolodex-core/internal/domain/entities"
	"github.com/ersonp/rolodex-core/internal/domain/ports"
	"github.com/ersonp/rolodex-core/internal/infrastructure/config"
)

// setupTestRepo creates an in-memory SQLite repository for testing.
func setupTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(config.SQLiteConfig{Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	err = repo.EnsureReady(context.Background())
	require.NoError(t, err)

	return repo
}

func testPerson(id, name string) *entities.Person {
	now := time.Now().UTC().Truncate(time.Second)
	return &entities.Person{
		ID:             id,
		Name:           name,
		NormalizedName: entities.NormalizeName(name),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func TestNewRepository(t *testing.T) {
	t.Run("success with memory database", func(t *testing.T) {
		repo, err := NewRepository(config.SQLiteConfig{Path: ":memory:"})
		require.NoError(t, err)
		defer repo.Close()
		assert.NotNil(t, repo)
	})

	t.Run("error with empty path", func(t *testing.T) {
		_, err := NewRepository(config.SQLiteConfig{Path: ""})
		require.Error(t, err)
	})
}

func TestRepository_EnsureReady_Idempotent(t *testing.T) {
	repo := setupTestRepo(t)

	err := repo.EnsureReady(context.Background())
	require.NoError(t, err)
}

func TestRepository_PutGet(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	t.Run("round-trips all fields", func(t *testing.T) {
		person := testPerson("person-1", "Maria Silva")
		person.Description = "College friend"
		person.Metadata = map[string]string{
			entities.MetaEmail: "maria@example.com",
			"nickname":         "Mia",
		}

		require.NoError(t, repo.Put(ctx, person))

		found, err := repo.Get(ctx, "person-1")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, person.Name, found.Name)
		assert.Equal(t, person.NormalizedName, found.NormalizedName)
		assert.Equal(t, person.Description, found.Description)
		assert.Equal(t, person.Metadata, found.Metadata)
		assert.WithinDuration(t, person.CreatedAt, found.CreatedAt, time.Second)
		assert.WithinDuration(t, person.UpdatedAt, found.UpdatedAt, time.Second)
	})

	t.Run("put replaces the whole record", func(t *testing.T) {
		person := testPerson("person-2", "Mark")
		person.Metadata = map[string]string{entities.MetaPhone: "555-0100"}
		require.NoError(t, repo.Put(ctx, person))

		person.Name = "Marcus"
		person.NormalizedName = "marcus"
		person.Metadata = nil
		require.NoError(t, repo.Put(ctx, person))

		found, err := repo.Get(ctx, "person-2")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "Marcus", found.Name)
		assert.Nil(t, found.Metadata)
	})

	t.Run("absent id returns nil", func(t *testing.T) {
		found, err := repo.Get(ctx, "no-such-id")
		require.NoError(t, err)
		assert.Nil(t, found)
	})
}

func TestRepository_Delete(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, testPerson("person-1", "Maria")))

	existed, err := repo.Delete(ctx, "person-1")
	require.NoError(t, err)
	assert.True(t, existed)

	found, err := repo.Get(ctx, "person-1")
	require.NoError(t, err)
	assert.Nil(t, found)

	existed, err = repo.Delete(ctx, "person-1")
	require.NoError(t, err)
	assert.False(t, existed)
}

func TestRepository_Find(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	for i, name := range []string{"Zoe", "Mark", "Maria"} {
		require.NoError(t, repo.Put(ctx, testPerson(string(rune('a'+i)), name)))
	}

	t.Run("substring match ordered by display name", func(t *testing.T) {
		persons, err := repo.Find(ctx, ports.Query{NameContains: "mar"})
		require.NoError(t, err)
		require.Len(t, persons, 2)
		assert.Equal(t, "Maria", persons[0].Name)
		assert.Equal(t, "Mark", persons[1].Name)
	})

	t.Run("empty query matches all", func(t *testing.T) {
		persons, err := repo.Find(ctx, ports.Query{})
		require.NoError(t, err)
		assert.Len(t, persons, 3)
	})

	t.Run("limit and offset", func(t *testing.T) {
		persons, err := repo.Find(ctx, ports.Query{Limit: 1, Offset: 1})
		require.NoError(t, err)
		require.Len(t, persons, 1)
		assert.Equal(t, "Mark", persons[0].Name)
	})

	t.Run("offset beyond the result set", func(t *testing.T) {
		persons, err := repo.Find(ctx, ports.Query{Offset: 10})
		require.NoError(t, err)
		assert.Empty(t, persons)
	})

	t.Run("no match returns empty sequence", func(t *testing.T) {
		persons, err := repo.Find(ctx, ports.Query{NameContains: "xyz"})
		require.NoError(t, err)
		assert.Empty(t, persons)
	})
}

func TestRepository_Find_LiteralMatch(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, testPerson("person-1", "Ann")))
	require.NoError(t, repo.Put(ctx, testPerson("person-2", "A_na")))
	require.NoError(t, repo.Put(ctx, testPerson("person-3", "100% Cotton")))

	t.Run("underscore is not a wildcard", func(t *testing.T) {
		persons, err := repo.Find(ctx, ports.Query{NameContains: "_n"})
		require.NoError(t, err)
		require.Len(t, persons, 1)
		assert.Equal(t, "A_na", persons[0].Name)
	})

	t.Run("percent is not a wildcard", func(t *testing.T) {
		persons, err := repo.Find(ctx, ports.Query{NameContains: "%"})
		require.NoError(t, err)
		require.Len(t, persons, 1)
		assert.Equal(t, "100% Cotton", persons[0].Name)
	})

	t.Run("backslash matches itself", func(t *testing.T) {
		require.NoError(t, repo.Put(ctx, testPerson("person-4", `ops\oncall`)))

		persons, err := repo.Find(ctx, ports.Query{NameContains: `s\o`})
		require.NoError(t, err)
		require.Len(t, persons, 1)
		assert.Equal(t, `ops\oncall`, persons[0].Name)
	})
}

func TestRepository_FindOne(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, testPerson("person-1", "Maria")))

	t.Run("exact normalized match", func(t *testing.T) {
		found, err := repo.FindOne(ctx, "maria")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "person-1", found.ID)
	})

	t.Run("substring does not match", func(t *testing.T) {
		found, err := repo.FindOne(ctx, "mar")
		require.NoError(t, err)
		assert.Nil(t, found)
	})
}

func TestRepository_Count(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	require.NoError(t, repo.Put(ctx, testPerson("person-1", "Maria")))
	require.NoError(t, repo.Put(ctx, testPerson("person-2", "Mark")))

	count, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
