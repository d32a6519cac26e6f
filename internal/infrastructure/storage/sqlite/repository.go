// Package sqlite provides a SQLite implementation of the Storage interface.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/ersonp/rolodex-core/internal/domain/entities"
	"github.com/ersonp/rolodex-core/internal/domain/ports"
	"github.com/ersonp/rolodex-core/internal/infrastructure/config"
)

// Repository implements ports.Storage using SQLite.
type Repository struct {
	db   *sql.DB
	path string
}

// NewRepository creates a new SQLite repository.
func NewRepository(cfg config.SQLiteConfig) (*Repository, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlite path is required")
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	// Enable WAL mode for better concurrent read/write performance
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Set busy timeout to avoid "database is locked" errors
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	return &Repository{
		db:   db,
		path: cfg.Path,
	}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Path returns the database file path.
func (r *Repository) Path() string {
	return r.path
}

// EnsureReady creates the database schema if it doesn't exist.
//
// The normalized_name index is deliberately not UNIQUE: one-record-per-name
// is enforced by the domain layer, and its upsert race stays observable
// rather than being masked by a constraint violation here.
func (r *Repository) EnsureReady(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS persons (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		normalized_name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		metadata TEXT,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_persons_normalized ON persons(normalized_name);
	CREATE INDEX IF NOT EXISTS idx_persons_name ON persons(name);
	`

	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// Get returns the record stored under id, or nil if absent.
func (r *Repository) Get(ctx context.Context, id string) (*entities.Person, error) {
	query := selectColumns + ` WHERE id = ?`
	return scanPerson(r.db.QueryRowContext(ctx, query, id))
}

// Put writes the record under its ID, replacing any existing value.
func (r *Repository) Put(ctx context.Context, person *entities.Person) error {
	metadata, err := marshalMetadata(person.Metadata)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO persons (id, name, normalized_name, description, metadata, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			normalized_name = excluded.normalized_name,
			description = excluded.description,
			metadata = excluded.metadata,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at
	`
	_, err = r.db.ExecContext(ctx, query,
		person.ID,
		person.Name,
		person.NormalizedName,
		person.Description,
		metadata,
		person.CreatedAt,
		person.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("saving person: %w", err)
	}
	return nil
}

// Delete removes the record stored under id.
func (r *Repository) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM persons WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("deleting person: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("reading rows affected: %w", err)
	}
	return affected > 0, nil
}

// Find returns records matching the query, ordered ascending by display
// name, then sliced by offset/limit.
func (r *Repository) Find(ctx context.Context, q ports.Query) ([]*entities.Person, error) {
	query := selectColumns
	args := []any{}

	if q.NameContains != "" {
		query += ` WHERE normalized_name LIKE ? ESCAPE '\'`
		args = append(args, "%"+escapeLike(q.NameContains)+"%")
	}

	// SQLite treats a negative LIMIT as unbounded.
	limit := q.Limit
	if limit <= 0 {
		limit = -1
	}
	query += ` ORDER BY name ASC LIMIT ? OFFSET ?`
	args = append(args, limit, q.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying persons: %w", err)
	}
	defer rows.Close()

	result := []*entities.Person{}
	for rows.Next() {
		person, err := scanPerson(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, person)
	}
	return result, rows.Err()
}

// FindOne returns the record whose normalized name equals normalizedName
// exactly, or nil if absent. First match wins if duplicates exist.
func (r *Repository) FindOne(ctx context.Context, normalizedName string) (*entities.Person, error) {
	query := selectColumns + ` WHERE normalized_name = ? ORDER BY name ASC LIMIT 1`
	return scanPerson(r.db.QueryRowContext(ctx, query, normalizedName))
}

// Count returns the total number of stored records.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM persons`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting persons: %w", err)
	}
	return count, nil
}

const selectColumns = `SELECT id, name, normalized_name, description, metadata, created_at, updated_at FROM persons`

// likeEscaper escapes the LIKE metacharacters so a query value always
// matches literally, the same contract the other backends honor.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanPerson(row scanner) (*entities.Person, error) {
	var person entities.Person
	var metadata sql.NullString

	err := row.Scan(
		&person.ID,
		&person.Name,
		&person.NormalizedName,
		&person.Description,
		&metadata,
		&person.CreatedAt,
		&person.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning person: %w", err)
	}

	if metadata.Valid && metadata.String != "" {
		if err := json.Unmarshal([]byte(metadata.String), &person.Metadata); err != nil {
			return nil, fmt.Errorf("decoding metadata: %w", err)
		}
	}
	return &person, nil
}

func marshalMetadata(metadata map[string]string) (any, error) {
	if len(metadata) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(metadata)
	if err != nil {
		return nil, fmt.Errorf("encoding metadata: %w", err)
	}
	return string(data), nil
}
