// Package definition implements the live definition registry using PostgreSQL.
// Keys are not unique in storage; callers deduplicate through reconciliation.
package definition

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/storyfeed/internal/adapter/postgres"
	"github.com/heartmarshall/storyfeed/internal/domain"
)

const table = "definitions"

var columns = []string{"id", "kind", "key", "title", "modified", "document", "import_source", "imported_at", "created_at"}

// Repo provides definition registry persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new definition repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Ready returns domain.ErrRegistryNotReady while the registry table does not exist.
func (r *Repo) Ready(ctx context.Context) error {
	var exists bool
	err := postgres.QuerierFromCtx(ctx, r.pool).
		QueryRow(ctx, `SELECT to_regclass($1) IS NOT NULL`, table).
		Scan(&exists)
	if err != nil {
		return fmt.Errorf("check registry: %w", err)
	}
	if !exists {
		return domain.ErrRegistryNotReady
	}
	return nil
}

// ListByKey returns every registry entry with the key, earliest-created first.
// Returns an empty slice (not nil) when there are none.
func (r *Repo) ListByKey(ctx context.Context, key string) ([]domain.Definition, error) {
	query, args, err := postgres.Builder.
		Select(columns...).
		From(table).
		Where(sq.Eq{"key": key}).
		OrderBy("created_at", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list definitions: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, "definition", key)
	}
	defer rows.Close()

	defs := make([]domain.Definition, 0)
	for rows.Next() {
		d, err := scanDefinition(rows)
		if err != nil {
			return nil, fmt.Errorf("scan definition: %w", err)
		}
		defs = append(defs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "definition", key)
	}
	return defs, nil
}

// Create inserts a new registry entry and returns it with ID and CreatedAt set.
func (r *Repo) Create(ctx context.Context, d domain.Definition) (domain.Definition, error) {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}

	query, args, err := postgres.Builder.
		Insert(table).
		Columns("id", "kind", "key", "title", "modified", "document", "import_source", "imported_at").
		Values(d.ID, string(d.Kind), d.Key, d.Title, d.Modified, []byte(d.Raw), d.ImportSource, d.ImportedAt).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return domain.Definition{}, fmt.Errorf("build create definition: %w", err)
	}

	if err := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&d.CreatedAt); err != nil {
		return domain.Definition{}, postgres.MapError(err, "definition", d.Key)
	}
	return d, nil
}

// Update overwrites the document of an existing entry in place. The ID and
// CreatedAt are preserved.
func (r *Repo) Update(ctx context.Context, d domain.Definition) error {
	query, args, err := postgres.Builder.
		Update(table).
		Set("title", d.Title).
		Set("modified", d.Modified).
		Set("document", []byte(d.Raw)).
		Set("import_source", d.ImportSource).
		Set("imported_at", d.ImportedAt).
		Where(sq.Eq{"id": d.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update definition: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return postgres.MapError(err, "definition", d.Key)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("definition %s: %w", d.ID, domain.ErrNotFound)
	}
	return nil
}

// Delete removes an entry by ID.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	query, args, err := postgres.Builder.Delete(table).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete definition: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return postgres.MapError(err, "definition", id.String())
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("definition %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func scanDefinition(row pgx.Row) (domain.Definition, error) {
	var (
		d          domain.Definition
		kind       string
		doc        []byte
		importedAt *time.Time
	)
	if err := row.Scan(&d.ID, &kind, &d.Key, &d.Title, &d.Modified, &doc, &d.ImportSource, &importedAt, &d.CreatedAt); err != nil {
		return domain.Definition{}, err
	}
	d.Kind = domain.DefinitionKind(kind)
	d.Raw = doc
	d.ImportedAt = importedAt
	return d, nil
}
