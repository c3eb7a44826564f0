// Package category implements read access to story categories using PostgreSQL.
package category

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/storyfeed/internal/adapter/postgres"
	"github.com/heartmarshall/storyfeed/internal/domain"
)

// Repo provides category persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new category repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// publishedStories joins categories to published stories of the fixed type.
func publishedStories() sq.SelectBuilder {
	return postgres.Builder.Select().
		From("categories c").
		Join("story_categories sc ON sc.category_id = c.id").
		Join("stories s ON s.id = sc.story_id").
		Where(sq.Eq{"s.post_type": domain.PostType, "s.status": "publish"})
}

// ListUsed returns categories assigned to at least one published story,
// ordered by name, with StoryCount filled.
func (r *Repo) ListUsed(ctx context.Context) ([]domain.Category, error) {
	query, args, err := publishedStories().
		Columns("c.id", "c.slug", "c.name", "count(DISTINCT s.id)").
		GroupBy("c.id", "c.slug", "c.name").
		OrderBy("c.name", "c.slug").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list categories: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	cats := make([]domain.Category, 0)
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Slug, &c.Name, &c.StoryCount); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		cats = append(cats, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}

// GetBySlug returns a category by slug. Returns domain.ErrNotFound when absent.
func (r *Repo) GetBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	query, args, err := postgres.Builder.
		Select("id", "slug", "name").
		From("categories").
		Where(sq.Eq{"slug": slug}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get category: %w", err)
	}

	var c domain.Category
	err = postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&c.ID, &c.Slug, &c.Name)
	if err != nil {
		return nil, postgres.MapError(err, "category", slug)
	}
	return &c, nil
}

// GetByStoryIDs returns categories for multiple stories (batch for DataLoader).
// Results include StoryID for grouping by the caller.
func (r *Repo) GetByStoryIDs(ctx context.Context, storyIDs []uuid.UUID) ([]domain.StoryCategory, error) {
	if len(storyIDs) == 0 {
		return []domain.StoryCategory{}, nil
	}

	query, args, err := postgres.Builder.
		Select("sc.story_id", "c.id", "c.slug", "c.name").
		From("story_categories sc").
		Join("categories c ON c.id = sc.category_id").
		Where("sc.story_id = ANY(?::uuid[])", storyIDs).
		OrderBy("sc.story_id", "c.name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build categories by story_ids: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("categories by story_ids: %w", err)
	}
	defer rows.Close()

	result := make([]domain.StoryCategory, 0)
	for rows.Next() {
		var sc domain.StoryCategory
		if err := rows.Scan(&sc.StoryID, &sc.ID, &sc.Slug, &sc.Name); err != nil {
			return nil, fmt.Errorf("scan story category: %w", err)
		}
		result = append(result, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("categories by story_ids: %w", err)
	}
	return result, nil
}
