// Package story implements read access to published stories using PostgreSQL.
// Listing SQL is assembled with squirrel because category filter, ordering and
// paging vary per request.
package story

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/storyfeed/internal/adapter/postgres"
	"github.com/heartmarshall/storyfeed/internal/domain"
)

const statusPublished = "publish"

const storyColumns = "s.id, s.slug, s.title, s.published_at, s.display_date, s.menu_order, s.image_url, s.image_alt, s.excerpt"

// Repo provides story persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new story repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// Listing
// ---------------------------------------------------------------------------

// published restricts to published stories of the fixed type, optionally
// filtered by category slug.
func published(category string) sq.SelectBuilder {
	b := postgres.Builder.Select().
		From("stories s").
		Where(sq.Eq{"s.post_type": domain.PostType, "s.status": statusPublished})

	if category != "" {
		b = b.Where(sq.Expr(
			`EXISTS (SELECT 1 FROM story_categories sc JOIN categories c ON c.id = sc.category_id
			 WHERE sc.story_id = s.id AND c.slug = ?)`, category))
	}
	return b
}

// orderBy returns the ORDER BY terms for the criteria. Ties are broken by id
// in the same direction, except for random ordering.
func orderBy(field domain.SortField, dir domain.SortDirection) []string {
	d := "DESC"
	if dir == domain.SortAsc {
		d = "ASC"
	}

	switch field {
	case domain.SortByRandom:
		return []string{"random()"}
	case domain.SortByTitle:
		return []string{"s.title " + d, "s.id " + d}
	case domain.SortByMenuOrder:
		return []string{"s.menu_order " + d, "s.id " + d}
	default:
		return []string{"s.published_at " + d, "s.id " + d}
	}
}

// List returns one page of stories matching the criteria. The criteria must
// already be normalized. A page beyond the last yields an empty slice.
func (r *Repo) List(ctx context.Context, c domain.FilterCriteria) ([]domain.Story, error) {
	b := published(c.Category).
		Columns(storyColumns).
		OrderBy(orderBy(c.SortField, c.SortDirection)...)

	if !c.Unbounded() {
		b = b.Limit(uint64(c.PageSize)).Offset(uint64(c.Offset()))
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list stories: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stories: %w", err)
	}
	defer rows.Close()

	stories, err := scanStories(rows)
	if err != nil {
		return nil, fmt.Errorf("list stories: %w", err)
	}
	return stories, nil
}

// Count returns the number of published stories matching the category filter.
func (r *Repo) Count(ctx context.Context, category string) (int, error) {
	query, args, err := published(category).Columns("count(*)").ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count stories: %w", err)
	}

	var n int
	if err := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count stories: %w", err)
	}
	return n, nil
}

// ---------------------------------------------------------------------------
// Single story
// ---------------------------------------------------------------------------

// GetBySlug returns a published story. Returns domain.ErrNotFound when absent.
func (r *Repo) GetBySlug(ctx context.Context, slug string) (*domain.Story, error) {
	query, args, err := published("").
		Columns(storyColumns).
		Where(sq.Eq{"s.slug": slug}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get story: %w", err)
	}

	row := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, query, args...)
	s, err := scanStory(row)
	if err != nil {
		return nil, postgres.MapError(err, "story", slug)
	}
	return &s, nil
}

// Adjacent returns the stories published immediately before and after s by
// publication date (ties by id). Either may be nil.
func (r *Repo) Adjacent(ctx context.Context, s domain.Story) (prev, next *domain.Story, err error) {
	prev, err = r.neighbour(ctx, s, "<", "DESC")
	if err != nil {
		return nil, nil, err
	}
	next, err = r.neighbour(ctx, s, ">", "ASC")
	if err != nil {
		return nil, nil, err
	}
	return prev, next, nil
}

func (r *Repo) neighbour(ctx context.Context, s domain.Story, op, dir string) (*domain.Story, error) {
	query, args, err := published("").
		Columns(storyColumns).
		Where(sq.Expr("(s.published_at, s.id) "+op+" (?, ?)", s.PublishedAt, s.ID)).
		OrderBy("s.published_at "+dir, "s.id "+dir).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build adjacent story: %w", err)
	}

	row := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, query, args...)
	n, err := scanStory(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, postgres.MapError(err, "story", s.Slug)
	}
	return &n, nil
}

// ---------------------------------------------------------------------------
// Blocks
// ---------------------------------------------------------------------------

// BlocksByStoryIDs returns content blocks for multiple stories (batch for
// DataLoader), ordered by story and position.
func (r *Repo) BlocksByStoryIDs(ctx context.Context, storyIDs []uuid.UUID) ([]domain.ContentBlock, error) {
	if len(storyIDs) == 0 {
		return []domain.ContentBlock{}, nil
	}

	query, args, err := postgres.Builder.
		Select("story_id", "position", "format", "body").
		From("story_blocks").
		Where("story_id = ANY(?::uuid[])", storyIDs).
		OrderBy("story_id", "position").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build blocks by story_ids: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("blocks by story_ids: %w", err)
	}
	defer rows.Close()

	blocks := make([]domain.ContentBlock, 0)
	for rows.Next() {
		var (
			b      domain.ContentBlock
			format string
		)
		if err := rows.Scan(&b.StoryID, &b.Position, &format, &b.Body); err != nil {
			return nil, fmt.Errorf("scan block: %w", err)
		}
		b.Format = domain.BlockFormat(format)
		blocks = append(blocks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("blocks by story_ids: %w", err)
	}
	return blocks, nil
}

// ---------------------------------------------------------------------------
// Scanning
// ---------------------------------------------------------------------------

func scanStory(row pgx.Row) (domain.Story, error) {
	var (
		s        domain.Story
		date     *time.Time
		imageURL *string
		imageAlt string
	)
	if err := row.Scan(&s.ID, &s.Slug, &s.Title, &s.PublishedAt, &date, &s.MenuOrder, &imageURL, &imageAlt, &s.Excerpt); err != nil {
		return domain.Story{}, err
	}
	s.Date = date
	if imageURL != nil && *imageURL != "" {
		s.Image = &domain.Image{URL: *imageURL, Alt: imageAlt}
	}
	return s, nil
}

func scanStories(rows pgx.Rows) ([]domain.Story, error) {
	stories := make([]domain.Story, 0)
	for rows.Next() {
		s, err := scanStory(rows)
		if err != nil {
			return nil, err
		}
		stories = append(stories, s)
	}
	return stories, rows.Err()
}
