package testhelper

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/storyfeed/internal/domain"
)

func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// UniqueSlug returns prefix with a random suffix so parallel tests do not collide.
func UniqueSlug(prefix string) string {
	return prefix + "-" + uniqueSuffix()
}

// SeedCategory inserts a category with a unique slug derived from name.
func SeedCategory(t *testing.T, pool *pgxpool.Pool, name string) domain.Category {
	t.Helper()

	c := domain.Category{
		ID:   uuid.New(),
		Slug: UniqueSlug(domain.NormalizeSlug(name)),
		Name: name,
	}
	_, err := pool.Exec(context.Background(),
		`INSERT INTO categories (id, slug, name) VALUES ($1, $2, $3)`,
		c.ID, c.Slug, c.Name,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedCategory: %v", err)
	}
	return c
}

// StoryOpts customizes SeedStory. Zero values get defaults.
type StoryOpts struct {
	Title       string
	PublishedAt time.Time
	Date        *time.Time
	MenuOrder   int
	Image       *domain.Image
	Excerpt     string
	Status      string
	PostType    string
	Categories  []domain.Category
	Blocks      []domain.ContentBlock
}

// SeedStory inserts a story with its category links and blocks.
func SeedStory(t *testing.T, pool *pgxpool.Pool, opts StoryOpts) domain.Story {
	t.Helper()
	ctx := context.Background()

	if opts.Title == "" {
		opts.Title = "Story " + uniqueSuffix()
	}
	if opts.PublishedAt.IsZero() {
		opts.PublishedAt = time.Now().UTC().Truncate(time.Microsecond)
	}
	if opts.Status == "" {
		opts.Status = "publish"
	}
	if opts.PostType == "" {
		opts.PostType = domain.PostType
	}

	s := domain.Story{
		ID:          uuid.New(),
		Slug:        UniqueSlug(domain.NormalizeSlug(opts.Title)),
		Title:       opts.Title,
		PublishedAt: opts.PublishedAt,
		Date:        opts.Date,
		MenuOrder:   opts.MenuOrder,
		Image:       opts.Image,
		Excerpt:     opts.Excerpt,
		Categories:  opts.Categories,
	}

	var imageURL *string
	imageAlt := ""
	if s.Image != nil {
		imageURL = &s.Image.URL
		imageAlt = s.Image.Alt
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO stories (id, post_type, status, slug, title, published_at, display_date, menu_order, image_url, image_alt, excerpt)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		s.ID, opts.PostType, opts.Status, s.Slug, s.Title, s.PublishedAt, s.Date, s.MenuOrder, imageURL, imageAlt, s.Excerpt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedStory insert story: %v", err)
	}

	for _, c := range opts.Categories {
		_, err := pool.Exec(ctx,
			`INSERT INTO story_categories (story_id, category_id) VALUES ($1, $2)`, s.ID, c.ID)
		if err != nil {
			t.Fatalf("testhelper: SeedStory link category: %v", err)
		}
	}

	for i, b := range opts.Blocks {
		if b.Format == "" {
			b.Format = domain.BlockFormatHTML
		}
		b.StoryID = s.ID
		b.Position = i
		_, err := pool.Exec(ctx,
			`INSERT INTO story_blocks (story_id, position, format, body) VALUES ($1, $2, $3, $4)`,
			b.StoryID, b.Position, string(b.Format), b.Body)
		if err != nil {
			t.Fatalf("testhelper: SeedStory insert block[%d]: %v", i, err)
		}
		s.Blocks = append(s.Blocks, b)
	}

	return s
}

// SeedDefinition inserts a registry row directly, bypassing reconciliation.
func SeedDefinition(t *testing.T, pool *pgxpool.Pool, kind domain.DefinitionKind, key string, modified int64) domain.Definition {
	t.Helper()

	doc, _ := json.Marshal(map[string]any{"key": key, "title": key, "modified": modified})
	d := domain.Definition{
		ID:       uuid.New(),
		Kind:     kind,
		Key:      key,
		Title:    key,
		Modified: modified,
		Raw:      doc,
	}

	err := pool.QueryRow(context.Background(),
		`INSERT INTO definitions (id, kind, key, title, modified, document)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING created_at`,
		d.ID, string(d.Kind), d.Key, d.Title, d.Modified, d.Raw,
	).Scan(&d.CreatedAt)
	if err != nil {
		t.Fatalf("testhelper: SeedDefinition: %v", err)
	}
	return d
}
