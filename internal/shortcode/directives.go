package shortcode

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/heartmarshall/storyfeed/internal/domain"
	"github.com/heartmarshall/storyfeed/internal/render"
)

// Directive names.
const (
	TagPosts       = "cpht_posts"
	TagBreadcrumbs = "cpht_breadcrumbs"
)

type lister interface {
	Query(ctx context.Context, c domain.FilterCriteria) (domain.QueryResult, error)
	Categories(ctx context.Context) ([]domain.Category, error)
}

type renderer interface {
	Listing(p render.ListingParams) (string, error)
	Breadcrumbs(current string) (string, error)
}

type nonceIssuer interface {
	Issue(action string) (string, error)
}

// PostsCriteria converts directive attributes into listing criteria.
// Columns outside 1..4 fall back to the default, posts_per_page below 1
// falls back to the default, and a cpht_category query value overrides the
// category attribute.
func PostsCriteria(attrs map[string]string, req Request, d domain.ListingDefaults) domain.FilterCriteria {
	c := domain.FilterCriteria{
		Columns:       atoiOr(attrs["columns"], d.Columns),
		PageSize:      atoiOr(attrs["posts_per_page"], d.PageSize),
		SortField:     domain.SortField(attrs["orderby"]),
		SortDirection: domain.SortDirection(attrs["order"]),
		Category:      attrs["category"],
	}
	if c.Columns < domain.MinColumns || c.Columns > domain.MaxColumns {
		c.Columns = domain.DefaultColumns
	}
	if c.PageSize < 1 {
		c.PageSize = domain.DefaultPageSize
	}

	nav := domain.ParseNavigationState(req.Query)
	if nav.Category != "" {
		c.Category = nav.Category
	}
	c.Page = nav.Page

	c.Normalize(d)
	return c
}

func atoiOr(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// RegisterDefaults binds the listing and breadcrumb directives.
func RegisterDefaults(
	e *Expander,
	log *slog.Logger,
	list lister,
	r renderer,
	nonces nonceIssuer,
	defaults domain.ListingDefaults,
) error {
	log = log.With("component", "shortcode")

	posts := func(ctx context.Context, attrs map[string]string, req Request) (string, error) {
		c := PostsCriteria(attrs, req, defaults)

		cats, err := list.Categories(ctx)
		if err != nil {
			return "", fmt.Errorf("categories: %w", err)
		}
		res, err := list.Query(ctx, c)
		if err != nil {
			return "", fmt.Errorf("query: %w", err)
		}
		nonce, err := nonces.Issue(render.FilterAction)
		if err != nil {
			return "", fmt.Errorf("issue nonce: %w", err)
		}

		log.DebugContext(ctx, "posts directive rendered",
			slog.String("category", c.Category),
			slog.Int("page", c.Page),
			slog.Int("found", res.Total),
		)

		return r.Listing(render.ListingParams{
			ContentParams: render.ContentParams{
				Result:   res,
				Columns:  c.Columns,
				Category: c.Category,
				Path:     req.Path,
			},
			Categories: cats,
			Nonce:      nonce,
		})
	}

	breadcrumbs := func(ctx context.Context, attrs map[string]string, req Request) (string, error) {
		return r.Breadcrumbs(req.Title)
	}

	if err := e.Register(TagPosts, posts); err != nil {
		return err
	}
	return e.Register(TagBreadcrumbs, breadcrumbs)
}
