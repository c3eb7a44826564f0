package listing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/storyfeed/internal/dataloader"
	"github.com/heartmarshall/storyfeed/internal/domain"
)

// Query returns one page of published stories. The criteria is normalized
// first; a page beyond the last returns no items and no error.
func (s *Service) Query(ctx context.Context, c domain.FilterCriteria) (domain.QueryResult, error) {
	c.Normalize(s.defaults)

	total, err := s.stories.Count(ctx, c.Category)
	if err != nil {
		return domain.QueryResult{}, fmt.Errorf("count stories: %w", err)
	}

	result := domain.QueryResult{
		Items:    []domain.Story{},
		Total:    total,
		Pages:    domain.PageCount(total, c.PageSize),
		Page:     c.Page,
		PageSize: c.PageSize,
	}

	if total == 0 || c.Page > result.Pages {
		return result, nil
	}

	items, err := s.stories.List(ctx, c)
	if err != nil {
		return domain.QueryResult{}, fmt.Errorf("list stories: %w", err)
	}

	if err := s.attachCategories(ctx, items); err != nil {
		return domain.QueryResult{}, err
	}
	result.Items = items

	s.log.DebugContext(ctx, "stories queried",
		slog.String("category", c.Category),
		slog.Int("page", c.Page),
		slog.Int("items", len(items)),
		slog.Int("total", total),
	)

	return result, nil
}

// Categories returns the categories used by at least one published story.
func (s *Service) Categories(ctx context.Context) ([]domain.Category, error) {
	cats, err := s.categories.ListUsed(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}

func (s *Service) attachCategories(ctx context.Context, items []domain.Story) error {
	if len(items) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}

	l := dataloader.ForContext(ctx, s.loaders)
	cats, errs := l.CategoriesByStoryID.LoadMany(ctx, ids)()
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("load categories: %w", err)
	}
	for i := range items {
		items[i].Categories = cats[i]
	}
	return nil
}
