package listing

import (
	"context"
	"fmt"
	"strings"

	"github.com/heartmarshall/storyfeed/internal/dataloader"
	"github.com/heartmarshall/storyfeed/internal/domain"
)

// Story returns a single published story with its categories and content blocks.
func (s *Service) Story(ctx context.Context, slug string) (*domain.Story, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, domain.NewValidationError("slug", "required")
	}

	st, err := s.stories.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("get story: %w", err)
	}

	l := dataloader.ForContext(ctx, s.loaders)
	catsThunk := l.CategoriesByStoryID.Load(ctx, st.ID)
	blocksThunk := l.BlocksByStoryID.Load(ctx, st.ID)

	cats, err := catsThunk()
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	blocks, err := blocksThunk()
	if err != nil {
		return nil, fmt.Errorf("load blocks: %w", err)
	}

	st.Categories = cats
	st.Blocks = blocks
	return st, nil
}

// Adjacent returns the previous (older) and next (newer) published stories.
func (s *Service) Adjacent(ctx context.Context, st domain.Story) (prev, next *domain.Story, err error) {
	prev, next, err = s.stories.Adjacent(ctx, st)
	if err != nil {
		return nil, nil, fmt.Errorf("adjacent stories: %w", err)
	}
	return prev, next, nil
}
