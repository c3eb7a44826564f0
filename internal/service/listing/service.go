// Package listing answers filtered, paginated story queries.
package listing

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/storyfeed/internal/dataloader"
	"github.com/heartmarshall/storyfeed/internal/domain"
)

type storyRepo interface {
	List(ctx context.Context, c domain.FilterCriteria) ([]domain.Story, error)
	Count(ctx context.Context, category string) (int, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Story, error)
	Adjacent(ctx context.Context, s domain.Story) (prev, next *domain.Story, err error)
}

type categoryRepo interface {
	ListUsed(ctx context.Context) ([]domain.Category, error)
}

// Service provides read-only story listing operations.
type Service struct {
	stories    storyRepo
	categories categoryRepo
	loaders    *dataloader.Repos
	defaults   domain.ListingDefaults
	log        *slog.Logger
}

// NewService creates a new listing Service.
func NewService(
	log *slog.Logger,
	stories storyRepo,
	categories categoryRepo,
	loaders *dataloader.Repos,
	defaults domain.ListingDefaults,
) *Service {
	return &Service{
		stories:    stories,
		categories: categories,
		loaders:    loaders,
		defaults:   defaults,
		log:        log.With("service", "listing"),
	}
}

// Defaults returns the listing defaults applied by Query.
func (s *Service) Defaults() domain.ListingDefaults {
	return s.defaults
}
