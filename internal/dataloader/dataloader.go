// Package dataloader provides per-request loaders that batch the category and
// block lookups of a story page into single SQL calls.
package dataloader

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/graph-gophers/dataloader/v7"

	"github.com/heartmarshall/storyfeed/internal/domain"
)

const (
	maxBatch = 100
	wait     = 2 * time.Millisecond
)

type categoryRepo interface {
	GetByStoryIDs(ctx context.Context, storyIDs []uuid.UUID) ([]domain.StoryCategory, error)
}

type blockRepo interface {
	BlocksByStoryIDs(ctx context.Context, storyIDs []uuid.UUID) ([]domain.ContentBlock, error)
}

// Repos holds the repositories loaders read from.
type Repos struct {
	Category categoryRepo
	Block    blockRepo
}

// Loaders caches results within one request or query.
type Loaders struct {
	CategoriesByStoryID *dataloader.Loader[uuid.UUID, []domain.Category]
	BlocksByStoryID     *dataloader.Loader[uuid.UUID, []domain.ContentBlock]
}

// NewLoaders creates a fresh set of loaders backed by repos.
func NewLoaders(repos *Repos) *Loaders {
	return &Loaders{
		CategoriesByStoryID: newLoader(newCategoriesBatchFn(repos.Category)),
		BlocksByStoryID:     newLoader(newBlocksBatchFn(repos.Block)),
	}
}

func newLoader[V any](batchFn dataloader.BatchFunc[uuid.UUID, V]) *dataloader.Loader[uuid.UUID, V] {
	return dataloader.NewBatchedLoader(
		batchFn,
		dataloader.WithWait[uuid.UUID, V](wait),
		dataloader.WithBatchCapacity[uuid.UUID, V](maxBatch),
	)
}

type contextKey struct{}

// WithLoaders stores Loaders in the context.
func WithLoaders(ctx context.Context, l *Loaders) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// FromContext returns the Loaders stored in ctx, or nil.
func FromContext(ctx context.Context) *Loaders {
	l, _ := ctx.Value(contextKey{}).(*Loaders)
	return l
}

// ForContext returns the loaders in ctx, or a new set when none is present.
func ForContext(ctx context.Context, repos *Repos) *Loaders {
	if l := FromContext(ctx); l != nil {
		return l
	}
	return NewLoaders(repos)
}
