package dataloader

import (
	"context"

	"github.com/google/uuid"
	"github.com/graph-gophers/dataloader/v7"

	"github.com/heartmarshall/storyfeed/internal/domain"
)

func newCategoriesBatchFn(repo categoryRepo) dataloader.BatchFunc[uuid.UUID, []domain.Category] {
	return func(ctx context.Context, keys []uuid.UUID) []*dataloader.Result[[]domain.Category] {
		rows, err := repo.GetByStoryIDs(ctx, keys)
		if err != nil {
			return errorResults[[]domain.Category](len(keys), err)
		}

		grouped := make(map[uuid.UUID][]domain.Category, len(keys))
		for _, r := range rows {
			grouped[r.StoryID] = append(grouped[r.StoryID], r.Category)
		}

		return mapResults(keys, grouped, emptySlice[domain.Category])
	}
}

func newBlocksBatchFn(repo blockRepo) dataloader.BatchFunc[uuid.UUID, []domain.ContentBlock] {
	return func(ctx context.Context, keys []uuid.UUID) []*dataloader.Result[[]domain.ContentBlock] {
		blocks, err := repo.BlocksByStoryIDs(ctx, keys)
		if err != nil {
			return errorResults[[]domain.ContentBlock](len(keys), err)
		}

		grouped := make(map[uuid.UUID][]domain.ContentBlock, len(keys))
		for _, b := range blocks {
			grouped[b.StoryID] = append(grouped[b.StoryID], b)
		}

		return mapResults(keys, grouped, emptySlice[domain.ContentBlock])
	}
}

// errorResults returns n results all carrying err.
func errorResults[V any](n int, err error) []*dataloader.Result[V] {
	results := make([]*dataloader.Result[V], n)
	for i := range results {
		results[i] = &dataloader.Result[V]{Error: err}
	}
	return results
}

// mapResults maps grouped results back to key order, using defaultFn for missing keys.
func mapResults[V any](keys []uuid.UUID, grouped map[uuid.UUID]V, defaultFn func() V) []*dataloader.Result[V] {
	results := make([]*dataloader.Result[V], len(keys))
	for i, key := range keys {
		if v, ok := grouped[key]; ok {
			results[i] = &dataloader.Result[V]{Data: v}
		} else {
			results[i] = &dataloader.Result[V]{Data: defaultFn()}
		}
	}
	return results
}

func emptySlice[T any]() []T {
	return []T{}
}
