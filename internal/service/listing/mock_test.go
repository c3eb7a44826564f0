package listing

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/storyfeed/internal/domain"
)

// ---------------------------------------------------------------------------
// storyRepoMock
// ---------------------------------------------------------------------------

type storyRepoMock struct {
	ListFunc             func(ctx context.Context, c domain.FilterCriteria) ([]domain.Story, error)
	CountFunc            func(ctx context.Context, category string) (int, error)
	GetBySlugFunc        func(ctx context.Context, slug string) (*domain.Story, error)
	AdjacentFunc         func(ctx context.Context, s domain.Story) (*domain.Story, *domain.Story, error)
	BlocksByStoryIDsFunc func(ctx context.Context, storyIDs []uuid.UUID) ([]domain.ContentBlock, error)

	calls struct {
		List             []struct{ C domain.FilterCriteria }
		Count            []struct{ Category string }
		GetBySlug        []struct{ Slug string }
		Adjacent         []struct{ S domain.Story }
		BlocksByStoryIDs []struct{ StoryIDs []uuid.UUID }
	}
	lockList             sync.RWMutex
	lockCount            sync.RWMutex
	lockGetBySlug        sync.RWMutex
	lockAdjacent         sync.RWMutex
	lockBlocksByStoryIDs sync.RWMutex
}

func (mock *storyRepoMock) List(ctx context.Context, c domain.FilterCriteria) ([]domain.Story, error) {
	if mock.ListFunc == nil {
		panic("storyRepoMock.ListFunc: method is nil but storyRepo.List was just called")
	}
	mock.lockList.Lock()
	mock.calls.List = append(mock.calls.List, struct{ C domain.FilterCriteria }{C: c})
	mock.lockList.Unlock()
	return mock.ListFunc(ctx, c)
}

func (mock *storyRepoMock) ListCalls() []struct{ C domain.FilterCriteria } {
	mock.lockList.RLock()
	defer mock.lockList.RUnlock()
	return mock.calls.List
}

func (mock *storyRepoMock) Count(ctx context.Context, category string) (int, error) {
	if mock.CountFunc == nil {
		panic("storyRepoMock.CountFunc: method is nil but storyRepo.Count was just called")
	}
	mock.lockCount.Lock()
	mock.calls.Count = append(mock.calls.Count, struct{ Category string }{Category: category})
	mock.lockCount.Unlock()
	return mock.CountFunc(ctx, category)
}

func (mock *storyRepoMock) CountCalls() []struct{ Category string } {
	mock.lockCount.RLock()
	defer mock.lockCount.RUnlock()
	return mock.calls.Count
}

func (mock *storyRepoMock) GetBySlug(ctx context.Context, slug string) (*domain.Story, error) {
	if mock.GetBySlugFunc == nil {
		panic("storyRepoMock.GetBySlugFunc: method is nil but storyRepo.GetBySlug was just called")
	}
	mock.lockGetBySlug.Lock()
	mock.calls.GetBySlug = append(mock.calls.GetBySlug, struct{ Slug string }{Slug: slug})
	mock.lockGetBySlug.Unlock()
	return mock.GetBySlugFunc(ctx, slug)
}

func (mock *storyRepoMock) GetBySlugCalls() []struct{ Slug string } {
	mock.lockGetBySlug.RLock()
	defer mock.lockGetBySlug.RUnlock()
	return mock.calls.GetBySlug
}

func (mock *storyRepoMock) Adjacent(ctx context.Context, s domain.Story) (*domain.Story, *domain.Story, error) {
	if mock.AdjacentFunc == nil {
		panic("storyRepoMock.AdjacentFunc: method is nil but storyRepo.Adjacent was just called")
	}
	mock.lockAdjacent.Lock()
	mock.calls.Adjacent = append(mock.calls.Adjacent, struct{ S domain.Story }{S: s})
	mock.lockAdjacent.Unlock()
	return mock.AdjacentFunc(ctx, s)
}

func (mock *storyRepoMock) BlocksByStoryIDs(ctx context.Context, storyIDs []uuid.UUID) ([]domain.ContentBlock, error) {
	if mock.BlocksByStoryIDsFunc == nil {
		panic("storyRepoMock.BlocksByStoryIDsFunc: method is nil but blockRepo.BlocksByStoryIDs was just called")
	}
	mock.lockBlocksByStoryIDs.Lock()
	mock.calls.BlocksByStoryIDs = append(mock.calls.BlocksByStoryIDs, struct{ StoryIDs []uuid.UUID }{StoryIDs: storyIDs})
	mock.lockBlocksByStoryIDs.Unlock()
	return mock.BlocksByStoryIDsFunc(ctx, storyIDs)
}

func (mock *storyRepoMock) BlocksByStoryIDsCalls() []struct{ StoryIDs []uuid.UUID } {
	mock.lockBlocksByStoryIDs.RLock()
	defer mock.lockBlocksByStoryIDs.RUnlock()
	return mock.calls.BlocksByStoryIDs
}

// ---------------------------------------------------------------------------
// categoryRepoMock
// ---------------------------------------------------------------------------

type categoryRepoMock struct {
	ListUsedFunc      func(ctx context.Context) ([]domain.Category, error)
	GetByStoryIDsFunc func(ctx context.Context, storyIDs []uuid.UUID) ([]domain.StoryCategory, error)

	calls struct {
		ListUsed      []struct{}
		GetByStoryIDs []struct{ StoryIDs []uuid.UUID }
	}
	lockListUsed      sync.RWMutex
	lockGetByStoryIDs sync.RWMutex
}

func (mock *categoryRepoMock) ListUsed(ctx context.Context) ([]domain.Category, error) {
	if mock.ListUsedFunc == nil {
		panic("categoryRepoMock.ListUsedFunc: method is nil but categoryRepo.ListUsed was just called")
	}
	mock.lockListUsed.Lock()
	mock.calls.ListUsed = append(mock.calls.ListUsed, struct{}{})
	mock.lockListUsed.Unlock()
	return mock.ListUsedFunc(ctx)
}

func (mock *categoryRepoMock) GetByStoryIDs(ctx context.Context, storyIDs []uuid.UUID) ([]domain.StoryCategory, error) {
	if mock.GetByStoryIDsFunc == nil {
		panic("categoryRepoMock.GetByStoryIDsFunc: method is nil but categoryRepo.GetByStoryIDs was just called")
	}
	mock.lockGetByStoryIDs.Lock()
	mock.calls.GetByStoryIDs = append(mock.calls.GetByStoryIDs, struct{ StoryIDs []uuid.UUID }{StoryIDs: storyIDs})
	mock.lockGetByStoryIDs.Unlock()
	return mock.GetByStoryIDsFunc(ctx, storyIDs)
}

func (mock *categoryRepoMock) GetByStoryIDsCalls() []struct{ StoryIDs []uuid.UUID } {
	mock.lockGetByStoryIDs.RLock()
	defer mock.lockGetByStoryIDs.RUnlock()
	return mock.calls.GetByStoryIDs
}
