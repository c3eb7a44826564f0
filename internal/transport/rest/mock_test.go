package rest

import (
	"context"
	"sync"

	"github.com/heartmarshall/storyfeed/internal/domain"
	"github.com/heartmarshall/storyfeed/internal/service/definition"
)

// ---------------------------------------------------------------------------
// nonceVerifierMock
// ---------------------------------------------------------------------------

type nonceVerifierMock struct {
	VerifyFunc func(nonce, action string) error

	calls struct {
		Verify []struct {
			Nonce  string
			Action string
		}
	}
	lockVerify sync.RWMutex
}

func (mock *nonceVerifierMock) Verify(nonce, action string) error {
	if mock.VerifyFunc == nil {
		panic("nonceVerifierMock.VerifyFunc: method is nil but nonceVerifier.Verify was just called")
	}
	mock.lockVerify.Lock()
	mock.calls.Verify = append(mock.calls.Verify, struct {
		Nonce  string
		Action string
	}{Nonce: nonce, Action: action})
	mock.lockVerify.Unlock()
	return mock.VerifyFunc(nonce, action)
}

func (mock *nonceVerifierMock) VerifyCalls() []struct {
	Nonce  string
	Action string
} {
	mock.lockVerify.RLock()
	defer mock.lockVerify.RUnlock()
	return mock.calls.Verify
}

// ---------------------------------------------------------------------------
// storyQuerierMock
// ---------------------------------------------------------------------------

type storyQuerierMock struct {
	QueryFunc func(ctx context.Context, c domain.FilterCriteria) (domain.QueryResult, error)

	calls struct {
		Query []struct{ C domain.FilterCriteria }
	}
	lockQuery sync.RWMutex
}

func (mock *storyQuerierMock) Query(ctx context.Context, c domain.FilterCriteria) (domain.QueryResult, error) {
	if mock.QueryFunc == nil {
		panic("storyQuerierMock.QueryFunc: method is nil but storyQuerier.Query was just called")
	}
	mock.lockQuery.Lock()
	mock.calls.Query = append(mock.calls.Query, struct{ C domain.FilterCriteria }{C: c})
	mock.lockQuery.Unlock()
	return mock.QueryFunc(ctx, c)
}

func (mock *storyQuerierMock) QueryCalls() []struct{ C domain.FilterCriteria } {
	mock.lockQuery.RLock()
	defer mock.lockQuery.RUnlock()
	return mock.calls.Query
}

// ---------------------------------------------------------------------------
// definitionServiceMock
// ---------------------------------------------------------------------------

type definitionServiceMock struct {
	ReconcileFunc         func(ctx context.Context) (definition.Report, error)
	CheckSyncRequiredFunc func(ctx context.Context) ([]definition.PendingSync, error)

	calls struct {
		Reconcile         []struct{}
		CheckSyncRequired []struct{}
	}
	lockReconcile         sync.RWMutex
	lockCheckSyncRequired sync.RWMutex
}

func (mock *definitionServiceMock) Reconcile(ctx context.Context) (definition.Report, error) {
	if mock.ReconcileFunc == nil {
		panic("definitionServiceMock.ReconcileFunc: method is nil but definitionService.Reconcile was just called")
	}
	mock.lockReconcile.Lock()
	mock.calls.Reconcile = append(mock.calls.Reconcile, struct{}{})
	mock.lockReconcile.Unlock()
	return mock.ReconcileFunc(ctx)
}

func (mock *definitionServiceMock) ReconcileCalls() []struct{} {
	mock.lockReconcile.RLock()
	defer mock.lockReconcile.RUnlock()
	return mock.calls.Reconcile
}

func (mock *definitionServiceMock) CheckSyncRequired(ctx context.Context) ([]definition.PendingSync, error) {
	if mock.CheckSyncRequiredFunc == nil {
		panic("definitionServiceMock.CheckSyncRequiredFunc: method is nil but definitionService.CheckSyncRequired was just called")
	}
	mock.lockCheckSyncRequired.Lock()
	mock.calls.CheckSyncRequired = append(mock.calls.CheckSyncRequired, struct{}{})
	mock.lockCheckSyncRequired.Unlock()
	return mock.CheckSyncRequiredFunc(ctx)
}

// ---------------------------------------------------------------------------
// storyReaderMock
// ---------------------------------------------------------------------------

type storyReaderMock struct {
	StoryFunc    func(ctx context.Context, slug string) (*domain.Story, error)
	AdjacentFunc func(ctx context.Context, st domain.Story) (*domain.Story, *domain.Story, error)
}

func (mock *storyReaderMock) Story(ctx context.Context, slug string) (*domain.Story, error) {
	if mock.StoryFunc == nil {
		panic("storyReaderMock.StoryFunc: method is nil but storyReader.Story was just called")
	}
	return mock.StoryFunc(ctx, slug)
}

func (mock *storyReaderMock) Adjacent(ctx context.Context, st domain.Story) (*domain.Story, *domain.Story, error) {
	if mock.AdjacentFunc == nil {
		panic("storyReaderMock.AdjacentFunc: method is nil but storyReader.Adjacent was just called")
	}
	return mock.AdjacentFunc(ctx, st)
}
