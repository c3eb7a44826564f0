package shortcode

import (
	"context"
	"sync"

	"github.com/heartmarshall/storyfeed/internal/domain"
)

// ---------------------------------------------------------------------------
// listerMock
// ---------------------------------------------------------------------------

type listerMock struct {
	QueryFunc      func(ctx context.Context, c domain.FilterCriteria) (domain.QueryResult, error)
	CategoriesFunc func(ctx context.Context) ([]domain.Category, error)

	calls struct {
		Query      []struct{ C domain.FilterCriteria }
		Categories []struct{}
	}
	lockQuery      sync.RWMutex
	lockCategories sync.RWMutex
}

func (mock *listerMock) Query(ctx context.Context, c domain.FilterCriteria) (domain.QueryResult, error) {
	if mock.QueryFunc == nil {
		panic("listerMock.QueryFunc: method is nil but lister.Query was just called")
	}
	mock.lockQuery.Lock()
	mock.calls.Query = append(mock.calls.Query, struct{ C domain.FilterCriteria }{C: c})
	mock.lockQuery.Unlock()
	return mock.QueryFunc(ctx, c)
}

func (mock *listerMock) QueryCalls() []struct{ C domain.FilterCriteria } {
	mock.lockQuery.RLock()
	defer mock.lockQuery.RUnlock()
	return mock.calls.Query
}

func (mock *listerMock) Categories(ctx context.Context) ([]domain.Category, error) {
	if mock.CategoriesFunc == nil {
		panic("listerMock.CategoriesFunc: method is nil but lister.Categories was just called")
	}
	mock.lockCategories.Lock()
	mock.calls.Categories = append(mock.calls.Categories, struct{}{})
	mock.lockCategories.Unlock()
	return mock.CategoriesFunc(ctx)
}

// ---------------------------------------------------------------------------
// nonceIssuerMock
// ---------------------------------------------------------------------------

type nonceIssuerMock struct {
	IssueFunc func(action string) (string, error)

	calls struct {
		Issue []struct{ Action string }
	}
	lockIssue sync.RWMutex
}

func (mock *nonceIssuerMock) Issue(action string) (string, error) {
	if mock.IssueFunc == nil {
		panic("nonceIssuerMock.IssueFunc: method is nil but nonceIssuer.Issue was just called")
	}
	mock.lockIssue.Lock()
	mock.calls.Issue = append(mock.calls.Issue, struct{ Action string }{Action: action})
	mock.lockIssue.Unlock()
	return mock.IssueFunc(action)
}

func (mock *nonceIssuerMock) IssueCalls() []struct{ Action string } {
	mock.lockIssue.RLock()
	defer mock.lockIssue.RUnlock()
	return mock.calls.Issue
}
