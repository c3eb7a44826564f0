package definition

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/storyfeed/internal/domain"
)

// ---------------------------------------------------------------------------
// registryMock
// ---------------------------------------------------------------------------

type registryMock struct {
	ReadyFunc     func(ctx context.Context) error
	ListByKeyFunc func(ctx context.Context, key string) ([]domain.Definition, error)
	CreateFunc    func(ctx context.Context, d domain.Definition) (domain.Definition, error)
	UpdateFunc    func(ctx context.Context, d domain.Definition) error
	DeleteFunc    func(ctx context.Context, id uuid.UUID) error

	calls struct {
		Ready     []struct{}
		ListByKey []struct{ Key string }
		Create    []struct{ D domain.Definition }
		Update    []struct{ D domain.Definition }
		Delete    []struct{ ID uuid.UUID }
	}
	lockReady     sync.RWMutex
	lockListByKey sync.RWMutex
	lockCreate    sync.RWMutex
	lockUpdate    sync.RWMutex
	lockDelete    sync.RWMutex
}

func (mock *registryMock) Ready(ctx context.Context) error {
	if mock.ReadyFunc == nil {
		panic("registryMock.ReadyFunc: method is nil but registry.Ready was just called")
	}
	mock.lockReady.Lock()
	mock.calls.Ready = append(mock.calls.Ready, struct{}{})
	mock.lockReady.Unlock()
	return mock.ReadyFunc(ctx)
}

func (mock *registryMock) ReadyCalls() []struct{} {
	mock.lockReady.RLock()
	defer mock.lockReady.RUnlock()
	return mock.calls.Ready
}

func (mock *registryMock) ListByKey(ctx context.Context, key string) ([]domain.Definition, error) {
	if mock.ListByKeyFunc == nil {
		panic("registryMock.ListByKeyFunc: method is nil but registry.ListByKey was just called")
	}
	mock.lockListByKey.Lock()
	mock.calls.ListByKey = append(mock.calls.ListByKey, struct{ Key string }{Key: key})
	mock.lockListByKey.Unlock()
	return mock.ListByKeyFunc(ctx, key)
}

func (mock *registryMock) ListByKeyCalls() []struct{ Key string } {
	mock.lockListByKey.RLock()
	defer mock.lockListByKey.RUnlock()
	return mock.calls.ListByKey
}

func (mock *registryMock) Create(ctx context.Context, d domain.Definition) (domain.Definition, error) {
	if mock.CreateFunc == nil {
		panic("registryMock.CreateFunc: method is nil but registry.Create was just called")
	}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, struct{ D domain.Definition }{D: d})
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, d)
}

func (mock *registryMock) CreateCalls() []struct{ D domain.Definition } {
	mock.lockCreate.RLock()
	defer mock.lockCreate.RUnlock()
	return mock.calls.Create
}

func (mock *registryMock) Update(ctx context.Context, d domain.Definition) error {
	if mock.UpdateFunc == nil {
		panic("registryMock.UpdateFunc: method is nil but registry.Update was just called")
	}
	mock.lockUpdate.Lock()
	mock.calls.Update = append(mock.calls.Update, struct{ D domain.Definition }{D: d})
	mock.lockUpdate.Unlock()
	return mock.UpdateFunc(ctx, d)
}

func (mock *registryMock) UpdateCalls() []struct{ D domain.Definition } {
	mock.lockUpdate.RLock()
	defer mock.lockUpdate.RUnlock()
	return mock.calls.Update
}

func (mock *registryMock) Delete(ctx context.Context, id uuid.UUID) error {
	if mock.DeleteFunc == nil {
		panic("registryMock.DeleteFunc: method is nil but registry.Delete was just called")
	}
	mock.lockDelete.Lock()
	mock.calls.Delete = append(mock.calls.Delete, struct{ ID uuid.UUID }{ID: id})
	mock.lockDelete.Unlock()
	return mock.DeleteFunc(ctx, id)
}

func (mock *registryMock) DeleteCalls() []struct{ ID uuid.UUID } {
	mock.lockDelete.RLock()
	defer mock.lockDelete.RUnlock()
	return mock.calls.Delete
}

// ---------------------------------------------------------------------------
// documentStoreMock
// ---------------------------------------------------------------------------

type documentStoreMock struct {
	LoadFunc   func(kind domain.DefinitionKind) (domain.Definition, error)
	DirFunc    func() string
	KindOfFunc func(name string) (domain.DefinitionKind, bool)

	calls struct {
		Load []struct{ Kind domain.DefinitionKind }
	}
	lockLoad sync.RWMutex
}

func (mock *documentStoreMock) Load(kind domain.DefinitionKind) (domain.Definition, error) {
	if mock.LoadFunc == nil {
		panic("documentStoreMock.LoadFunc: method is nil but documentStore.Load was just called")
	}
	mock.lockLoad.Lock()
	mock.calls.Load = append(mock.calls.Load, struct{ Kind domain.DefinitionKind }{Kind: kind})
	mock.lockLoad.Unlock()
	return mock.LoadFunc(kind)
}

func (mock *documentStoreMock) LoadCalls() []struct{ Kind domain.DefinitionKind } {
	mock.lockLoad.RLock()
	defer mock.lockLoad.RUnlock()
	return mock.calls.Load
}

func (mock *documentStoreMock) Dir() string {
	if mock.DirFunc == nil {
		panic("documentStoreMock.DirFunc: method is nil but documentStore.Dir was just called")
	}
	return mock.DirFunc()
}

func (mock *documentStoreMock) KindOf(name string) (domain.DefinitionKind, bool) {
	if mock.KindOfFunc == nil {
		panic("documentStoreMock.KindOfFunc: method is nil but documentStore.KindOf was just called")
	}
	return mock.KindOfFunc(name)
}

// ---------------------------------------------------------------------------
// txManagerMock
// ---------------------------------------------------------------------------

type txManagerMock struct {
	RunInTxFunc func(ctx context.Context, fn func(ctx context.Context) error) error

	calls struct {
		RunInTx []struct{}
	}
	lockRunInTx sync.RWMutex
}

func (mock *txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if mock.RunInTxFunc == nil {
		panic("txManagerMock.RunInTxFunc: method is nil but txManager.RunInTx was just called")
	}
	mock.lockRunInTx.Lock()
	mock.calls.RunInTx = append(mock.calls.RunInTx, struct{}{})
	mock.lockRunInTx.Unlock()
	return mock.RunInTxFunc(ctx, fn)
}

func (mock *txManagerMock) RunInTxCalls() []struct{} {
	mock.lockRunInTx.RLock()
	defer mock.lockRunInTx.RUnlock()
	return mock.calls.RunInTx
}
