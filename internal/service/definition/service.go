// Package definition reconciles the on-disk definition documents with the
// live definition registry.
package definition

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/storyfeed/internal/domain"
)

type registry interface {
	Ready(ctx context.Context) error
	ListByKey(ctx context.Context, key string) ([]domain.Definition, error)
	Create(ctx context.Context, d domain.Definition) (domain.Definition, error)
	Update(ctx context.Context, d domain.Definition) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type documentStore interface {
	Load(kind domain.DefinitionKind) (domain.Definition, error)
	Dir() string
	KindOf(name string) (domain.DefinitionKind, bool)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ImportSource is recorded on registry rows written by reconciliation.
const ImportSource = "defstore"

// syncOrder is the order documents are reconciled in.
var syncOrder = []domain.DefinitionKind{domain.KindPostType, domain.KindFieldGroup}

// Options tune timing. Zero values get defaults.
type Options struct {
	RetryDelay    time.Duration
	WatchDebounce time.Duration
}

// Service reconciles definition documents with the registry. Mutations are
// serialized: startup, the admin action, the watcher and the deferred retry
// never run a reconcile concurrently.
type Service struct {
	registry registry
	docs     documentStore
	tx       txManager
	log      *slog.Logger
	opts     Options
	now      func() time.Time

	mu sync.Mutex

	retryMu      sync.Mutex
	retryPending bool
}

// NewService creates a new definition Service.
func NewService(
	log *slog.Logger,
	reg registry,
	docs documentStore,
	tx txManager,
	opts Options,
) *Service {
	if opts.RetryDelay < 0 {
		opts.RetryDelay = 0
	}
	if opts.WatchDebounce <= 0 {
		opts.WatchDebounce = 500 * time.Millisecond
	}
	return &Service{
		registry: reg,
		docs:     docs,
		tx:       tx,
		log:      log.With("service", "definition"),
		opts:     opts,
		now:      time.Now,
	}
}

// Report summarizes one reconcile run.
type Report struct {
	Created   int `json:"created"`
	Updated   int `json:"updated"`
	Deleted   int `json:"deleted"`
	Unchanged int `json:"unchanged"`
	Skipped   int `json:"skipped"`
}

// Mutations is the number of registry writes the run performed.
func (r Report) Mutations() int {
	return r.Created + r.Updated + r.Deleted
}

func (r Report) add(o Report) Report {
	return Report{
		Created:   r.Created + o.Created,
		Updated:   r.Updated + o.Updated,
		Deleted:   r.Deleted + o.Deleted,
		Unchanged: r.Unchanged + o.Unchanged,
		Skipped:   r.Skipped + o.Skipped,
	}
}

func (r Report) logAttrs() []any {
	return []any{
		slog.Int("created", r.Created),
		slog.Int("updated", r.Updated),
		slog.Int("deleted", r.Deleted),
		slog.Int("unchanged", r.Unchanged),
		slog.Int("skipped", r.Skipped),
	}
}
