package definition

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/heartmarshall/storyfeed/internal/domain"
)

// Reconcile brings the registry in line with the on-disk documents, post type
// first, then field group. Per key it keeps the earliest-created entry and
// deletes the rest, inserts when none exists, and updates in place when the
// document's modified stamp differs. A document that fails to load is logged
// and skipped. Returns domain.ErrRegistryNotReady when the registry cannot be
// used yet; other per-document failures are joined into the returned error.
func (s *Service) Reconcile(ctx context.Context) (Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.registry.Ready(ctx); err != nil {
		return Report{}, fmt.Errorf("reconcile: %w", err)
	}

	var (
		report Report
		errs   []error
	)
	for _, kind := range syncOrder {
		doc, err := s.docs.Load(kind)
		if err != nil {
			s.log.WarnContext(ctx, "definition document skipped",
				slog.String("kind", string(kind)),
				slog.String("error", err.Error()),
			)
			report.Skipped++
			continue
		}

		var r Report
		err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
			var txErr error
			r, txErr = s.reconcileOne(ctx, doc)
			return txErr
		})
		if errors.Is(err, domain.ErrRegistryNotReady) {
			return report, fmt.Errorf("reconcile %s: %w", doc.Key, err)
		}
		if err != nil {
			s.log.ErrorContext(ctx, "reconcile definition failed",
				slog.String("key", doc.Key),
				slog.String("error", err.Error()),
			)
			report.Skipped++
			errs = append(errs, fmt.Errorf("reconcile %s: %w", doc.Key, err))
			continue
		}
		report = report.add(r)
	}

	s.log.InfoContext(ctx, "definitions reconciled", report.logAttrs()...)
	return report, errors.Join(errs...)
}

func (s *Service) reconcileOne(ctx context.Context, doc domain.Definition) (Report, error) {
	var r Report

	existing, err := s.registry.ListByKey(ctx, doc.Key)
	if err != nil {
		return r, fmt.Errorf("list: %w", err)
	}

	if len(existing) > 1 {
		for _, dup := range existing[1:] {
			if err := s.registry.Delete(ctx, dup.ID); err != nil {
				return r, fmt.Errorf("delete duplicate %s: %w", dup.ID, err)
			}
			s.log.InfoContext(ctx, "duplicate definition deleted",
				slog.String("key", dup.Key),
				slog.String("id", dup.ID.String()),
			)
			r.Deleted++
		}
		existing = existing[:1]
	}

	importedAt := s.now().UTC().Truncate(time.Microsecond)

	if len(existing) == 0 {
		doc.ImportSource = ImportSource
		doc.ImportedAt = &importedAt
		created, err := s.registry.Create(ctx, doc)
		if err != nil {
			return r, fmt.Errorf("create: %w", err)
		}
		s.log.InfoContext(ctx, "definition imported",
			slog.String("key", created.Key),
			slog.String("id", created.ID.String()),
			slog.Int64("modified", created.Modified),
		)
		r.Created++
		return r, nil
	}

	live := existing[0]
	if live.InSync(doc) {
		r.Unchanged++
		return r, nil
	}

	doc.ID = live.ID
	doc.CreatedAt = live.CreatedAt
	doc.ImportSource = ImportSource
	doc.ImportedAt = &importedAt
	if err := s.registry.Update(ctx, doc); err != nil {
		return r, fmt.Errorf("update: %w", err)
	}
	s.log.InfoContext(ctx, "definition updated",
		slog.String("key", doc.Key),
		slog.String("id", doc.ID.String()),
		slog.Int64("from", live.Modified),
		slog.Int64("to", doc.Modified),
	)
	r.Updated++
	return r, nil
}

// ReconcileAtStartup runs Reconcile and never fails startup. When the registry
// is not ready it arms exactly one deferred retry for RunDeferred.
func (s *Service) ReconcileAtStartup(ctx context.Context) Report {
	report, err := s.Reconcile(ctx)
	switch {
	case errors.Is(err, domain.ErrRegistryNotReady):
		s.retryMu.Lock()
		s.retryPending = true
		s.retryMu.Unlock()
		s.log.InfoContext(ctx, "definition registry not ready, reconcile deferred")
	case err != nil:
		s.log.ErrorContext(ctx, "startup reconcile failed", slog.String("error", err.Error()))
	}
	return report
}

// RetryPending reports whether a deferred retry is armed.
func (s *Service) RetryPending() bool {
	s.retryMu.Lock()
	defer s.retryMu.Unlock()
	return s.retryPending
}

// RunDeferred performs the single deferred retry if one is armed. It waits
// RetryDelay first. If the registry is still not ready the retry is abandoned.
func (s *Service) RunDeferred(ctx context.Context) {
	s.retryMu.Lock()
	pending := s.retryPending
	s.retryPending = false
	s.retryMu.Unlock()

	if !pending {
		return
	}

	if s.opts.RetryDelay > 0 {
		t := time.NewTimer(s.opts.RetryDelay)
		select {
		case <-ctx.Done():
			t.Stop()
			return
		case <-t.C:
		}
	}

	_, err := s.Reconcile(ctx)
	switch {
	case errors.Is(err, domain.ErrRegistryNotReady):
		s.log.WarnContext(ctx, "definition registry still not ready, deferred reconcile abandoned")
	case err != nil:
		s.log.ErrorContext(ctx, "deferred reconcile failed", slog.String("error", err.Error()))
	}
}
