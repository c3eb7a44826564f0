package definition

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"

	"github.com/heartmarshall/storyfeed/internal/domain"
)

// Watch reconciles whenever a definition document in the store directory is
// written, created or renamed into place. Bursts of events for one document
// are debounced. Watch blocks until ctx is cancelled.
func (s *Service) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("definition watcher: %w", err)
	}
	defer watcher.Close()

	dir := s.docs.Dir()
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("definition watcher: watch %s: %w", dir, err)
	}
	s.log.InfoContext(ctx, "watching definition documents", slog.String("dir", dir))

	fire := make(chan domain.DefinitionKind, len(syncOrder))
	timers := make(map[domain.DefinitionKind]*time.Timer)
	defer func() {
		for _, t := range timers {
			t.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			kind, ok := s.docs.KindOf(event.Name)
			if !ok {
				continue
			}
			if t, exists := timers[kind]; exists {
				t.Stop()
			}
			k := kind
			timers[kind] = time.AfterFunc(s.opts.WatchDebounce, func() {
				select {
				case fire <- k:
				default:
				}
			})

		case kind := <-fire:
			s.log.InfoContext(ctx, "definition document changed", slog.String("kind", string(kind)))
			if _, err := s.Reconcile(ctx); err != nil {
				s.log.ErrorContext(ctx, "watch reconcile failed", slog.String("error", err.Error()))
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.log.ErrorContext(ctx, "definition watcher error", slog.String("error", err.Error()))
		}
	}
}

// ScheduleCheck runs CheckSyncRequired on the cron spec and logs a warning when
// documents are out of sync. It never mutates the registry. ScheduleCheck
// blocks until ctx is cancelled.
func (s *Service) ScheduleCheck(ctx context.Context, spec string) error {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		pending, err := s.CheckSyncRequired(ctx)
		if err != nil {
			s.log.WarnContext(ctx, "sync check failed", slog.String("error", err.Error()))
			return
		}
		for _, p := range pending {
			s.log.WarnContext(ctx, "definition sync required",
				slog.String("key", p.Key),
				slog.String("reason", p.Reason),
			)
		}
	})
	if err != nil {
		return fmt.Errorf("sync check schedule %q: %w", spec, err)
	}

	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}
