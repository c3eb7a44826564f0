package definition

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/storyfeed/internal/domain"
)

// Sync reasons reported by CheckSyncRequired.
const (
	ReasonMissing  = "missing"
	ReasonModified = "modified"
)

// PendingSync is a field group document whose registry copy is out of date.
type PendingSync struct {
	Key              string `json:"key"`
	Title            string `json:"title"`
	Reason           string `json:"reason"`
	DocumentModified int64  `json:"document_modified"`
	RegistryModified *int64 `json:"registry_modified,omitempty"`
}

// CheckSyncRequired lists field group documents that are missing from the
// registry or whose registry modified stamp differs. It does not mutate.
func (s *Service) CheckSyncRequired(ctx context.Context) ([]PendingSync, error) {
	if err := s.registry.Ready(ctx); err != nil {
		return nil, fmt.Errorf("check sync: %w", err)
	}

	doc, err := s.docs.Load(domain.KindFieldGroup)
	if err != nil {
		s.log.DebugContext(ctx, "field group document unavailable", slog.String("error", err.Error()))
		return []PendingSync{}, nil
	}

	existing, err := s.registry.ListByKey(ctx, doc.Key)
	if err != nil {
		return nil, fmt.Errorf("check sync: %w", err)
	}

	pending := PendingSync{Key: doc.Key, Title: doc.Title, DocumentModified: doc.Modified}
	switch {
	case len(existing) == 0:
		pending.Reason = ReasonMissing
	case !existing[0].InSync(doc):
		m := existing[0].Modified
		pending.Reason = ReasonModified
		pending.RegistryModified = &m
	default:
		return []PendingSync{}, nil
	}
	return []PendingSync{pending}, nil
}
