package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/storyfeed/internal/domain"
	"github.com/heartmarshall/storyfeed/internal/service/definition"
	"github.com/heartmarshall/storyfeed/internal/transport/middleware"
)

type definitionService interface {
	Reconcile(ctx context.Context) (definition.Report, error)
	CheckSyncRequired(ctx context.Context) ([]definition.PendingSync, error)
}

// AdminHandler serves admin REST endpoints.
type AdminHandler struct {
	definitions definitionService
	log         *slog.Logger
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(definitions definitionService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		definitions: definitions,
		log:         logger.With("handler", "admin"),
	}
}

type syncResponse struct {
	Report definition.Report `json:"report"`
	Errors []string          `json:"errors,omitempty"`
}

// SyncDefinitions reconciles definition documents with the registry.
// Per-document failures are reported next to the partial result.
// POST /admin/definitions/sync
func (h *AdminHandler) SyncDefinitions(w http.ResponseWriter, r *http.Request) {
	operator, err := middleware.RequireAdmin(r.Context())
	if err != nil {
		writeError(w, http.StatusForbidden, "admin access required")
		return
	}

	report, err := h.definitions.Reconcile(r.Context())
	if errors.Is(err, domain.ErrRegistryNotReady) {
		handleError(h.log, w, r, err)
		return
	}

	resp := syncResponse{Report: report}
	if err != nil {
		resp.Errors = splitJoined(err)
		h.log.WarnContext(r.Context(), "definition sync finished with errors",
			slog.String("operator", operator),
			slog.Int("errors", len(resp.Errors)),
		)
	} else {
		h.log.InfoContext(r.Context(), "definition sync",
			slog.String("operator", operator),
			slog.Int("mutations", report.Mutations()),
		)
	}

	writeJSON(w, http.StatusOK, resp)
}

type statusResponse struct {
	SyncRequired bool                     `json:"sync_required"`
	Pending      []definition.PendingSync `json:"pending"`
}

// DefinitionStatus reports documents that differ from the registry.
// GET /admin/definitions/status
func (h *AdminHandler) DefinitionStatus(w http.ResponseWriter, r *http.Request) {
	if _, err := middleware.RequireAdmin(r.Context()); err != nil {
		writeError(w, http.StatusForbidden, "admin access required")
		return
	}

	pending, err := h.definitions.CheckSyncRequired(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	if pending == nil {
		pending = []definition.PendingSync{}
	}

	writeJSON(w, http.StatusOK, statusResponse{SyncRequired: len(pending) > 0, Pending: pending})
}

// splitJoined flattens an errors.Join result into messages.
func splitJoined(err error) []string {
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		out := make([]string, 0, len(joined.Unwrap()))
		for _, e := range joined.Unwrap() {
			out = append(out, e.Error())
		}
		return out
	}
	return []string{err.Error()}
}
