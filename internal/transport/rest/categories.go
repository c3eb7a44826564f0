package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/storyfeed/internal/domain"
)

type categoryLister interface {
	Categories(ctx context.Context) ([]domain.Category, error)
}

// CategoryHandler lists the categories in use for the filter control.
type CategoryHandler struct {
	categories categoryLister
	log        *slog.Logger
}

// NewCategoryHandler creates a CategoryHandler.
func NewCategoryHandler(categories categoryLister, logger *slog.Logger) *CategoryHandler {
	return &CategoryHandler{categories: categories, log: logger.With("handler", "categories")}
}

type categoryResponse struct {
	Slug  string `json:"slug"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// List returns categories used by at least one story.
// GET /api/stories/categories
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	cats, err := h.categories.Categories(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	out := make([]categoryResponse, 0, len(cats))
	for _, c := range cats {
		out = append(out, categoryResponse{Slug: c.Slug, Name: c.Name, Count: c.StoryCount})
	}
	writeJSON(w, http.StatusOK, out)
}
