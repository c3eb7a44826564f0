package rest

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/heartmarshall/storyfeed/internal/domain"
	"github.com/heartmarshall/storyfeed/internal/render"
)

const maxFilterBody = 64 << 10

// Filter endpoint messages. Internal detail never reaches the client.
const (
	msgSecurityCheckFailed = "security check failed"
	msgBadRequest          = "invalid request"
	msgInternalError       = "internal error"
)

type nonceVerifier interface {
	Verify(nonce, action string) error
}

type storyQuerier interface {
	Query(ctx context.Context, c domain.FilterCriteria) (domain.QueryResult, error)
}

type contentRenderer interface {
	Content(p render.ContentParams) (string, error)
}

// FilterPayload is the data of a successful filter response.
type FilterPayload struct {
	Content    string `json:"content"`
	FoundPosts int    `json:"found_posts"`
	MaxPages   int    `json:"max_pages"`
}

// FilterHandler answers asynchronous filter requests with a rendered content
// fragment.
type FilterHandler struct {
	nonces      nonceVerifier
	stories     storyQuerier
	renderer    contentRenderer
	defaults    domain.ListingDefaults
	listingPath string
	log         *slog.Logger
}

// NewFilterHandler creates a FilterHandler. listingPath is the page pager
// links in the fragment point to.
func NewFilterHandler(
	logger *slog.Logger,
	nonces nonceVerifier,
	stories storyQuerier,
	renderer contentRenderer,
	defaults domain.ListingDefaults,
	listingPath string,
) *FilterHandler {
	return &FilterHandler{
		nonces:      nonces,
		stories:     stories,
		renderer:    renderer,
		defaults:    defaults,
		listingPath: listingPath,
		log:         logger.With("handler", "filter"),
	}
}

// ServeHTTP handles POST /api/stories/filter.
// Form fields: category, paged, columns, nonce.
func (h *FilterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if p := recover(); p != nil {
			h.log.ErrorContext(r.Context(), "filter panic", slog.Any("panic", p))
			writeFailure(w, http.StatusInternalServerError, msgInternalError)
		}
	}()

	r.Body = http.MaxBytesReader(w, r.Body, maxFilterBody)
	if err := r.ParseForm(); err != nil {
		h.log.WarnContext(r.Context(), "filter form unreadable", slog.String("error", err.Error()))
		writeFailure(w, http.StatusBadRequest, msgBadRequest)
		return
	}

	if err := h.nonces.Verify(r.Form.Get("nonce"), render.FilterAction); err != nil {
		h.log.WarnContext(r.Context(), "filter security check failed", slog.String("error", err.Error()))
		writeFailure(w, http.StatusForbidden, msgSecurityCheckFailed)
		return
	}

	c := domain.FilterCriteria{
		Category:      r.Form.Get("category"),
		Page:          domain.ParsePage(r.Form.Get("paged")),
		Columns:       ParseColumns(r.Form.Get("columns")),
		PageSize:      h.defaults.PageSize,
		SortField:     h.defaults.SortField,
		SortDirection: h.defaults.SortDirection,
	}
	c.Normalize(h.defaults)

	payload, err := h.filter(r.Context(), c)
	if err != nil {
		h.log.ErrorContext(r.Context(), "filter failed",
			slog.String("category", c.Category),
			slog.Int("page", c.Page),
			slog.String("error", err.Error()),
		)
		writeFailure(w, http.StatusInternalServerError, msgInternalError)
		return
	}

	writeSuccess(w, payload)
}

func (h *FilterHandler) filter(ctx context.Context, c domain.FilterCriteria) (FilterPayload, error) {
	res, err := h.stories.Query(ctx, c)
	if err != nil {
		return FilterPayload{}, fmt.Errorf("query: %w", err)
	}

	content, err := h.renderer.Content(render.ContentParams{
		Result:   res,
		Columns:  c.Columns,
		Category: c.Category,
		Path:     h.listingPath,
	})
	if err != nil {
		return FilterPayload{}, fmt.Errorf("render: %w", err)
	}

	return FilterPayload{Content: content, FoundPosts: res.Total, MaxPages: res.Pages}, nil
}

// ParseColumns reads a column count. Missing, invalid or out-of-range values
// yield the default of 3.
func ParseColumns(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < domain.MinColumns || n > domain.MaxColumns {
		return domain.DefaultColumns
	}
	return n
}
