package rest

import (
	"context"
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/storyfeed/internal/domain"
	"github.com/heartmarshall/storyfeed/internal/render"
	"github.com/heartmarshall/storyfeed/internal/shortcode"
)

type bodyExpander interface {
	Expand(ctx context.Context, body string, req shortcode.Request) (string, error)
}

type storyReader interface {
	Story(ctx context.Context, slug string) (*domain.Story, error)
	Adjacent(ctx context.Context, st domain.Story) (prev, next *domain.Story, err error)
}

type pageRenderer interface {
	Breadcrumbs(current string) (string, error)
	Single(s domain.Story, prev, next *domain.Story) (string, error)
	Page(v render.PageView) (string, error)
}

type assetURLs interface {
	Styles() []string
	Scripts() []string
}

// PageHandler serves the listing page and single story pages.
type PageHandler struct {
	expander    bodyExpander
	stories     storyReader
	renderer    pageRenderer
	assets      assetURLs
	listingBody string
	log         *slog.Logger
}

// NewPageHandler creates a PageHandler. listingBody is the page body of the
// listing page; its directives are expanded on every request.
func NewPageHandler(
	logger *slog.Logger,
	expander bodyExpander,
	stories storyReader,
	renderer pageRenderer,
	assets assetURLs,
	listingBody string,
) *PageHandler {
	return &PageHandler{
		expander:    expander,
		stories:     stories,
		renderer:    renderer,
		assets:      assets,
		listingBody: listingBody,
		log:         logger.With("handler", "pages"),
	}
}

// Listing renders the listing page. The category and page are read from the
// query string so pager links and history entries are directly loadable.
// GET {listing path}
func (h *PageHandler) Listing(w http.ResponseWriter, r *http.Request) {
	body, err := h.expander.Expand(r.Context(), h.listingBody, shortcode.Request{
		Path:  r.URL.Path,
		Query: r.URL.Query(),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.writePage(w, r, "", body)
}

// Story renders one story with breadcrumbs and previous/next navigation.
// GET {listing path}/{slug}
func (h *PageHandler) Story(w http.ResponseWriter, r *http.Request) {
	st, err := h.stories.Story(r.Context(), r.PathValue("slug"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	prev, next, err := h.stories.Adjacent(r.Context(), *st)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	crumbs, err := h.renderer.Breadcrumbs(st.Title)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	single, err := h.renderer.Single(*st, prev, next)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.writePage(w, r, st.Title, crumbs+single)
}

func (h *PageHandler) writePage(w http.ResponseWriter, r *http.Request, title, body string) {
	page, err := h.renderer.Page(render.PageView{
		Title:   title,
		Styles:  h.assets.Styles(),
		Scripts: h.assets.Scripts(),
		Body:    template.HTML(body), //nolint:gosec // assembled from escaped templates
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeHTML(w, http.StatusOK, page)
}

func (h *PageHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrValidation):
		writeHTML(w, http.StatusNotFound, "<!DOCTYPE html><title>Not found</title><p>Not found</p>")
	default:
		h.log.ErrorContext(r.Context(), "render page",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		writeHTML(w, http.StatusInternalServerError, "<!DOCTYPE html><title>Error</title><p>Something went wrong</p>")
	}
}
