// Package filterclient models the browser filter controller: it reacts to
// category changes, pager clicks and history pops by requesting a new content
// fragment and updating the view. A newer trigger cancels the request in flight;
// only the latest request may update the view.
package filterclient

import (
	"context"
	"log/slog"
	"sync"

	"github.com/heartmarshall/storyfeed/internal/domain"
)

// State is the controller state.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateError:
		return "error"
	}
	return "unknown"
}

// Request is one filter call.
type Request struct {
	Category string
	Page     int
	Columns  int
	Nonce    string
}

// Response is the payload of a successful filter call.
type Response struct {
	Content    string `json:"content"`
	FoundPosts int    `json:"found_posts"`
	MaxPages   int    `json:"max_pages"`
}

// Transport performs filter calls.
type Transport interface {
	Filter(ctx context.Context, req Request) (Response, error)
}

// History records navigation entries.
type History interface {
	Push(st domain.NavigationState, url string)
}

// View is the rendered page the controller drives.
type View interface {
	SetContent(html string)
	SetCategory(slug string)
	SetLoading(on bool)
	ScrollToContent()
}

// Options configures a Controller.
type Options struct {
	Nonce   string
	Columns int
	// Path is the page path used for history entries.
	Path    string
	Initial domain.NavigationState
}

// Controller drives one listing view.
type Controller struct {
	log       *slog.Logger
	transport Transport
	history   History
	view      View
	opts      Options

	// viewMu orders calls into view and history. mu is never held during
	// those calls, so collaborators may call State and Current.
	viewMu sync.Mutex

	mu      sync.Mutex
	state   State
	current domain.NavigationState
	cancel  context.CancelFunc
	seq     uint64
	wg      sync.WaitGroup
}

// New creates a Controller in the idle state.
func New(log *slog.Logger, t Transport, h History, v View, opts Options) *Controller {
	if opts.Columns < domain.MinColumns || opts.Columns > domain.MaxColumns {
		opts.Columns = domain.DefaultColumns
	}
	if opts.Initial.Page < 1 {
		opts.Initial.Page = 1
	}
	return &Controller{
		log:       log.With("component", "filterclient"),
		transport: t,
		history:   h,
		view:      v,
		opts:      opts,
		current:   opts.Initial,
	}
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Current returns the last successfully loaded navigation state.
func (c *Controller) Current() domain.NavigationState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// CategoryChanged loads page 1 of category and records a history entry.
func (c *Controller) CategoryChanged(ctx context.Context, category string) {
	c.load(ctx, domain.NavigationState{Category: domain.NormalizeSlug(category), Page: 1}, true)
}

// PaginationClicked loads the page named by href in the current category,
// records a history entry and scrolls to the content.
func (c *Controller) PaginationClicked(ctx context.Context, href string) {
	c.mu.Lock()
	category := c.current.Category
	c.mu.Unlock()

	c.load(ctx, domain.NavigationState{Category: category, Page: domain.ParsePageFromHref(href)}, true)

	c.viewMu.Lock()
	c.view.ScrollToContent()
	c.viewMu.Unlock()
}

// HistoryPopped restores st without recording a new history entry.
func (c *Controller) HistoryPopped(ctx context.Context, st domain.NavigationState) {
	if st.Page < 1 {
		st.Page = 1
	}
	c.viewMu.Lock()
	c.view.SetCategory(st.Category)
	c.viewMu.Unlock()

	c.load(ctx, st, false)
}

// Wait blocks until no request is in flight.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Close cancels the request in flight and waits for it to finish.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	c.mu.Unlock()
	c.wg.Wait()
}

func (c *Controller) load(ctx context.Context, st domain.NavigationState, push bool) {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	reqCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.seq++
	seq := c.seq
	c.state = StateLoading
	c.mu.Unlock()

	c.viewMu.Lock()
	c.view.SetLoading(true)
	c.viewMu.Unlock()

	req := Request{
		Category: st.Category,
		Page:     st.Page,
		Columns:  c.opts.Columns,
		Nonce:    c.opts.Nonce,
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer cancel()

		resp, err := c.transport.Filter(reqCtx, req)

		c.viewMu.Lock()
		defer c.viewMu.Unlock()

		c.mu.Lock()
		if seq != c.seq {
			c.mu.Unlock()
			return
		}
		c.cancel = nil
		if err != nil {
			c.state = StateError
		} else {
			c.current = st
			c.state = StateIdle
		}
		c.mu.Unlock()

		defer c.view.SetLoading(false)

		if err != nil {
			c.log.Error("filter request failed",
				slog.String("category", st.Category),
				slog.Int("page", st.Page),
				slog.String("error", err.Error()),
			)
			return
		}

		c.view.SetContent(resp.Content)
		c.view.SetCategory(st.Category)
		if push {
			c.history.Push(st, st.URL(c.opts.Path))
		}
	}()
}
