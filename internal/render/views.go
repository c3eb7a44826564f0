package render

import (
	"html/template"

	"github.com/heartmarshall/storyfeed/internal/domain"
)

type cardView struct {
	Href    string
	Title   string
	Date    string
	Image   *domain.Image
	Excerpt string
}

type gridView struct {
	Columns int
	Cards   []cardView
}

type contentView struct {
	Grid  *gridView
	Pager *pagerView
}

type listingView struct {
	Categories []domain.Category
	Selected   string
	Nonce      string
	FilterURL  string
	Columns    int
	Content    contentView
}

type crumbView struct {
	HomeURL      string
	HomeLabel    string
	SectionURL   string
	SectionLabel string
	Current      string
}

type navLink struct {
	Href  string
	Title string
}

type singleView struct {
	ID      string
	Title   string
	Excerpt string
	Date    string
	Blocks  []template.HTML
	Prev    *navLink
	Next    *navLink
	AllURL  string
}

// PageView is the data of a full HTML document.
type PageView struct {
	Title   string
	Styles  []string
	Scripts []string
	Body    template.HTML
}

// ContentParams describes one content fragment: the grid of a result page plus
// its pager, or the empty state.
type ContentParams struct {
	Result  domain.QueryResult
	Columns int
	// Category and Path are carried into pager links.
	Category string
	Path     string
}

// ListingParams describes a full listing wrapper.
type ListingParams struct {
	ContentParams
	Categories []domain.Category
	// Nonce is the anti-forgery token handed to the client controller.
	Nonce string
}

func clampColumns(n int) int {
	if n < domain.MinColumns || n > domain.MaxColumns {
		return domain.DefaultColumns
	}
	return n
}

func (r *Renderer) grid(items []domain.Story, columns int) *gridView {
	g := &gridView{Columns: clampColumns(columns), Cards: make([]cardView, 0, len(items))}
	for _, it := range items {
		c := cardView{
			Href:    r.Permalink(it.Slug),
			Title:   it.Title,
			Date:    r.formatDate(it.Date),
			Excerpt: it.Excerpt,
		}
		if it.HasImage() {
			c.Image = it.Image
		}
		g.Cards = append(g.Cards, c)
	}
	return g
}

func (r *Renderer) content(p ContentParams) contentView {
	if len(p.Result.Items) == 0 {
		return contentView{}
	}
	return contentView{
		Grid:  r.grid(p.Result.Items, p.Columns),
		Pager: buildPager(p.Result.Page, p.Result.Pages, p.Path, p.Category),
	}
}

// Grid renders one card per story.
func (r *Renderer) Grid(items []domain.Story, columns int) (string, error) {
	return r.execute("grid", r.grid(items, columns))
}

// Pagination renders the pager for the given page, or nothing when total <= 1.
func (r *Renderer) Pagination(current, total int, path, category string) (string, error) {
	p := buildPager(current, total, path, category)
	if p == nil {
		return "", nil
	}
	return r.execute("pagination", p)
}

// EmptyState renders the fixed no-results block.
func (r *Renderer) EmptyState() (string, error) {
	return r.execute("empty", nil)
}

// Content renders the grid and pager of a result, or the empty state.
func (r *Renderer) Content(p ContentParams) (string, error) {
	return r.execute("content", r.content(p))
}

// Listing renders the full wrapper: the category filter, when any category is
// in use, followed by the content area.
func (r *Renderer) Listing(p ListingParams) (string, error) {
	v := listingView{
		Categories: p.Categories,
		Selected:   p.Category,
		Nonce:      p.Nonce,
		FilterURL:  r.opts.FilterURL,
		Columns:    clampColumns(p.Columns),
		Content:    r.content(p.ContentParams),
	}
	return r.execute("listing", v)
}

// Breadcrumbs renders Home / section, followed by current when it is not empty.
func (r *Renderer) Breadcrumbs(current string) (string, error) {
	return r.execute("breadcrumbs", crumbView{
		HomeURL:      r.opts.HomeURL,
		HomeLabel:    r.opts.HomeLabel,
		SectionURL:   r.opts.SectionURL,
		SectionLabel: r.opts.SectionLabel,
		Current:      current,
	})
}

// Single renders a story body with previous / all / next navigation.
// prev and next may be nil.
func (r *Renderer) Single(s domain.Story, prev, next *domain.Story) (string, error) {
	v := singleView{
		ID:      s.ID.String(),
		Title:   s.Title,
		Excerpt: s.Excerpt,
		Date:    r.formatDate(s.Date),
		AllURL:  r.opts.SectionURL,
	}
	for _, b := range s.Blocks {
		html, err := r.Block(b)
		if err != nil {
			return "", err
		}
		if html == "" {
			continue
		}
		v.Blocks = append(v.Blocks, html)
	}
	if prev != nil {
		v.Prev = &navLink{Href: r.Permalink(prev.Slug), Title: prev.Title}
	}
	if next != nil {
		v.Next = &navLink{Href: r.Permalink(next.Slug), Title: next.Title}
	}
	return r.execute("single", v)
}

// Page wraps a body in a complete HTML document.
func (r *Renderer) Page(v PageView) (string, error) {
	if v.Title == "" {
		v.Title = r.opts.SiteTitle
	}
	return r.execute("page", v)
}
