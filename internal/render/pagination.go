package render

import "github.com/heartmarshall/storyfeed/internal/domain"

const (
	endSize = 1
	midSize = 2
)

type pageItem struct {
	Number  int
	Href    string
	Current bool
	Dots    bool
}

type pagerView struct {
	Prev  string
	Next  string
	Pages []pageItem
}

// buildPager lays out page links the way a classic blog pager does: the first and
// last endSize pages, midSize pages either side of the current one, and a single
// ellipsis for each skipped run. Returns nil when there is at most one page.
func buildPager(current, total int, path, category string) *pagerView {
	if total <= 1 {
		return nil
	}
	if current < 1 {
		current = 1
	}

	href := func(n int) string {
		return domain.NavigationState{Category: category, Page: n}.URL(path)
	}

	p := &pagerView{}
	if current > 1 {
		p.Prev = href(current - 1)
	}
	if current < total {
		p.Next = href(current + 1)
	}

	dots := false
	for n := 1; n <= total; n++ {
		switch {
		case n == current:
			p.Pages = append(p.Pages, pageItem{Number: n, Current: true})
			dots = true
		case n <= endSize || n > total-endSize || (n >= current-midSize && n <= current+midSize):
			p.Pages = append(p.Pages, pageItem{Number: n, Href: href(n)})
			dots = true
		case dots:
			p.Pages = append(p.Pages, pageItem{Dots: true})
			dots = false
		}
	}
	return p
}
