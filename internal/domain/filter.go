package domain

import (
	"net/url"
	"strconv"
	"strings"
)

// SortField selects the ordering column of a listing query.
type SortField string

const (
	SortByDate      SortField = "date"
	SortByTitle     SortField = "title"
	SortByMenuOrder SortField = "menu_order"
	// SortByRandom yields a non-deterministic order. Items can shift between
	// pages when combined with pagination.
	SortByRandom SortField = "rand"
)

// ParseSortField accepts the canonical names plus the "random" and "manual" aliases.
func ParseSortField(s string) (SortField, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "date":
		return SortByDate, true
	case "title":
		return SortByTitle, true
	case "menu_order", "manual":
		return SortByMenuOrder, true
	case "rand", "random":
		return SortByRandom, true
	}
	return "", false
}

// SortDirection is ASC or DESC.
type SortDirection string

const (
	SortAsc  SortDirection = "ASC"
	SortDesc SortDirection = "DESC"
)

// ParseSortDirection is case-insensitive.
func ParseSortDirection(s string) (SortDirection, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ASC":
		return SortAsc, true
	case "DESC":
		return SortDesc, true
	}
	return "", false
}

const (
	// PageSizeAll disables pagination: every matching story is returned on page 1.
	PageSizeAll = -1

	DefaultPageSize = 9
	DefaultColumns  = 3
	MinColumns      = 1
	MaxColumns      = 4
)

// ListingDefaults holds the values applied when a criteria field is missing or invalid.
type ListingDefaults struct {
	PageSize      int
	Columns       int
	SortField     SortField
	SortDirection SortDirection
}

// DefaultListing returns the built-in listing defaults.
func DefaultListing() ListingDefaults {
	return ListingDefaults{
		PageSize:      DefaultPageSize,
		Columns:       DefaultColumns,
		SortField:     SortByDate,
		SortDirection: SortDesc,
	}
}

// FilterCriteria describes one listing request.
type FilterCriteria struct {
	// Category is a category slug. Empty means no category filter.
	Category      string
	Page          int
	PageSize      int
	Columns       int
	SortField     SortField
	SortDirection SortDirection
}

// Normalize applies defaults and clamps values. Missing or invalid pages become 1,
// column counts outside 1..4 fall back to the default, non-positive page sizes
// (other than PageSizeAll) fall back to the default.
func (c *FilterCriteria) Normalize(d ListingDefaults) {
	if d.PageSize == 0 {
		d.PageSize = DefaultPageSize
	}
	if d.Columns < MinColumns || d.Columns > MaxColumns {
		d.Columns = DefaultColumns
	}
	if _, ok := ParseSortField(string(d.SortField)); !ok {
		d.SortField = SortByDate
	}
	if _, ok := ParseSortDirection(string(d.SortDirection)); !ok {
		d.SortDirection = SortDesc
	}

	c.Category = NormalizeSlug(c.Category)

	if c.Page < 1 {
		c.Page = 1
	}

	if c.PageSize < 1 && c.PageSize != PageSizeAll {
		c.PageSize = d.PageSize
	}

	if c.Columns < MinColumns || c.Columns > MaxColumns {
		c.Columns = d.Columns
	}

	if f, ok := ParseSortField(string(c.SortField)); ok {
		c.SortField = f
	} else {
		c.SortField = d.SortField
	}

	if dir, ok := ParseSortDirection(string(c.SortDirection)); ok {
		c.SortDirection = dir
	} else {
		c.SortDirection = d.SortDirection
	}
}

// Unbounded reports whether the criteria requests every item on one page.
func (c FilterCriteria) Unbounded() bool {
	return c.PageSize == PageSizeAll
}

// Offset is the number of items skipped before the requested page.
func (c FilterCriteria) Offset() int {
	if c.Unbounded() || c.Page < 1 {
		return 0
	}
	return (c.Page - 1) * c.PageSize
}

// QueryResult is one page of a listing query.
type QueryResult struct {
	Items    []Story
	Total    int
	Pages    int
	Page     int
	PageSize int
}

// PageCount returns ceil(total/pageSize). An unbounded page size yields a single
// page when anything matched.
func PageCount(total, pageSize int) int {
	if total <= 0 {
		return 0
	}
	if pageSize == PageSizeAll || pageSize <= 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}

// Query parameter names shared by pages, pagination links and history entries.
const (
	ParamCategory = "cpht_category"
	ParamPage     = "paged"
	// ParamPageAlt is accepted when reading links back.
	ParamPageAlt = "page"
)

// NavigationState is the category/page pair mirrored into browser history.
type NavigationState struct {
	Category string `json:"category"`
	Page     int    `json:"page"`
}

// Values encodes the state as URL query values. The category is present only
// when non-empty and the page only when greater than 1.
func (s NavigationState) Values() url.Values {
	v := url.Values{}
	if s.Category != "" {
		v.Set(ParamCategory, s.Category)
	}
	if s.Page > 1 {
		v.Set(ParamPage, strconv.Itoa(s.Page))
	}
	return v
}

// URL returns path with the encoded state appended.
func (s NavigationState) URL(path string) string {
	q := s.Values().Encode()
	if q == "" {
		return path
	}
	return path + "?" + q
}

// ParseNavigationState reads a state from query values. Missing or invalid
// pages become 1.
func ParseNavigationState(v url.Values) NavigationState {
	st := NavigationState{
		Category: NormalizeSlug(v.Get(ParamCategory)),
		Page:     ParsePage(v.Get(ParamPage)),
	}
	if st.Page == 1 && v.Get(ParamPage) == "" {
		st.Page = ParsePage(v.Get(ParamPageAlt))
	}
	return st
}

// ParsePage converts a raw page parameter. Anything that is not a positive
// integer yields 1.
func ParsePage(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// ParsePageFromHref extracts the page number from a pagination link target,
// reading "paged" first and "page" second. Unparseable links yield 1.
func ParsePageFromHref(href string) int {
	u, err := url.Parse(href)
	if err != nil {
		return 1
	}
	q := u.Query()
	if raw := q.Get(ParamPage); raw != "" {
		return ParsePage(raw)
	}
	return ParsePage(q.Get(ParamPageAlt))
}
