package domain

import (
	"time"

	"github.com/google/uuid"
)

// PostType is the fixed content type served by the listing engine.
const PostType = "cpht_post"

// BlockFormat is the markup format of a content block body.
type BlockFormat string

const (
	BlockFormatHTML     BlockFormat = "html"
	BlockFormatMarkdown BlockFormat = "markdown"
)

// IsValid reports whether f is a known block format.
func (f BlockFormat) IsValid() bool {
	switch f {
	case BlockFormatHTML, BlockFormatMarkdown:
		return true
	}
	return false
}

// Image is a featured-image reference.
type Image struct {
	URL string
	Alt string
}

// ContentBlock is one rich-text section of a story body.
type ContentBlock struct {
	StoryID  uuid.UUID
	Position int
	Format   BlockFormat
	Body     string
}

// Story is a single published item of the fixed content type.
// Stories are authored elsewhere and are read-only here.
type Story struct {
	ID          uuid.UUID
	Slug        string
	Title       string
	PublishedAt time.Time
	// Date is the optional display date field; nil when the author left it empty.
	Date       *time.Time
	MenuOrder  int
	Image      *Image
	Excerpt    string
	Blocks     []ContentBlock
	Categories []Category
}

// HasImage reports whether the story carries a featured image.
func (s Story) HasImage() bool {
	return s.Image != nil && s.Image.URL != ""
}

// InCategory reports whether the story is assigned the category with the given slug.
func (s Story) InCategory(slug string) bool {
	for _, c := range s.Categories {
		if c.Slug == slug {
			return true
		}
	}
	return false
}
