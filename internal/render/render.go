// Package render produces the HTML fragments and pages of the story listing.
// All renderers are pure: the same inputs always yield the same bytes.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

// FilterAction is the anti-forgery action name bound to the filter select.
const FilterAction = "cpht_filter"

// Options configures links and labels shared by all renderers.
type Options struct {
	DateFormat string
	// StoryPath prefixes story permalinks, e.g. "/stories".
	StoryPath string
	// FilterURL is the endpoint the client controller posts filter requests to.
	FilterURL    string
	SiteTitle    string
	HomeURL      string
	HomeLabel    string
	SectionURL   string
	SectionLabel string
}

// Renderer renders listing fragments. Templates are parsed once in New.
type Renderer struct {
	opts      Options
	tmpl      *template.Template
	markdown  goldmark.Markdown
	sanitizer *bluemonday.Policy
}

// New parses the embedded templates.
func New(opts Options) (*Renderer, error) {
	if opts.DateFormat == "" {
		opts.DateFormat = "January 2, 2006"
	}
	opts.StoryPath = strings.TrimRight(opts.StoryPath, "/")

	tmpl, err := template.New("").ParseFS(templateFS, "templates/*.gohtml")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	return &Renderer{
		opts:      opts,
		tmpl:      tmpl,
		markdown:  goldmark.New(goldmark.WithExtensions(extension.GFM)),
		sanitizer: bluemonday.UGCPolicy(),
	}, nil
}

// Options returns the options the renderer was built with.
func (r *Renderer) Options() Options {
	return r.opts
}

// Permalink returns the public URL of a story.
func (r *Renderer) Permalink(slug string) string {
	return r.opts.StoryPath + "/" + slug
}

func (r *Renderer) formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(r.opts.DateFormat)
}

func (r *Renderer) execute(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}
