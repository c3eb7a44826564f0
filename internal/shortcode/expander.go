// Package shortcode expands bracketed embed directives such as
// [cpht_posts columns="2"] inside page bodies.
package shortcode

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"sync"
)

var (
	directiveRe = regexp.MustCompile(`\[([a-z][a-z0-9_]*)((?:\s+[a-zA-Z_][\w-]*\s*=\s*(?:"[^"]*"|'[^']*'|[^\s\]"']+))*)\s*/?\]`)
	attrRe      = regexp.MustCompile(`([a-zA-Z_][\w-]*)\s*=\s*(?:"([^"]*)"|'([^']*)'|([^\s\]"']+))`)
)

// Request carries the page context a directive renders in.
type Request struct {
	// Path is the request path; pager links point back to it.
	Path  string
	Query url.Values
	// Title is the current item title, empty on listing pages.
	Title string
}

// Handler renders one directive occurrence.
type Handler func(ctx context.Context, attrs map[string]string, req Request) (string, error)

// Expander replaces registered directives with their rendered output.
// Unknown directives are left untouched.
type Expander struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewExpander creates an Expander with no directives.
func NewExpander() *Expander {
	return &Expander{handlers: make(map[string]Handler)}
}

// Register binds tag to h. Registering the same tag twice is an error.
func (e *Expander) Register(tag string, h Handler) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.handlers[tag]; ok {
		return fmt.Errorf("directive %q already registered", tag)
	}
	e.handlers[tag] = h
	return nil
}

// Tags returns the registered directive names.
func (e *Expander) Tags() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	tags := make([]string, 0, len(e.handlers))
	for t := range e.handlers {
		tags = append(tags, t)
	}
	return tags
}

// Expand renders every registered directive in body. The first handler error
// aborts expansion.
func (e *Expander) Expand(ctx context.Context, body string, req Request) (string, error) {
	matches := directiveRe.FindAllStringSubmatchIndex(body, -1)
	if len(matches) == 0 {
		return body, nil
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	var b strings.Builder
	last := 0
	for _, m := range matches {
		tag := body[m[2]:m[3]]
		h, ok := e.handlers[tag]
		if !ok {
			continue
		}

		out, err := h(ctx, ParseAttrs(body[m[4]:m[5]]), req)
		if err != nil {
			return "", fmt.Errorf("expand [%s]: %w", tag, err)
		}

		b.WriteString(body[last:m[0]])
		b.WriteString(out)
		last = m[1]
	}
	b.WriteString(body[last:])
	return b.String(), nil
}

// ParseAttrs reads name=value pairs. Names are lowercased; values may be
// double-quoted, single-quoted or bare.
func ParseAttrs(s string) map[string]string {
	attrs := make(map[string]string)
	for _, m := range attrRe.FindAllStringSubmatch(s, -1) {
		val := m[2]
		switch {
		case m[3] != "":
			val = m[3]
		case m[4] != "":
			val = m[4]
		}
		attrs[strings.ToLower(m[1])] = val
	}
	return attrs
}
