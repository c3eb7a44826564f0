package render

import (
	"bytes"
	"fmt"
	"html/template"
	"regexp"

	"github.com/heartmarshall/storyfeed/internal/domain"
)

var blockquoteOpen = regexp.MustCompile(`(?i)<blockquote>`)

// Block converts a content block to sanitized HTML. Markdown is rendered first;
// bare blockquotes receive the cpht-blockquote class.
func (r *Renderer) Block(b domain.ContentBlock) (template.HTML, error) {
	body := []byte(b.Body)

	switch b.Format {
	case domain.BlockFormatMarkdown:
		var buf bytes.Buffer
		if err := r.markdown.Convert(body, &buf); err != nil {
			return "", fmt.Errorf("convert markdown block %d: %w", b.Position, err)
		}
		body = buf.Bytes()
	case domain.BlockFormatHTML, "":
	default:
		return "", fmt.Errorf("block %d: unknown format %q", b.Position, b.Format)
	}

	clean := r.sanitizer.SanitizeBytes(body)
	clean = blockquoteOpen.ReplaceAll(clean, []byte(`<blockquote class="cpht-blockquote">`))

	return template.HTML(clean), nil
}
