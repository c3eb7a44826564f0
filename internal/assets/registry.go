// Package assets serves the embedded static files of the listing pages and
// keeps an explicit registry of which of them a page includes.
package assets

import (
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"fmt"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"sync"
)

//go:embed static
var staticFS embed.FS

// Kind is the type of an asset.
type Kind string

const (
	KindScript Kind = "script"
	KindStyle  Kind = "style"
)

// Asset is one registered static file.
type Asset struct {
	Handle string
	Kind   Kind
	// File is the path inside the embedded static tree, e.g. "js/storyfeed.js".
	File string
	// Deps are handles that must be included before this asset.
	Deps []string
}

// Registry holds explicitly registered assets.
type Registry struct {
	prefix string
	files  fs.FS

	mu      sync.RWMutex
	order   []string
	assets  map[string]Asset
	version map[string]string
}

// NewRegistry creates an empty registry serving files under prefix.
func NewRegistry(prefix string) *Registry {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(fmt.Sprintf("assets: embedded static tree: %v", err))
	}
	return &Registry{
		prefix:  "/" + strings.Trim(prefix, "/") + "/",
		files:   sub,
		assets:  make(map[string]Asset),
		version: make(map[string]string),
	}
}

// Register adds a to the registry. The file must exist in the embedded tree
// and every dependency must already be registered.
func (r *Registry) Register(a Asset) error {
	if a.Handle == "" {
		return fmt.Errorf("asset handle is empty")
	}
	if a.Kind != KindScript && a.Kind != KindStyle {
		return fmt.Errorf("asset %s: unknown kind %q", a.Handle, a.Kind)
	}

	data, err := fs.ReadFile(r.files, a.File)
	if err != nil {
		return fmt.Errorf("asset %s: %w", a.Handle, err)
	}
	sum := sha256.Sum256(data)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.assets[a.Handle]; ok {
		return fmt.Errorf("asset %s already registered", a.Handle)
	}
	for _, d := range a.Deps {
		if _, ok := r.assets[d]; !ok {
			return fmt.Errorf("asset %s: unknown dependency %s", a.Handle, d)
		}
	}

	r.assets[a.Handle] = a
	r.version[a.Handle] = hex.EncodeToString(sum[:])[:12]
	r.order = append(r.order, a.Handle)
	return nil
}

// RegisterDefaults registers the listing stylesheet and filter script.
func (r *Registry) RegisterDefaults() error {
	if err := r.Register(Asset{Handle: "storyfeed-style", Kind: KindStyle, File: "css/storyfeed.css"}); err != nil {
		return err
	}
	return r.Register(Asset{Handle: "storyfeed-filter", Kind: KindScript, File: "js/storyfeed.js"})
}

// URLs returns versioned URLs of every asset of kind in registration order.
// Registration order already satisfies dependencies.
func (r *Registry) URLs(kind Kind) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []string
	for _, h := range r.order {
		a := r.assets[h]
		if a.Kind != kind {
			continue
		}
		out = append(out, r.prefix+a.File+"?ver="+r.version[h])
	}
	return out
}

// Scripts returns the script URLs.
func (r *Registry) Scripts() []string { return r.URLs(KindScript) }

// Styles returns the stylesheet URLs.
func (r *Registry) Styles() []string { return r.URLs(KindStyle) }

// Prefix returns the URL prefix assets are served under.
func (r *Registry) Prefix() string { return r.prefix }

// Handler serves registered assets only; anything else is 404.
func (r *Registry) Handler() http.Handler {
	fileServer := http.StripPrefix(r.prefix, http.FileServerFS(r.files))

	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		file := path.Clean(strings.TrimPrefix(req.URL.Path, r.prefix))
		if !r.registered(file) {
			http.NotFound(w, req)
			return
		}
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		fileServer.ServeHTTP(w, req)
	})
}

func (r *Registry) registered(file string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.assets {
		if a.File == file {
			return true
		}
	}
	return false
}
