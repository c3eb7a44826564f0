// Package defstore reads the on-disk definition documents. Documents are
// authored and versioned outside the service and never written at runtime.
package defstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/heartmarshall/storyfeed/internal/config"
	"github.com/heartmarshall/storyfeed/internal/domain"
)

// Load failures. Each is wrapped with the document path.
var (
	ErrDocumentNotFound  = errors.New("definition document not found")
	ErrDocumentEmpty     = errors.New("definition document is empty")
	ErrDocumentMalformed = errors.New("definition document is malformed")
	ErrDocumentInvalid   = errors.New("definition document is invalid")
)

const (
	indexFile    = "index.html"
	htaccessFile = ".htaccess"

	htaccessBody = "<Files *.json>\n    Order allow,deny\n    Deny from all\n</Files>\n"
)

// Store locates definition documents inside one directory.
type Store struct {
	dir   string
	files map[domain.DefinitionKind]string
}

// New creates a Store from the definitions config section.
func New(cfg config.DefinitionsConfig) *Store {
	return &Store{
		dir: cfg.Dir,
		files: map[domain.DefinitionKind]string{
			domain.KindPostType:   cfg.PostTypeFile,
			domain.KindFieldGroup: cfg.FieldGroupFile,
		},
	}
}

// Dir returns the storage directory.
func (s *Store) Dir() string { return s.dir }

// Path returns the document path for kind.
func (s *Store) Path(kind domain.DefinitionKind) string {
	return filepath.Join(s.dir, s.files[kind])
}

// KindOf maps a file name inside the directory back to its kind.
func (s *Store) KindOf(name string) (domain.DefinitionKind, bool) {
	base := filepath.Base(name)
	for k, f := range s.files {
		if f == base {
			return k, true
		}
	}
	return "", false
}

// EnsureStorageLocation creates the directory when missing. On creation it
// writes an empty index.html and an .htaccess that denies access to *.json.
// Calling it on an existing directory is a no-op.
func (s *Store) EnsureStorageLocation() (created bool, err error) {
	info, err := os.Stat(s.dir)
	switch {
	case err == nil && info.IsDir():
		return false, nil
	case err == nil:
		return false, fmt.Errorf("defstore: %s exists and is not a directory", s.dir)
	case !errors.Is(err, fs.ErrNotExist):
		return false, fmt.Errorf("defstore: stat %s: %w", s.dir, err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return false, fmt.Errorf("defstore: create %s: %w", s.dir, err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, indexFile), nil, 0o644); err != nil {
		return true, fmt.Errorf("defstore: write %s: %w", indexFile, err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, htaccessFile), []byte(htaccessBody), 0o644); err != nil {
		return true, fmt.Errorf("defstore: write %s: %w", htaccessFile, err)
	}
	return true, nil
}

// document is the subset of the on-disk format the service reads.
type document struct {
	Key      string             `json:"key"`
	Title    string             `json:"title"`
	Modified int64              `json:"modified"`
	Fields   []domain.FieldSpec `json:"fields"`
}

// Load reads and decodes the document for kind.
func (s *Store) Load(kind domain.DefinitionKind) (domain.Definition, error) {
	if !kind.IsValid() {
		return domain.Definition{}, fmt.Errorf("defstore: kind %q: %w", kind, ErrDocumentInvalid)
	}
	path := s.Path(kind)

	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.Definition{}, fmt.Errorf("defstore: %s: %w", path, ErrDocumentNotFound)
	}
	if err != nil {
		return domain.Definition{}, fmt.Errorf("defstore: read %s: %w", path, err)
	}

	return Decode(kind, path, raw)
}

// Decode parses a document body. path is used only in error messages.
func Decode(kind domain.DefinitionKind, path string, raw []byte) (domain.Definition, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return domain.Definition{}, fmt.Errorf("defstore: %s: %w", path, ErrDocumentEmpty)
	}

	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return domain.Definition{}, fmt.Errorf("defstore: %s: %w: %v", path, ErrDocumentMalformed, err)
	}

	if doc.Key == "" {
		return domain.Definition{}, fmt.Errorf("defstore: %s: %w: missing key", path, ErrDocumentInvalid)
	}

	d := domain.Definition{
		Kind:     kind,
		Key:      doc.Key,
		Title:    doc.Title,
		Modified: doc.Modified,
		Raw:      json.RawMessage(raw),
	}
	if kind == domain.KindFieldGroup {
		d.Fields = doc.Fields
	}
	if d.Title == "" {
		d.Title = d.Key
	}
	return d, nil
}
