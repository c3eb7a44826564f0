package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DefinitionKind distinguishes the two schema documents kept on disk.
type DefinitionKind string

const (
	KindPostType   DefinitionKind = "post_type"
	KindFieldGroup DefinitionKind = "field_group"
)

// IsValid reports whether k is a known definition kind.
func (k DefinitionKind) IsValid() bool {
	return k == KindPostType || k == KindFieldGroup
}

// FieldSpec is one field of a field group document.
type FieldSpec struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Name  string `json:"name"`
	Type  string `json:"type"`
}

// Definition is a versioned schema document: either the content-type schema or
// the editable field group. Registry rows carry ID, import metadata and
// CreatedAt; on-disk documents only carry the document fields.
type Definition struct {
	ID       uuid.UUID
	Kind     DefinitionKind
	Key      string
	Title    string
	Modified int64
	Fields   []FieldSpec
	// Raw holds the complete document as read from disk.
	Raw json.RawMessage

	ImportSource string
	ImportedAt   *time.Time
	CreatedAt    time.Time
}

// Validate checks the fields every document must carry.
func (d Definition) Validate() error {
	var errs []FieldError
	if !d.Kind.IsValid() {
		errs = append(errs, FieldError{Field: "kind", Message: fmt.Sprintf("unknown kind %q", d.Kind)})
	}
	if d.Key == "" {
		errs = append(errs, FieldError{Field: "key", Message: "required"})
	}
	if d.Title == "" {
		errs = append(errs, FieldError{Field: "title", Message: "required"})
	}
	if len(errs) > 0 {
		return NewValidationErrors(errs)
	}
	return nil
}

// InSync reports whether a registry copy matches the on-disk document version.
func (d Definition) InSync(live Definition) bool {
	return d.Key == live.Key && d.Modified == live.Modified
}
