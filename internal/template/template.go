// Package template defines the typed scene-template records the importer consumes
// and a loader that reads them from the virtual file system.
package template

import (
	"errors"
	"fmt"
)

// Template errors.
var (
	ErrTemplateNotFound = errors.New("template not found")
	ErrTemplateParse    = errors.New("template parse error")
)

// Record kinds.
const (
	KindSceneNode    = "TkSceneNodeData"
	KindMaterial     = "TkMaterialData"
	KindAttachment   = "TkAttachmentData"
	KindAnimMetadata = "TkAnimMetadata"
)

// Record is one decoded template file.
type Record interface {
	Kind() string
}

// Loader resolves a template path to its record.
type Loader interface {
	Load(path string) (Record, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(path string) (Record, error)

// Load calls f(path).
func (f LoaderFunc) Load(path string) (Record, error) {
	return f(path)
}

// LoadAs loads a template and asserts its record type.
// A record of another kind is reported as ErrTemplateParse.
func LoadAs[T Record](l Loader, path string) (T, error) {
	var zero T
	rec, err := l.Load(path)
	if err != nil {
		return zero, err
	}
	typed, ok := rec.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s holds %s, want %s", ErrTemplateParse, path, rec.Kind(), zero.Kind())
	}
	return typed, nil
}
