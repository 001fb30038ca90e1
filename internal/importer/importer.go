// Package importer converts scene templates and geometry files into scene graphs.
package importer

import (
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/nmsimport/internal/engine"
	"github.com/Faultbox/nmsimport/internal/logger"
	"github.com/Faultbox/nmsimport/internal/scene"
	"github.com/Faultbox/nmsimport/internal/template"
	"github.com/Faultbox/nmsimport/internal/texture"
	"github.com/Faultbox/nmsimport/internal/vfs"
	"github.com/Faultbox/nmsimport/pkg/binio"
	"github.com/Faultbox/nmsimport/pkg/formats"
)

// Import errors.
var (
	ErrGeometryNotFound         = errors.New("geometry not found")
	ErrInvalidAttribute         = errors.New("invalid node attribute")
	ErrSkinnedCollision         = errors.New("skinned collision volume")
	ErrUnsupportedNodeType      = errors.New("unsupported node type")
	ErrUnsupportedComponent     = errors.New("unsupported attachment component")
	ErrUnsupportedSampler       = errors.New("unsupported sampler")
	ErrUnsupportedUniform       = errors.New("unsupported uniform")
	ErrUnsupportedCollisionType = errors.New("unsupported collision type")
)

// IsFatal reports whether err aborts a whole import. Everything else is logged and the
// import continues with a degraded node.
func IsFatal(err error) bool {
	return errors.Is(err, ErrSkinnedCollision) ||
		errors.Is(err, ErrUnsupportedNodeType) ||
		errors.Is(err, template.ErrTemplateParse)
}

// isBlobError reports whether err came from decoding a geometry file.
func isBlobError(err error) bool {
	return errors.Is(err, binio.ErrTruncatedStream) ||
		errors.Is(err, formats.ErrUnknownElementType) ||
		errors.Is(err, formats.ErrInvalidGeometry)
}

// Options configures an Importer.
type Options struct {
	VertexShader   string
	FragmentShader string

	// Mixer generates procedural textures. Nil disables generation; samplers are still flagged.
	Mixer   TextureMixer
	Palette Palette

	// Textures is shared between sessions. A fresh manager is created when nil.
	Textures *texture.Manager
}

// Importer holds the collaborators of an import. It is safe to share between goroutines
// as long as its collaborators are.
type Importer struct {
	fs        vfs.FileSystem
	templates template.Loader
	engine    engine.Registry
	textures  *texture.Manager
	opts      Options
}

// New creates an importer. Empty shader sources fall back to the built-in pair.
func New(fs vfs.FileSystem, templates template.Loader, reg engine.Registry, opts Options) *Importer {
	if opts.VertexShader == "" {
		opts.VertexShader = DefaultVertexShader
	}
	if opts.FragmentShader == "" {
		opts.FragmentShader = DefaultFragmentShader
	}
	textures := opts.Textures
	if textures == nil {
		textures = texture.NewManager()
	}
	return &Importer{
		fs:        fs,
		templates: templates,
		engine:    reg,
		textures:  textures,
		opts:      opts,
	}
}

// Textures returns the texture manager shared by this importer's sessions.
func (im *Importer) Textures() *texture.Manager {
	return im.textures
}

// NewSession starts an import session. Close it when done.
func (im *Importer) NewSession() *Session {
	id := uuid.New()
	return &Session{
		im:        im,
		id:        id,
		log:       logger.Named("importer").With(zap.String("session", id.String())),
		clips:     make(map[uint64]*scene.AnimationClip),
		materials: make(map[string]*scene.Material),
		geometry:  make(map[string]*formats.Geometry),
		active:    make(map[string]bool),
	}
}

// ImportScene imports the scene template at path in a fresh session.
func (im *Importer) ImportScene(path string) (*scene.Node, error) {
	s := im.NewSession()
	defer s.Close()
	return s.ImportScene(path)
}
