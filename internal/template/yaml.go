package template

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/nmsimport/internal/vfs"
)

var recordTypes = map[string]func() Record{
	KindSceneNode:    func() Record { return &SceneNode{} },
	KindMaterial:     func() Record { return &Material{} },
	KindAttachment:   func() Record { return &Attachment{} },
	KindAnimMetadata: func() Record { return &AnimMetadata{} },
}

// YAMLLoader reads templates stored as YAML documents tagged by "kind".
type YAMLLoader struct {
	fs vfs.FileSystem
}

// NewYAMLLoader creates a loader reading through fs.
func NewYAMLLoader(fs vfs.FileSystem) *YAMLLoader {
	return &YAMLLoader{fs: fs}
}

// Load implements Loader.
func (l *YAMLLoader) Load(path string) (Record, error) {
	rs, err := l.fs.Open(path)
	if err != nil {
		if errors.Is(err, vfs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, path)
		}
		return nil, fmt.Errorf("opening template %s: %w", path, err)
	}
	data, err := io.ReadAll(rs)
	if err != nil {
		return nil, fmt.Errorf("reading template %s: %w", path, err)
	}
	rec, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rec, nil
}

// Decode parses one tagged YAML document.
func Decode(data []byte) (Record, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplateParse, err)
	}
	if len(doc.Content) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrTemplateParse)
	}

	var head struct {
		Kind string `yaml:"kind"`
	}
	if err := doc.Decode(&head); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplateParse, err)
	}
	ctor, ok := recordTypes[head.Kind]
	if !ok {
		return nil, fmt.Errorf("%w: unknown record kind %q", ErrTemplateParse, head.Kind)
	}

	rec := ctor()
	if err := doc.Decode(rec); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTemplateParse, head.Kind, err)
	}
	return rec, nil
}

// Encode writes a record as a tagged YAML document.
func Encode(rec Record) ([]byte, error) {
	node, err := taggedNode(rec.Kind(), rec)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(node)
}

// taggedNode encodes v as a mapping whose first key is "kind".
func taggedNode(kind string, v interface{}) (*yaml.Node, error) {
	var node yaml.Node
	if err := node.Encode(v); err != nil {
		return nil, fmt.Errorf("encoding %s: %w", kind, err)
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("encoding %s: not a mapping", kind)
	}
	node.Content = append([]*yaml.Node{
		{Kind: yaml.ScalarNode, Value: "kind"},
		{Kind: yaml.ScalarNode, Value: kind},
	}, node.Content...)
	node.Style = 0
	return &node, nil
}
