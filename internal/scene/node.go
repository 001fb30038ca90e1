// Package scene is the renderer-agnostic scene graph produced by the importer.
package scene

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownNodeType is returned for a node type string outside the known set.
var ErrUnknownNodeType = errors.New("unknown node type")

// NodeType is the type tag of a scene node.
type NodeType int

const (
	NodeModel NodeType = iota
	NodeMesh
	NodeLocator
	NodeJoint
	NodeReference
	NodeCollision
	NodeLight
	NodeEmitter
	NodeDecal
	NodeLightVolume
	NodeText
)

var nodeTypeNames = []string{
	NodeModel:       "MODEL",
	NodeMesh:        "MESH",
	NodeLocator:     "LOCATOR",
	NodeJoint:       "JOINT",
	NodeReference:   "REFERENCE",
	NodeCollision:   "COLLISION",
	NodeLight:       "LIGHT",
	NodeEmitter:     "EMITTER",
	NodeDecal:       "DECAL",
	NodeLightVolume: "LIGHTVOLUME",
	NodeText:        "TEXT",
}

// ParseNodeType maps a template type string to its node type. Matching is case-insensitive.
func ParseNodeType(s string) (NodeType, error) {
	up := strings.ToUpper(strings.TrimSpace(s))
	for t, name := range nodeTypeNames {
		if name == up {
			return NodeType(t), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownNodeType, s)
}

// String returns the template spelling of the type.
func (t NodeType) String() string {
	if int(t) >= 0 && int(t) < len(nodeTypeNames) {
		return nodeTypeNames[t]
	}
	return fmt.Sprintf("NodeType(%d)", int(t))
}

// Node is one scene graph node. A node owns its children; Parent and Root are back references.
type Node struct {
	Name     string
	NameHash uint32
	Type     NodeType
	Parent   *Node
	Children []*Node

	// Root is the nearest MODEL ancestor, or the node itself for MODEL nodes.
	Root         *Node
	LODDistances []float32

	components map[ComponentKind]Component
}

// NewNode creates a detached node.
func NewNode(name string, typ NodeType) *Node {
	return &Node{
		Name:       name,
		Type:       typ,
		components: make(map[ComponentKind]Component),
	}
}

// SetParent moves n under p. A nil p detaches n.
func (n *Node) SetParent(p *Node) {
	if n.Parent == p {
		return
	}
	if old := n.Parent; old != nil {
		for i, c := range old.Children {
			if c == n {
				old.Children = append(old.Children[:i], old.Children[i+1:]...)
				break
			}
		}
	}
	n.Parent = p
	if p != nil {
		p.Children = append(p.Children, n)
	}
}

// SortChildren orders children by name using byte-wise comparison.
func (n *Node) SortChildren() {
	sort.SliceStable(n.Children, func(i, j int) bool {
		return n.Children[i].Name < n.Children[j].Name
	})
}

// AddComponent attaches c, replacing any component of the same kind.
func (n *Node) AddComponent(c Component) {
	n.components[c.Kind()] = c
}

// Component returns the component of the given kind.
func (n *Node) Component(kind ComponentKind) (Component, bool) {
	c, ok := n.components[kind]
	return c, ok
}

// HasComponent reports whether a component of the given kind is attached.
func (n *Node) HasComponent(kind ComponentKind) bool {
	_, ok := n.components[kind]
	return ok
}

// RemoveComponent detaches the component of the given kind.
func (n *Node) RemoveComponent(kind ComponentKind) {
	delete(n.components, kind)
}

// Components returns the attached components ordered by kind.
func (n *Node) Components() []Component {
	out := make([]Component, 0, len(n.components))
	for _, c := range n.components {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Kind() < out[j].Kind() })
	return out
}

// Get returns the component of type T attached to n.
func Get[T Component](n *Node) (T, bool) {
	var zero T
	c, ok := n.components[zero.Kind()]
	if !ok {
		return zero, false
	}
	typed, ok := c.(T)
	return typed, ok
}

// Walk visits n and its descendants depth-first, parents before children.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Find returns the first descendant (or n itself) with the given name.
func (n *Node) Find(name string) *Node {
	if n.Name == name {
		return n
	}
	for _, c := range n.Children {
		if found := c.Find(name); found != nil {
			return found
		}
	}
	return nil
}

// Path returns the slash-separated names from the tree root to n.
func (n *Node) Path() string {
	if n.Parent == nil {
		return n.Name
	}
	return n.Parent.Path() + "/" + n.Name
}

// Count returns the number of nodes in the subtree rooted at n.
func (n *Node) Count() int {
	total := 0
	n.Walk(func(*Node) { total++ })
	return total
}
