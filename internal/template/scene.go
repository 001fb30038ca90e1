package template

// Transform is a node's local transform. Rotations are Euler angles in degrees.
type Transform struct {
	TransX float32 `yaml:"trans_x"`
	TransY float32 `yaml:"trans_y"`
	TransZ float32 `yaml:"trans_z"`
	RotX   float32 `yaml:"rot_x"`
	RotY   float32 `yaml:"rot_y"`
	RotZ   float32 `yaml:"rot_z"`
	ScaleX float32 `yaml:"scale_x"`
	ScaleY float32 `yaml:"scale_y"`
	ScaleZ float32 `yaml:"scale_z"`
}

// IdentityTransform has unit scale and no translation or rotation.
func IdentityTransform() Transform {
	return Transform{ScaleX: 1, ScaleY: 1, ScaleZ: 1}
}

// Attribute is one name/value pair of a node's attribute bag.
type Attribute struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

// SceneNode is one node of a scene template tree.
type SceneNode struct {
	Name       string       `yaml:"name"`
	NameHash   uint32       `yaml:"name_hash"`
	Type       string       `yaml:"type"`
	Transform  Transform    `yaml:"transform"`
	Attributes []Attribute  `yaml:"attributes"`
	Children   []*SceneNode `yaml:"children"`
}

// Kind implements Record.
func (*SceneNode) Kind() string { return KindSceneNode }

// AttrAttachment names the attachment template of a node.
const AttrAttachment = "ATTACHMENT"

// Attr returns the first attribute with the given name.
func (n *SceneNode) Attr(name string) (string, bool) {
	for _, a := range n.Attributes {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// AttrMap returns the attribute bag as a map. Later duplicates are ignored.
func (n *SceneNode) AttrMap() map[string]string {
	m := make(map[string]string, len(n.Attributes))
	for _, a := range n.Attributes {
		if _, dup := m[a.Name]; !dup {
			m[a.Name] = a.Value
		}
	}
	return m
}

// Walk visits n and its descendants depth-first.
func (n *SceneNode) Walk(fn func(*SceneNode)) {
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}
