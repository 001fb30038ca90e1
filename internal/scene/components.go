package scene

import (
	"github.com/Faultbox/nmsimport/pkg/math"
)

// ComponentKind identifies a component slot on a node.
type ComponentKind int

const (
	KindTransform ComponentKind = iota
	KindMesh
	KindScene
	KindJoint
	KindReference
	KindCollision
	KindLight
	KindAnimation
	KindLODModel
	KindPhysics
	KindTriggerAction
)

var componentKindNames = []string{
	KindTransform:     "transform",
	KindMesh:          "mesh",
	KindScene:         "scene",
	KindJoint:         "joint",
	KindReference:     "reference",
	KindCollision:     "collision",
	KindLight:         "light",
	KindAnimation:     "animation",
	KindLODModel:      "lod-model",
	KindPhysics:       "physics",
	KindTriggerAction: "trigger-action",
}

// String returns the kind name.
func (k ComponentKind) String() string {
	if int(k) >= 0 && int(k) < len(componentKindNames) {
		return componentKindNames[k]
	}
	return "unknown"
}

// Component is data attached to a node. Kind must not dereference its receiver.
type Component interface {
	Kind() ComponentKind
}

// TransformComponent is a node's local transform.
type TransformComponent struct {
	Translation math.Vec3
	Rotation    math.Vec3 // XYZ Euler angles in degrees
	Scale       math.Vec3
	Local       math.Mat4
}

func (*TransformComponent) Kind() ComponentKind { return KindTransform }

// MeshComponent attaches renderable or debug geometry.
type MeshComponent struct {
	Mesh *Mesh
}

func (*MeshComponent) Kind() ComponentKind { return KindMesh }

// SceneComponent marks a scene root and lists every node built under it.
type SceneComponent struct {
	Geometry  string
	NumLODs   int
	MeshGroup *MeshGroup
	Nodes     []*Node
}

func (*SceneComponent) Kind() ComponentKind { return KindScene }

// AddNode records a descendant of the scene root.
func (c *SceneComponent) AddNode(n *Node) {
	c.Nodes = append(c.Nodes, n)
}

// JointComponent marks a skeleton joint.
type JointComponent struct {
	Index int32
	Mesh  *Mesh
}

func (*JointComponent) Kind() ComponentKind { return KindJoint }

// ReferenceComponent records the scene file embedded under a REFERENCE node.
type ReferenceComponent struct {
	Path string
}

func (*ReferenceComponent) Kind() ComponentKind { return KindReference }

// PhysicsComponent holds rigid body parameters.
type PhysicsComponent struct {
	Mass            float32
	Friction        float32
	RollingFriction float32
	Gravity         float32
}

func (*PhysicsComponent) Kind() ComponentKind { return KindPhysics }

// TriggerActionComponent lists the interaction states of a node.
type TriggerActionComponent struct {
	States []string
}

func (*TriggerActionComponent) Kind() ComponentKind { return KindTriggerAction }

// LODModelResource is one lower-detail scene imported for a model.
type LODModelResource struct {
	FileName string
	Scene    *Node
}

// LODModelComponent lists the LOD scenes of a model.
type LODModelComponent struct {
	Resources []LODModelResource
}

func (*LODModelComponent) Kind() ComponentKind { return KindLODModel }

// AnimComponent binds animation clips to a scene root and its mesh group.
type AnimComponent struct {
	Root   *Node
	Group  *MeshGroup
	Clips  []*AnimationClip
	ByName map[string]*AnimationClip
}

func (*AnimComponent) Kind() ComponentKind { return KindAnimation }

// NewAnimComponent creates an empty animation component.
func NewAnimComponent(root *Node, group *MeshGroup) *AnimComponent {
	return &AnimComponent{Root: root, Group: group, ByName: make(map[string]*AnimationClip)}
}

// Add appends a clip and indexes it by name.
func (c *AnimComponent) Add(clip *AnimationClip) {
	c.Clips = append(c.Clips, clip)
	c.ByName[clip.MetaData.Name] = clip
}
