package template

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Component kinds of an attachment.
const (
	ComponentAnimPose      = "TkAnimPoseComponentData"
	ComponentAnimation     = "TkAnimationComponentData"
	ComponentLOD           = "TkLODComponentData"
	ComponentPhysics       = "TkPhysicsComponentData"
	ComponentTriggerAction = "GcTriggerActionComponentData"
	ComponentEmpty         = "EmptyNode"
)

// Animation play modes.
const (
	AnimLoop    = "Loop"
	AnimOneShot = "OneShot"
)

// Component is one entry of an attachment's component list.
type Component interface {
	ComponentKind() string
}

// AnimationData references one animation curve file and its playback settings.
type AnimationData struct {
	Anim             string  `yaml:"anim"`
	Filename         string  `yaml:"filename"`
	AnimType         string  `yaml:"anim_type"`
	FrameStart       int     `yaml:"frame_start"`
	FrameEnd         int     `yaml:"frame_end"`
	StartNode        string  `yaml:"start_node"`
	ActionFrame      int     `yaml:"action_frame"`
	ActionStartFrame int     `yaml:"action_start_frame"`
	Speed            float32 `yaml:"speed"`
	Active           bool    `yaml:"active"`
	Additive         bool    `yaml:"additive"`
	Mirrored         bool    `yaml:"mirrored"`
}

// AnimationComponent lists the animations of a model.
type AnimationComponent struct {
	Idle  AnimationData   `yaml:"idle"`
	Anims []AnimationData `yaml:"anims"`
}

func (*AnimationComponent) ComponentKind() string { return ComponentAnimation }

// LODComponent lists lower-detail scene files for a model.
type LODComponent struct {
	Models []string `yaml:"lod_models"`
}

func (*LODComponent) ComponentKind() string { return ComponentLOD }

// PhysicsData holds rigid body parameters.
type PhysicsData struct {
	Mass            float32 `yaml:"mass"`
	Friction        float32 `yaml:"friction"`
	RollingFriction float32 `yaml:"rolling_friction"`
	Gravity         float32 `yaml:"gravity"`
}

// PhysicsComponent attaches rigid body parameters.
type PhysicsComponent struct {
	Data PhysicsData `yaml:"data"`
}

func (*PhysicsComponent) ComponentKind() string { return ComponentPhysics }

// TriggerState is one state of a trigger-action machine.
type TriggerState struct {
	ID       string   `yaml:"id"`
	Triggers []string `yaml:"triggers"`
}

// TriggerActionComponent describes interaction states.
type TriggerActionComponent struct {
	States []TriggerState `yaml:"states"`
}

func (*TriggerActionComponent) ComponentKind() string { return ComponentTriggerAction }

// AnimPoseComponent references a pose file.
type AnimPoseComponent struct {
	Filename string `yaml:"filename"`
}

func (*AnimPoseComponent) ComponentKind() string { return ComponentAnimPose }

// EmptyComponent is a placeholder entry.
type EmptyComponent struct{}

func (*EmptyComponent) ComponentKind() string { return ComponentEmpty }

// UnknownComponent keeps the kind of an entry the loader has no type for.
type UnknownComponent struct {
	Type string `yaml:"-"`
}

func (c *UnknownComponent) ComponentKind() string { return c.Type }

var componentTypes = map[string]func() Component{
	ComponentAnimPose:      func() Component { return &AnimPoseComponent{} },
	ComponentAnimation:     func() Component { return &AnimationComponent{} },
	ComponentLOD:           func() Component { return &LODComponent{} },
	ComponentPhysics:       func() Component { return &PhysicsComponent{} },
	ComponentTriggerAction: func() Component { return &TriggerActionComponent{} },
	ComponentEmpty:         func() Component { return &EmptyComponent{} },
}

// Attachment groups the components and LOD distances attached to a scene node.
type Attachment struct {
	Components   []Component
	LodDistances []float32
}

// Kind implements Record.
func (*Attachment) Kind() string { return KindAttachment }

type attachmentYAML struct {
	Components   []yaml.Node `yaml:"components"`
	LodDistances []float32   `yaml:"lod_distances"`
}

// UnmarshalYAML decodes the polymorphic component list by each entry's kind.
func (a *Attachment) UnmarshalYAML(value *yaml.Node) error {
	var raw attachmentYAML
	if err := value.Decode(&raw); err != nil {
		return err
	}

	a.LodDistances = raw.LodDistances
	a.Components = make([]Component, 0, len(raw.Components))
	for i := range raw.Components {
		node := &raw.Components[i]
		var head struct {
			Kind string `yaml:"kind"`
		}
		if err := node.Decode(&head); err != nil {
			return fmt.Errorf("component %d: %w", i, err)
		}
		ctor, ok := componentTypes[head.Kind]
		if !ok {
			a.Components = append(a.Components, &UnknownComponent{Type: head.Kind})
			continue
		}
		c := ctor()
		if err := node.Decode(c); err != nil {
			return fmt.Errorf("component %d (%s): %w", i, head.Kind, err)
		}
		a.Components = append(a.Components, c)
	}
	return nil
}

// MarshalYAML writes each component with its kind tag.
func (a *Attachment) MarshalYAML() (interface{}, error) {
	out := struct {
		Components   []*yaml.Node `yaml:"components"`
		LodDistances []float32    `yaml:"lod_distances,omitempty"`
	}{LodDistances: a.LodDistances}

	for _, c := range a.Components {
		node, err := taggedNode(c.ComponentKind(), c)
		if err != nil {
			return nil, err
		}
		out.Components = append(out.Components, node)
	}
	return out, nil
}
