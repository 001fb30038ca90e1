package scene

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Faultbox/nmsimport/pkg/math"
)

// Scene value errors.
var (
	ErrUnknownAttenuation   = errors.New("unknown light falloff")
	ErrUnknownCollisionType = errors.New("unknown collision type")
)

// Attenuation is a light falloff curve.
type Attenuation int

const (
	AttenuationConstant Attenuation = iota
	AttenuationLinear
	AttenuationQuadratic
)

var attenuationNames = map[string]Attenuation{
	"CONSTANT":  AttenuationConstant,
	"LINEAR":    AttenuationLinear,
	"QUADRATIC": AttenuationQuadratic,
}

// ParseAttenuation maps a falloff attribute to its curve. Matching is case-insensitive.
func ParseAttenuation(s string) (Attenuation, error) {
	a, ok := attenuationNames[strings.ToUpper(s)]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownAttenuation, s)
	}
	return a, nil
}

// LightData describes a light source.
type LightData struct {
	FOV         float32
	Falloff     Attenuation
	FalloffRate float32
	Intensity   float32
	Color       math.Vec3
	Volumetric  float32
	Renderable  bool
}

// LightComponent attaches a light and its gizmo mesh.
type LightComponent struct {
	Mesh *Mesh
	Data LightData
}

func (*LightComponent) Kind() ComponentKind { return KindLight }

// CollisionType is the shape of a collision volume.
type CollisionType int

const (
	CollisionMesh CollisionType = iota
	CollisionCapsule
	CollisionCylinder
	CollisionSphere
	CollisionBox
)

var collisionTypeNames = []string{
	CollisionMesh:     "MESH",
	CollisionCapsule:  "CAPSULE",
	CollisionCylinder: "CYLINDER",
	CollisionSphere:   "SPHERE",
	CollisionBox:      "BOX",
}

// ParseCollisionType maps a TYPE attribute to a collision shape. Matching is case-insensitive.
func ParseCollisionType(s string) (CollisionType, error) {
	up := strings.ToUpper(s)
	for t, name := range collisionTypeNames {
		if name == up {
			return CollisionType(t), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCollisionType, s)
}

// String returns the attribute spelling of the type.
func (t CollisionType) String() string {
	if int(t) >= 0 && int(t) < len(collisionTypeNames) {
		return collisionTypeNames[t]
	}
	return "UNKNOWN"
}

// CollisionComponent describes a collision volume.
type CollisionComponent struct {
	Type   CollisionType
	Radius float32
	Height float32
	Width  float32
	Depth  float32
}

func (*CollisionComponent) Kind() ComponentKind { return KindCollision }
