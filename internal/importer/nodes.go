package importer

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/nmsimport/internal/engine"
	"github.com/Faultbox/nmsimport/internal/scene"
	"github.com/Faultbox/nmsimport/internal/template"
	"github.com/Faultbox/nmsimport/pkg/formats"
	"github.com/Faultbox/nmsimport/pkg/math"
	"github.com/Faultbox/nmsimport/pkg/primitives"
)

// buildContext is the per-subtree state passed down the recursion.
type buildContext struct {
	geom   *formats.Geometry
	parent *scene.Node
	root   *scene.Node // nearest MODEL ancestor
}

// nodeBuilder attaches the type-specific components of a node. A recoverable error leaves
// the node in place without those components.
type nodeBuilder func(s *Session, n *scene.Node, t *template.SceneNode, ctx *buildContext) error

var nodeBuilders map[scene.NodeType]nodeBuilder

// The table is filled in init because REFERENCE nodes recurse back into buildNode.
func init() {
	nodeBuilders = map[scene.NodeType]nodeBuilder{
		scene.NodeMesh:        buildMesh,
		scene.NodeModel:       buildModel,
		scene.NodeLocator:     buildLocator,
		scene.NodeJoint:       buildJoint,
		scene.NodeReference:   buildReference,
		scene.NodeCollision:   buildCollision,
		scene.NodeLight:       buildLight,
		scene.NodeEmitter:     unsupportedNode,
		scene.NodeDecal:       unsupportedNode,
		scene.NodeLightVolume: unsupportedNode,
		scene.NodeText:        unsupportedNode,
	}
}

func (s *Session) buildNode(t *template.SceneNode, ctx buildContext) (*scene.Node, error) {
	typ, err := scene.ParseNodeType(t.Type)
	if err != nil {
		return nil, fmt.Errorf("%w: node %s: %v", ErrUnsupportedNodeType, t.Name, err)
	}
	s.log.Debug("building node", zap.String("node", t.Name), zap.Stringer("type", typ))

	n := scene.NewNode(t.Name, typ)
	n.NameHash = t.NameHash
	n.AddComponent(transformFromTemplate(t.Transform))

	if err := nodeBuilders[typ](s, n, t, &ctx); err != nil {
		if IsFatal(err) {
			return nil, err
		}
		s.log.Warn("node built without its components", zap.String("node", t.Name), zap.Error(err))
	}

	if ctx.parent != nil {
		n.SetParent(ctx.parent)
	}
	n.Root = ctx.root
	if ctx.root != nil {
		if sc, ok := scene.Get[*scene.SceneComponent](ctx.root); ok {
			sc.AddNode(n)
		}
	}

	if err := s.processAttachment(n, t); err != nil {
		return nil, err
	}
	s.register(n)

	child := ctx
	child.parent = n
	for _, c := range t.Children {
		if _, err := s.buildNode(c, child); err != nil {
			return nil, err
		}
	}
	n.SortChildren()
	return n, nil
}

// transformFromTemplate applies the rotation in Y-X-Z order and stores it as XYZ Euler degrees.
func transformFromTemplate(tr template.Transform) *scene.TransformComponent {
	// "YXZ" is always a supported order.
	q, _ := math.QuatFromEuler(math.Radians(tr.RotX), math.Radians(tr.RotY), math.Radians(tr.RotZ), "YXZ")
	e := q.ToEulerXYZ()

	tc := &scene.TransformComponent{
		Translation: math.Vec3{X: tr.TransX, Y: tr.TransY, Z: tr.TransZ},
		Rotation:    math.Vec3{X: math.Degrees(e.X), Y: math.Degrees(e.Y), Z: math.Degrees(e.Z)},
		Scale:       math.Vec3{X: tr.ScaleX, Y: tr.ScaleY, Z: tr.ScaleZ},
	}
	tc.Local = math.Compose(tc.Translation, q, tc.Scale)
	return tc
}

func identityTransform() *scene.TransformComponent {
	return transformFromTemplate(template.IdentityTransform())
}

func (s *Session) primitive(name string) *scene.Mesh {
	m, ok := s.im.engine.PrimitiveMesh(name)
	if !ok {
		s.log.Warn("primitive mesh missing", zap.String("primitive", name))
	}
	return m
}

func (s *Session) builtinMaterial(name string) *scene.Material {
	m, ok := s.im.engine.MaterialByName(name)
	if !ok {
		s.log.Warn("built-in material missing", zap.String("material", name))
	}
	return m
}

func buildMesh(s *Session, n *scene.Node, t *template.SceneNode, ctx *buildContext) error {
	a, err := parseMeshAttrs(t)
	if err != nil {
		return err
	}
	if ctx.geom == nil || s.meshGroup == nil {
		return fmt.Errorf("%w: mesh %s has no geometry", ErrGeometryNotFound, n.Name)
	}
	slice, ok := ctx.geom.Slice(a.meta.Hash)
	if !ok {
		return fmt.Errorf("%w: mesh %s: slice %d not in %s", ErrGeometryNotFound, n.Name, a.meta.Hash, ctx.geom.Name)
	}

	mat, err := s.BuildMaterial(a.Material)
	if err != nil {
		return err
	}

	meta := a.meta
	meta.BoneRemapIndices = s.meshGroup.RemapRange(meta.FirstSkinMat, meta.LastSkinMat)
	s.log.Debug("mesh ranges", zap.String("node", n.Name),
		zap.Int32("batch_start", meta.BatchStartGraphics), zap.Int32("batch_count", meta.BatchCount),
		zap.Int32("first_skin_mat", meta.FirstSkinMat), zap.Int32("last_skin_mat", meta.LastSkinMat))

	mesh := &scene.Mesh{
		Hash:     meta.Fingerprint() ^ slice.Hash,
		Type:     scene.MeshDefault,
		Data:     scene.MeshDataFromSlice(slice, ctx.geom),
		MetaData: &meta,
		Material: mat,
	}
	s.meshGroup.AddMesh(mesh)
	n.AddComponent(&scene.MeshComponent{Mesh: mesh})
	return nil
}

func buildModel(s *Session, n *scene.Node, t *template.SceneNode, ctx *buildContext) error {
	a, err := parseModelAttrs(t)
	if err != nil {
		return err
	}
	n.AddComponent(&scene.MeshComponent{Mesh: s.primitive(engine.PrimitiveCross)})
	n.AddComponent(&scene.SceneComponent{
		Geometry:  a.Geometry,
		NumLODs:   a.NumLODs,
		MeshGroup: s.meshGroup,
	})
	n.LODDistances = append(n.LODDistances, a.LODDistances...)
	ctx.root = n
	return nil
}

func buildLocator(s *Session, n *scene.Node, _ *template.SceneNode, _ *buildContext) error {
	n.AddComponent(&scene.MeshComponent{Mesh: s.primitive(engine.PrimitiveCross)})
	return nil
}

func buildJoint(s *Session, n *scene.Node, t *template.SceneNode, _ *buildContext) error {
	a, err := parseJointAttrs(t)
	if err != nil {
		return err
	}
	n.AddComponent(&scene.JointComponent{Index: a.Index, Mesh: s.primitive(engine.PrimitiveCross)})
	return nil
}

func buildReference(s *Session, n *scene.Node, t *template.SceneNode, _ *buildContext) error {
	a, err := parseReferenceAttrs(t)
	if err != nil {
		return err
	}
	n.AddComponent(&scene.ReferenceComponent{Path: a.SceneGraph})

	sub, err := s.importScoped(a.SceneGraph)
	if err != nil {
		return err
	}
	sub.SetParent(n)
	return nil
}

// collisionShapes builds the procedural volume of each primitive collision type.
var collisionShapes = map[scene.CollisionType]func(a collisionAttrs) *primitives.Shape{
	scene.CollisionCapsule: func(a collisionAttrs) *primitives.Shape {
		return primitives.Capsule(math.Vec3{}, a.Height, a.Radius)
	},
	scene.CollisionCylinder: func(a collisionAttrs) *primitives.Shape {
		return primitives.Cylinder(a.Radius, a.Height)
	},
	scene.CollisionSphere: func(a collisionAttrs) *primitives.Shape {
		return primitives.Sphere(math.Vec3{}, a.Radius)
	},
	scene.CollisionBox: func(a collisionAttrs) *primitives.Shape {
		return primitives.Box(a.Width, a.Height, a.Depth)
	},
}

func buildCollision(s *Session, n *scene.Node, t *template.SceneNode, ctx *buildContext) error {
	a, err := parseCollisionAttrs(t)
	if err != nil {
		return err
	}
	typ, err := scene.ParseCollisionType(a.Type)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUnsupportedCollisionType, n.Name, err)
	}
	if a.LastSkinMat-a.FirstSkinMat > 0 {
		return fmt.Errorf("%w: %s uses skin matrices %d..%d", ErrSkinnedCollision, n.Name, a.FirstSkinMat, a.LastSkinMat)
	}

	mesh := &scene.Mesh{Type: scene.MeshCollision, Material: s.builtinMaterial(engine.CollisionMaterial)}
	cc := &scene.CollisionComponent{Type: typ, Radius: a.Radius, Height: a.Height, Width: a.Width, Depth: a.Depth}

	if typ == scene.CollisionMesh {
		if ctx.geom == nil {
			return fmt.Errorf("%w: collision %s has no geometry", ErrGeometryNotFound, n.Name)
		}
		cs, err := ctx.geom.CollisionSlice(a.BatchStart, a.BatchCount, a.VertStart, a.VertEnd, a.HullStart, a.HullEnd)
		if err != nil {
			return fmt.Errorf("collision %s: %w", n.Name, err)
		}
		meta := a.metaData()
		mesh.MetaData = &meta
		mesh.Data = scene.MeshDataFromCollision(n.Name, cs)
	} else {
		shape := collisionShapes[typ](a)
		mesh.MetaData = scene.MetaDataFromShape(shape)
		mesh.Data = scene.MeshDataFromShape(shape)
	}
	mesh.Hash = mesh.MetaData.Fingerprint() ^ scene.HashString("Collision"+typ.String())

	n.AddComponent(&scene.MeshComponent{Mesh: mesh})
	n.AddComponent(cc)
	return nil
}

func buildLight(s *Session, n *scene.Node, t *template.SceneNode, _ *buildContext) error {
	a, err := parseLightAttrs(t)
	if err != nil {
		return err
	}

	line := primitives.LineSegment(math.Vec3{}, math.Vec3{X: 1})
	n.AddComponent(&scene.MeshComponent{Mesh: &scene.Mesh{
		Hash:     scene.HashString(n.Name) ^ scene.HashString("Light"),
		Type:     scene.MeshLight,
		Data:     scene.MeshDataFromShape(line),
		MetaData: scene.MetaDataFromShape(line),
		Material: s.builtinMaterial(engine.LightMaterial),
	}})
	n.AddComponent(&scene.LightComponent{
		Mesh: s.primitive(engine.PrimitiveLightSphere),
		Data: scene.LightData{
			FOV:         a.FOV,
			Falloff:     a.Falloff,
			FalloffRate: a.FalloffRate,
			Intensity:   a.Intensity,
			Color:       a.Color,
			Volumetric:  a.Volumetric,
			Renderable:  true,
		},
	})
	return nil
}

func unsupportedNode(s *Session, n *scene.Node, _ *template.SceneNode, _ *buildContext) error {
	s.log.Warn("node type not supported, no components built", zap.String("node", n.Name), zap.Stringer("type", n.Type))
	return nil
}
