package importer

import (
	"errors"
	"slices"
	"testing"

	"github.com/chewxy/math32"

	"github.com/Faultbox/nmsimport/internal/engine"
	"github.com/Faultbox/nmsimport/internal/scene"
	"github.com/Faultbox/nmsimport/internal/template"
	"github.com/Faultbox/nmsimport/pkg/formats"
	"github.com/Faultbox/nmsimport/pkg/formats/geomtest"
	"github.com/Faultbox/nmsimport/pkg/math"
	"github.com/Faultbox/nmsimport/pkg/primitives"
)

type sceneResult struct {
	root    *scene.Node
	session *Session
}

func child(t *testing.T, n *scene.Node, name string) *scene.Node {
	t.Helper()
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("%s has no child %q", n.Name, name)
	return nil
}

func meshOf(t *testing.T, n *scene.Node) *scene.Mesh {
	t.Helper()
	mc, ok := scene.Get[*scene.MeshComponent](n)
	if !ok || mc.Mesh == nil {
		t.Fatalf("%s has no mesh component", n.Name)
	}
	return mc.Mesh
}

func near(a, b float32) bool {
	return math32.Abs(a-b) < 1e-3
}

// rockScene is a MODEL with one of each buildable node type, listed out of name order.
func rockScene(children ...*template.SceneNode) *template.SceneNode {
	base := []*template.SceneNode{
		tnode("b_mesh", "MESH", attrs(
			"MATERIAL", matPath, "HASH", "161",
			"BATCHSTARTGRAPH", "0", "BATCHCOUNT", "3",
			"FIRSTSKINMAT", "0", "LASTSKINMAT", "2",
		)),
		tnode("_x", "LOCATOR", nil),
		tnode("a", "JOINT", attrs("JOINTINDEX", "3")),
		tnode("B", "LIGHT", attrs("FOV", "360", "FALLOFF", "quadratic", "INTENSITY", "2", "COL_R", "1")),
	}
	return tnode("ROCK", "MODEL", attrs("GEOMETRY", geomPath, "NUMLODS", "2", "LODDIST1", "40"),
		append(base, children...)...)
}

func rockMaterial() *template.Material {
	return &template.Material{
		Name:  "ROCK",
		Class: "Opaque",
		Flags: []string{template.FlagDiffuseMap, template.FlagNormalMap},
	}
}

func TestImportScene_Hierarchy(t *testing.T) {
	h := newHarness(t)
	h.geometry(geomPath, testBlob())
	h.put(scenePath, rockScene())
	h.put(matPath, rockMaterial())

	res := h.importScene(scenePath)
	root := res.root

	var names []string
	for _, c := range root.Children {
		names = append(names, c.Name)
	}
	if want := []string{"B", "_x", "a", "b_mesh"}; !slices.Equal(names, want) {
		t.Errorf("children = %v, want %v", names, want)
	}

	root.Walk(func(n *scene.Node) {
		if !slices.IsSortedFunc(n.Children, func(a, b *scene.Node) int {
			switch {
			case a.Name < b.Name:
				return -1
			case a.Name > b.Name:
				return 1
			}
			return 0
		}) {
			t.Errorf("children of %s not sorted", n.Name)
		}
		if n.Root != root {
			t.Errorf("%s.Root = %v, want the model", n.Name, n.Root)
		}
		if _, ok := scene.Get[*scene.TransformComponent](n); !ok {
			t.Errorf("%s has no transform", n.Name)
		}
	})

	sc, ok := scene.Get[*scene.SceneComponent](root)
	if !ok {
		t.Fatal("root has no scene component")
	}
	if len(sc.Nodes) != 5 || sc.NumLODs != 2 {
		t.Errorf("scene component lists %d nodes with %d LODs, want 5 and 2", len(sc.Nodes), sc.NumLODs)
	}
	if !slices.Equal(root.LODDistances, []float32{40}) {
		t.Errorf("LODDistances = %v, want [40]", root.LODDistances)
	}
	if got := h.catalog.Stats().Entities; got != 5 {
		t.Errorf("registered %d entities, want 5", got)
	}

	joint, ok := scene.Get[*scene.JointComponent](child(t, root, "a"))
	if !ok || joint.Index != 3 {
		t.Errorf("joint component = %+v, %v", joint, ok)
	}
	light, ok := scene.Get[*scene.LightComponent](child(t, root, "B"))
	if !ok || light.Data.Falloff != scene.AttenuationQuadratic || light.Data.FOV != 360 || light.Data.Color.X != 1 {
		t.Errorf("light component = %+v, %v", light, ok)
	}
	if m := meshOf(t, child(t, root, "B")); m.Type != scene.MeshLight || m.Data.Topology != primitives.Lines {
		t.Errorf("light mesh type %v topology %v", m.Type, m.Data.Topology)
	}
	if m := meshOf(t, child(t, root, "_x")); m.Type != scene.MeshPrimitive {
		t.Errorf("locator mesh type = %v, want primitive", m.Type)
	}
}

func TestImportScene_BoneRemap(t *testing.T) {
	tests := []struct {
		name        string
		first, last string
		want        []int32
	}{
		{"full table", "0", "2", []int32{5, 9}},
		{"offset", "1", "2", []int32{9}},
		{"past the table", "0", "4", []int32{5, 9, 0, 0}},
		{"unskinned", "0", "0", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.geometry(geomPath, testBlob())
			h.put(scenePath, tnode("ROCK", "MODEL", attrs("GEOMETRY", geomPath),
				tnode("MESH", "MESH", attrs(
					"MATERIAL", matPath, "HASH", "161",
					"BATCHSTARTGRAPH", "0", "BATCHCOUNT", "3",
					"FIRSTSKINMAT", tt.first, "LASTSKINMAT", tt.last,
				)),
			))
			h.put(matPath, rockMaterial())

			res := h.importScene(scenePath)
			mesh := meshOf(t, child(t, res.root, "MESH"))
			if !slices.Equal(mesh.MetaData.BoneRemapIndices, tt.want) {
				t.Errorf("BoneRemapIndices = %v, want %v", mesh.MetaData.BoneRemapIndices, tt.want)
			}
		})
	}
}

func TestImportScene_MeshData(t *testing.T) {
	h := newHarness(t)
	h.geometry(geomPath, testBlob())
	h.put(scenePath, rockScene())
	h.put(matPath, rockMaterial())

	res := h.importScene(scenePath)
	mesh := meshOf(t, child(t, res.root, "b_mesh"))

	if mesh.Type != scene.MeshDefault {
		t.Errorf("Type = %v, want default", mesh.Type)
	}
	if mesh.Data.VertexCount != 4 || mesh.Data.IndexWidth != 2 || mesh.Data.IndexCount() != 6 {
		t.Errorf("data = %d vertices, width %d, %d indices", mesh.Data.VertexCount, mesh.Data.IndexWidth, mesh.Data.IndexCount())
	}
	if mesh.Data.VertexStride != 0x24 || len(mesh.Data.Layout) != 5 {
		t.Errorf("stride %#x with %d layout entries", mesh.Data.VertexStride, len(mesh.Data.Layout))
	}
	if want := mesh.MetaData.Fingerprint() ^ 0xA1; mesh.Hash != want {
		t.Errorf("Hash = %#x, want %#x", mesh.Hash, want)
	}

	sc, _ := scene.Get[*scene.SceneComponent](res.root)
	if mesh.Group == nil || mesh.Group != sc.MeshGroup {
		t.Fatal("mesh is not in the model's mesh group")
	}
	if len(mesh.Group.Meshes) != 1 || mesh.Group.Meshes[0] != mesh {
		t.Errorf("mesh group holds %d meshes", len(mesh.Group.Meshes))
	}
	if mesh.Material == nil || mesh.Material.Name != "ROCK" {
		t.Errorf("material = %+v", mesh.Material)
	}
}

func TestImportScene_Transform(t *testing.T) {
	for _, rotY := range []float32{30, 90, -90} {
		h := newHarness(t)
		tmpl := tnode("ROOT", "LOCATOR", nil)
		tmpl.Transform.TransX = 2
		tmpl.Transform.RotY = rotY
		tmpl.Transform.ScaleZ = 3
		h.put(scenePath, tmpl)

		res := h.importScene(scenePath)
		tc, ok := scene.Get[*scene.TransformComponent](res.root)
		if !ok {
			t.Fatal("no transform")
		}
		if tc.Translation.X != 2 || tc.Scale.Z != 3 || tc.Scale.X != 1 {
			t.Errorf("translation %v scale %v", tc.Translation, tc.Scale)
		}
		if !near(tc.Rotation.X, 0) || !near(tc.Rotation.Y, rotY) || !near(tc.Rotation.Z, 0) {
			t.Errorf("RotY %v: Rotation = %v, want (0, %v, 0)", rotY, tc.Rotation, rotY)
		}
		if !near(tc.Local[12], 2) {
			t.Errorf("Local translation = %v", tc.Local[12:15])
		}
	}
}

func TestImportScene_Collision(t *testing.T) {
	tests := []struct {
		name     string
		attrs    []template.Attribute
		kind     scene.CollisionType
		vertices uint32
		indices  int
	}{
		{
			name:     "sphere",
			attrs:    attrs("TYPE", "SPHERE", "RADIUS", "2.5"),
			kind:     scene.CollisionSphere,
			vertices: uint32(primitives.Sphere(math.Vec3{}, 2.5).VertexCount()),
			indices:  len(primitives.Sphere(math.Vec3{}, 2.5).Indices),
		},
		{
			name:     "box",
			attrs:    attrs("TYPE", "Box", "WIDTH", "1", "HEIGHT", "2", "DEPTH", "3"),
			kind:     scene.CollisionBox,
			vertices: 24,
			indices:  36,
		},
		{
			name: "mesh",
			attrs: attrs("TYPE", "MESH", "BATCHSTART", "3", "BATCHCOUNT", "3",
				"VERTRSTART", "1", "VERTREND", "3", "BOUNDHULLST", "0", "BOUNDHULLED", "3"),
			kind:     scene.CollisionMesh,
			vertices: 3,
			indices:  3,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.geometry(geomPath, testBlob())
			h.put(scenePath, tnode("ROCK", "MODEL", attrs("GEOMETRY", geomPath),
				tnode("COLL", "COLLISION", tt.attrs)))

			res := h.importScene(scenePath)
			n := child(t, res.root, "COLL")

			var collisions, meshes int
			for _, c := range n.Components() {
				switch c.Kind() {
				case scene.KindCollision:
					collisions++
				case scene.KindMesh:
					meshes++
				}
			}
			if collisions != 1 || meshes != 1 {
				t.Fatalf("%d collision and %d mesh components, want 1 each", collisions, meshes)
			}

			cc, _ := scene.Get[*scene.CollisionComponent](n)
			if cc.Type != tt.kind {
				t.Errorf("collision type = %v, want %v", cc.Type, tt.kind)
			}
			mesh := meshOf(t, n)
			if mesh.Type != scene.MeshCollision {
				t.Errorf("mesh type = %v, want collision", mesh.Type)
			}
			if mesh.Material == nil || mesh.Material.Name != engine.CollisionMaterial {
				t.Errorf("collision material = %+v", mesh.Material)
			}
			if mesh.Data.VertexCount != tt.vertices || mesh.Data.IndexCount() != tt.indices {
				t.Errorf("mesh data = %d vertices / %d indices, want %d / %d",
					mesh.Data.VertexCount, mesh.Data.IndexCount(), tt.vertices, tt.indices)
			}
			if mesh.Group != nil {
				t.Error("collision mesh joined the render mesh group")
			}
		})
	}
}

func TestImportScene_SphereCollisionBounds(t *testing.T) {
	h := newHarness(t)
	h.put(scenePath, tnode("ROCK", "MODEL", nil,
		tnode("COLL", "COLLISION", attrs("TYPE", "SPHERE", "RADIUS", "2.5"))))

	res := h.importScene(scenePath)
	mesh := meshOf(t, child(t, res.root, "COLL"))
	if !near(mesh.MetaData.AABBMax.X, 2.5) || !near(mesh.MetaData.AABBMin.Y, -2.5) {
		t.Errorf("sphere bounds = %v..%v", mesh.MetaData.AABBMin, mesh.MetaData.AABBMax)
	}
	if mesh.Data.Topology != primitives.Triangles || mesh.Data.IndexWidth != 4 {
		t.Errorf("topology %v index width %d", mesh.Data.Topology, mesh.Data.IndexWidth)
	}
}

func TestImportScene_SkinnedCollisionIsFatal(t *testing.T) {
	h := newHarness(t)
	h.put(scenePath, tnode("ROCK", "MODEL", nil,
		tnode("COLL", "COLLISION", attrs("TYPE", "SPHERE", "RADIUS", "1", "FIRSTSKINMAT", "0", "LASTSKINMAT", "2"))))

	_, err := h.importer().ImportScene(scenePath)
	if !errors.Is(err, ErrSkinnedCollision) || !IsFatal(err) {
		t.Errorf("got %v, want fatal ErrSkinnedCollision", err)
	}
}

func TestImportScene_UnsupportedCollisionType(t *testing.T) {
	h := newHarness(t)
	h.put(scenePath, tnode("ROCK", "MODEL", nil,
		tnode("COLL", "COLLISION", attrs("TYPE", "CONE"))))

	res := h.importScene(scenePath)
	n := child(t, res.root, "COLL")
	if n.HasComponent(scene.KindCollision) || n.HasComponent(scene.KindMesh) {
		t.Error("unsupported collision type attached components")
	}
}

func TestImportScene_UnsupportedNodeTypeIsFatal(t *testing.T) {
	h := newHarness(t)
	h.put(scenePath, tnode("ROCK", "MODEL", nil, tnode("X", "SOMETHING", nil)))

	_, err := h.importer().ImportScene(scenePath)
	if !errors.Is(err, ErrUnsupportedNodeType) {
		t.Errorf("got %v, want ErrUnsupportedNodeType", err)
	}
}

func TestImportScene_KnownButUnbuiltTypes(t *testing.T) {
	h := newHarness(t)
	h.put(scenePath, tnode("ROCK", "MODEL", nil,
		tnode("FX", "EMITTER", nil), tnode("TXT", "TEXT", nil)))

	res := h.importScene(scenePath)
	for _, name := range []string{"FX", "TXT"} {
		n := child(t, res.root, name)
		if n.HasComponent(scene.KindMesh) {
			t.Errorf("%s has a mesh component", name)
		}
		if !n.HasComponent(scene.KindTransform) {
			t.Errorf("%s has no transform", name)
		}
	}
}

func TestImportScene_InvalidAttributeIsRecoverable(t *testing.T) {
	h := newHarness(t)
	h.put(scenePath, tnode("ROCK", "MODEL", nil,
		tnode("J", "JOINT", attrs("JOINTINDEX", "three")),
		tnode("K", "JOINT", attrs("JOINTINDEX", "4"))))

	res := h.importScene(scenePath)
	if child(t, res.root, "J").HasComponent(scene.KindJoint) {
		t.Error("malformed joint got a joint component")
	}
	if jc, ok := scene.Get[*scene.JointComponent](child(t, res.root, "K")); !ok || jc.Index != 4 {
		t.Errorf("sibling joint = %+v, %v", jc, ok)
	}
}

func TestImportScene_MissingGeometry(t *testing.T) {
	h := newHarness(t)
	h.put(scenePath, rockScene())
	h.put(matPath, rockMaterial())

	res := h.importScene(scenePath)
	mesh := child(t, res.root, "b_mesh")
	if mesh.HasComponent(scene.KindMesh) {
		t.Error("mesh node without geometry got a mesh component")
	}
	if res.session.MeshGroup() != nil {
		t.Error("mesh group set without geometry")
	}
}

func TestImportScene_UndecodableGeometry(t *testing.T) {
	h := newHarness(t)
	blob := testBlob()
	blob.Layout = []geomtest.Layout{{formats.SemanticPosition, 4, 0x9999, 0}}
	h.geometry(geomPath, blob)
	h.put(scenePath, rockScene())
	h.put(matPath, rockMaterial())

	res := h.importScene(scenePath)
	if child(t, res.root, "b_mesh").HasComponent(scene.KindMesh) {
		t.Error("mesh built from an undecodable blob")
	}
}

func TestImportScene_MissingTemplates(t *testing.T) {
	h := newHarness(t)
	h.put(scenePath, tnode("ROCK", "MODEL", nil,
		tnode("REF", "REFERENCE", attrs("SCENEGRAPH", "models/none.scene.mbin"))))

	res := h.importScene(scenePath)
	ref := child(t, res.root, "REF")
	if len(ref.Children) != 1 || ref.Children[0].Name != PlaceholderName {
		t.Fatalf("reference children = %v, want the placeholder", ref.Children)
	}
	ph := ref.Children[0]
	if ph.Type != scene.NodeModel || ph.Root != ph || !ph.HasComponent(scene.KindScene) {
		t.Errorf("placeholder = %+v", ph)
	}

	if _, err := h.importer().ImportScene("MODELS/NONE.SCENE.MBIN"); !errors.Is(err, template.ErrTemplateNotFound) {
		t.Errorf("top-level missing template: got %v, want ErrTemplateNotFound", err)
	}
}

func TestImportScene_ReferenceRestoresMeshGroup(t *testing.T) {
	const (
		subScene = "MODELS/TEST/PEBBLE.SCENE.MBIN"
		subGeom  = "MODELS/TEST/PEBBLE.GEOMETRY.MBIN"
	)
	h := newHarness(t)
	h.geometry(geomPath, testBlob())
	pebble := testBlob()
	pebble.BoneRemap = []int32{7}
	pebble.Meshes[0].Hash = 0xB2
	h.geometry(subGeom, pebble)

	// The reference is listed first so the sibling mesh is built after it returns.
	h.put(scenePath, tnode("ROCK", "MODEL", attrs("GEOMETRY", geomPath),
		tnode("REF", "REFERENCE", attrs("SCENEGRAPH", subScene)),
		tnode("AFTER", "MESH", attrs("MATERIAL", matPath, "HASH", "161", "LASTSKINMAT", "1")),
	))
	h.put(subScene, tnode("PEBBLE", "MODEL", attrs("GEOMETRY", subGeom),
		tnode("P_MESH", "MESH", attrs("MATERIAL", matPath, "HASH", "178", "LASTSKINMAT", "1"))))
	h.put(matPath, rockMaterial())

	res := h.importScene(scenePath)
	rootSC, _ := scene.Get[*scene.SceneComponent](res.root)

	sub := child(t, child(t, res.root, "REF"), "PEBBLE")
	subSC, _ := scene.Get[*scene.SceneComponent](sub)
	if subSC.MeshGroup == nil || subSC.MeshGroup == rootSC.MeshGroup {
		t.Fatal("referenced scene did not get its own mesh group")
	}
	if sub.Root != sub {
		t.Error("referenced model is not its own root")
	}
	pm := meshOf(t, child(t, sub, "P_MESH"))
	if pm.Group != subSC.MeshGroup || !slices.Equal(pm.MetaData.BoneRemapIndices, []int32{7}) {
		t.Errorf("referenced mesh remap = %v", pm.MetaData.BoneRemapIndices)
	}

	after := meshOf(t, child(t, res.root, "AFTER"))
	if after.Group != rootSC.MeshGroup {
		t.Error("sibling after the reference used the referenced mesh group")
	}
	if !slices.Equal(after.MetaData.BoneRemapIndices, []int32{5}) {
		t.Errorf("sibling remap = %v, want [5]", after.MetaData.BoneRemapIndices)
	}
	if res.session.MeshGroup() != rootSC.MeshGroup {
		t.Error("session mesh group not restored")
	}
}

func TestImportScene_ReferenceSharesMaterialsNotClips(t *testing.T) {
	const (
		subScene = "MODELS/TEST/PEBBLE.SCENE.MBIN"
		subGeom  = "MODELS/TEST/PEBBLE.GEOMETRY.MBIN"
		attPath  = "MODELS/TEST/ROCK/ENTITIES/ANIMATED.ENTITY.MBIN"
	)
	h := newHarness(t)
	h.geometry(geomPath, testBlob())
	pebble := testBlob()
	pebble.Meshes[0].Hash = 0xB2
	h.geometry(subGeom, pebble)
	h.put(matPath, rockMaterial())
	h.put(animPath, walkAnim())
	h.put(attPath, &template.Attachment{Components: []template.Component{
		&template.AnimationComponent{Anims: []template.AnimationData{{Anim: "WALK", Filename: animPath}}},
	}})

	h.put(scenePath, tnode("ROCK", "MODEL", attrs("GEOMETRY", geomPath, template.AttrAttachment, attPath),
		tnode("MESH", "MESH", attrs("MATERIAL", matPath, "HASH", "161", "LASTSKINMAT", "1")),
		tnode("REF", "REFERENCE", attrs("SCENEGRAPH", subScene)),
	))
	h.put(subScene, tnode("PEBBLE", "MODEL", attrs("GEOMETRY", subGeom, template.AttrAttachment, attPath),
		tnode("P_MESH", "MESH", attrs("MATERIAL", matPath, "HASH", "178", "LASTSKINMAT", "1"))))

	res := h.importScene(scenePath)
	sub := child(t, child(t, res.root, "REF"), "PEBBLE")

	if meshOf(t, child(t, res.root, "MESH")).Material != meshOf(t, child(t, sub, "P_MESH")).Material {
		t.Error("referenced scene rebuilt a material already built by the parent")
	}
	if n := h.loader.loads[matPath]; n != 1 {
		t.Errorf("material template loaded %d times, want 1", n)
	}

	rootAnim, ok := scene.Get[*scene.AnimComponent](res.root)
	if !ok {
		t.Fatal("root has no animation component")
	}
	subAnim, ok := scene.Get[*scene.AnimComponent](sub)
	if !ok {
		t.Fatal("referenced model has no animation component")
	}
	if rootAnim.ByName["WALK"] == subAnim.ByName["WALK"] {
		t.Error("referenced scene reused the parent's animation clip")
	}
	if n := h.loader.loads[animPath]; n != 2 {
		t.Errorf("animation template loaded %d times, want 2", n)
	}
}

func TestImportScene_ReferenceCycle(t *testing.T) {
	const other = "MODELS/TEST/OTHER.SCENE.MBIN"
	tests := []struct {
		name   string
		scenes map[string]*template.SceneNode
	}{
		{"self", map[string]*template.SceneNode{
			scenePath: tnode("ROCK", "MODEL", nil, tnode("REF", "REFERENCE", attrs("SCENEGRAPH", scenePath))),
		}},
		{"chain", map[string]*template.SceneNode{
			scenePath: tnode("ROCK", "MODEL", nil, tnode("REF", "REFERENCE", attrs("SCENEGRAPH", other))),
			other:     tnode("OTHER", "MODEL", nil, tnode("BACK", "REFERENCE", attrs("SCENEGRAPH", scenePath))),
		}},
		{"lod", map[string]*template.SceneNode{
			scenePath: tnode("ROCK", "MODEL", attrs(template.AttrAttachment, "MODELS/TEST/LOD.ENTITY.MBIN")),
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.put("MODELS/TEST/LOD.ENTITY.MBIN", &template.Attachment{Components: []template.Component{
				&template.LODComponent{Models: []string{scenePath}},
			}})
			for path, n := range tt.scenes {
				h.put(path, n)
			}
			_, err := h.importer().ImportScene(scenePath)
			if !errors.Is(err, template.ErrTemplateParse) {
				t.Fatalf("got %v, want ErrTemplateParse", err)
			}
			if !IsFatal(err) {
				t.Error("reference cycle is not fatal")
			}
		})
	}
}

func TestImportScene_RepeatedReferenceIsNotACycle(t *testing.T) {
	const subScene = "MODELS/TEST/PEBBLE.SCENE.MBIN"
	h := newHarness(t)
	h.put(scenePath, tnode("ROCK", "MODEL", nil,
		tnode("REF1", "REFERENCE", attrs("SCENEGRAPH", subScene)),
		tnode("REF2", "REFERENCE", attrs("SCENEGRAPH", subScene)),
	))
	h.put(subScene, tnode("PEBBLE", "MODEL", nil))

	res := h.importScene(scenePath)
	for _, name := range []string{"REF1", "REF2"} {
		child(t, child(t, res.root, name), "PEBBLE")
	}
}

func TestIsFatal(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{ErrSkinnedCollision, true},
		{ErrUnsupportedNodeType, true},
		{template.ErrTemplateParse, true},
		{ErrGeometryNotFound, false},
		{ErrInvalidAttribute, false},
		{ErrUnsupportedComponent, false},
		{ErrUnsupportedSampler, false},
		{template.ErrTemplateNotFound, false},
		{errors.Join(errors.New("context"), ErrSkinnedCollision), true},
	}
	for _, tt := range tests {
		if got := IsFatal(tt.err); got != tt.want {
			t.Errorf("IsFatal(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestImporter_SessionsAreIndependent(t *testing.T) {
	h := newHarness(t)
	h.geometry(geomPath, testBlob())
	h.put(scenePath, rockScene())
	h.put(matPath, rockMaterial())

	im := h.importer()
	a, err := im.ImportScene(scenePath)
	if err != nil {
		t.Fatal(err)
	}
	b, err := im.ImportScene(scenePath)
	if err != nil {
		t.Fatal(err)
	}
	if a == b || meshOf(t, child(t, a, "b_mesh")).Material == meshOf(t, child(t, b, "b_mesh")).Material {
		t.Error("sessions shared nodes or materials")
	}
	if h.loader.loads[matPath] != 2 {
		t.Errorf("material loaded %d times across two sessions, want 2", h.loader.loads[matPath])
	}
}
