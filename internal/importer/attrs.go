package importer

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/multierr"

	"github.com/Faultbox/nmsimport/internal/scene"
	"github.com/Faultbox/nmsimport/internal/template"
	"github.com/Faultbox/nmsimport/pkg/math"
)

// attrReader parses an attribute bag. Missing numeric attributes read as zero; malformed
// ones are collected and reported together by err.
type attrReader struct {
	node  string
	attrs map[string]string
	errs  error
}

func newAttrReader(n *template.SceneNode) *attrReader {
	return &attrReader{node: n.Name, attrs: n.AttrMap()}
}

func (r *attrReader) fail(name, value string, err error) {
	r.errs = multierr.Append(r.errs, fmt.Errorf("%w: %s %s=%q: %v", ErrInvalidAttribute, r.node, name, value, err))
}

func (r *attrReader) str(name string) string {
	return strings.TrimSpace(r.attrs[name])
}

func (r *attrReader) has(name string) bool {
	_, ok := r.attrs[name]
	return ok
}

func (r *attrReader) int32(name string) int32 {
	v := r.str(name)
	if v == "" {
		return 0
	}
	n, err := strconv.ParseInt(v, 10, 32)
	if err != nil {
		r.fail(name, v, err)
	}
	return int32(n)
}

func (r *attrReader) uint64(name string) uint64 {
	v := r.str(name)
	if v == "" {
		return 0
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		r.fail(name, v, err)
	}
	return n
}

func (r *attrReader) float(name string) float32 {
	v := r.str(name)
	if v == "" {
		return 0
	}
	f, err := strconv.ParseFloat(v, 32)
	if err != nil {
		r.fail(name, v, err)
	}
	return float32(f)
}

func (r *attrReader) vec3(prefix string) math.Vec3 {
	return math.Vec3{X: r.float(prefix + "X"), Y: r.float(prefix + "Y"), Z: r.float(prefix + "Z")}
}

func (r *attrReader) err() error {
	return r.errs
}

type meshAttrs struct {
	Material string
	meta     scene.MeshMetaData
}

func parseMeshAttrs(n *template.SceneNode) (meshAttrs, error) {
	r := newAttrReader(n)
	a := meshAttrs{
		Material: r.str("MATERIAL"),
		meta: scene.MeshMetaData{
			BatchStartPhysics:  r.int32("BATCHSTARTPHYSI"),
			VertrStartPhysics:  r.int32("VERTRSTARTPHYSI"),
			VertrEndPhysics:    r.int32("VERTRENDPHYSICS"),
			BatchStartGraphics: r.int32("BATCHSTARTGRAPH"),
			BatchCount:         r.int32("BATCHCOUNT"),
			VertrStartGraphics: r.int32("VERTRSTARTGRAPH"),
			VertrEndGraphics:   r.int32("VERTRENDGRAPHIC"),
			FirstSkinMat:       r.int32("FIRSTSKINMAT"),
			LastSkinMat:        r.int32("LASTSKINMAT"),
			LODLevel:           r.int32("LODLEVEL"),
			BoundHullStart:     r.int32("BOUNDHULLST"),
			BoundHullEnd:       r.int32("BOUNDHULLED"),
			AABBMin:            r.vec3("AABBMIN"),
			AABBMax:            r.vec3("AABBMAX"),
			Hash:               r.uint64("HASH"),
		},
	}
	return a, r.err()
}

type collisionAttrs struct {
	Type         string
	BatchStart   int32
	BatchCount   int32
	VertStart    int32
	VertEnd      int32
	FirstSkinMat int32
	LastSkinMat  int32
	HullStart    int32
	HullEnd      int32
	Radius       float32
	Height       float32
	Width        float32
	Depth        float32
}

func parseCollisionAttrs(n *template.SceneNode) (collisionAttrs, error) {
	r := newAttrReader(n)
	a := collisionAttrs{
		Type:         strings.ToUpper(r.str("TYPE")),
		BatchStart:   r.int32("BATCHSTART"),
		BatchCount:   r.int32("BATCHCOUNT"),
		VertStart:    r.int32("VERTRSTART"),
		VertEnd:      r.int32("VERTREND"),
		FirstSkinMat: r.int32("FIRSTSKINMAT"),
		LastSkinMat:  r.int32("LASTSKINMAT"),
		HullStart:    r.int32("BOUNDHULLST"),
		HullEnd:      r.int32("BOUNDHULLED"),
		Radius:       r.float("RADIUS"),
		Height:       r.float("HEIGHT"),
		Width:        r.float("WIDTH"),
		Depth:        r.float("DEPTH"),
	}
	return a, r.err()
}

func (a collisionAttrs) metaData() scene.MeshMetaData {
	return scene.MeshMetaData{
		BatchStartGraphics: a.BatchStart,
		BatchCount:         a.BatchCount,
		VertrStartGraphics: a.VertStart,
		VertrEndGraphics:   a.VertEnd,
		FirstSkinMat:       a.FirstSkinMat,
		LastSkinMat:        a.LastSkinMat,
		BoundHullStart:     a.HullStart,
		BoundHullEnd:       a.HullEnd,
	}
}

type lightAttrs struct {
	FOV         float32
	Falloff     scene.Attenuation
	FalloffRate float32
	Intensity   float32
	Color       math.Vec3
	Volumetric  float32
}

func parseLightAttrs(n *template.SceneNode) (lightAttrs, error) {
	r := newAttrReader(n)
	a := lightAttrs{
		FOV:         r.float("FOV"),
		FalloffRate: r.float("FALLOFF_RATE"),
		Intensity:   r.float("INTENSITY"),
		Color:       math.Vec3{X: r.float("COL_R"), Y: r.float("COL_G"), Z: r.float("COL_B")},
		Volumetric:  r.float("VOLUMETRIC"),
	}
	if falloff := r.str("FALLOFF"); falloff != "" {
		att, err := scene.ParseAttenuation(falloff)
		if err != nil {
			r.fail("FALLOFF", falloff, err)
		}
		a.Falloff = att
	}
	return a, r.err()
}

type modelAttrs struct {
	Geometry     string
	NumLODs      int
	LODDistances []float32
}

// parseModelAttrs reads NUMLODS and the LODDIST1..LODDIST(n-1) thresholds.
func parseModelAttrs(n *template.SceneNode) (modelAttrs, error) {
	r := newAttrReader(n)
	a := modelAttrs{
		Geometry: r.str("GEOMETRY"),
		NumLODs:  int(r.int32("NUMLODS")),
	}
	for i := 1; i < a.NumLODs; i++ {
		name := fmt.Sprintf("LODDIST%d", i)
		if r.has(name) {
			a.LODDistances = append(a.LODDistances, r.float(name))
		}
	}
	return a, r.err()
}

type jointAttrs struct {
	Index int32
}

func parseJointAttrs(n *template.SceneNode) (jointAttrs, error) {
	r := newAttrReader(n)
	a := jointAttrs{Index: r.int32("JOINTINDEX")}
	return a, r.err()
}

type referenceAttrs struct {
	SceneGraph string
}

func parseReferenceAttrs(n *template.SceneNode) (referenceAttrs, error) {
	r := newAttrReader(n)
	a := referenceAttrs{SceneGraph: strings.ToUpper(r.str("SCENEGRAPH"))}
	if a.SceneGraph == "" {
		r.fail("SCENEGRAPH", "", fmt.Errorf("empty reference"))
	}
	return a, r.err()
}
