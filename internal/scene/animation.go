package scene

import "github.com/Faultbox/nmsimport/pkg/math"

// AnimType is the playback mode of a clip.
type AnimType int

const (
	AnimLoop AnimType = iota
	AnimOneShot
)

func (t AnimType) String() string {
	if t == AnimOneShot {
		return "OneShot"
	}
	return "Loop"
}

// ClipMetaData are the playback settings that identify a clip.
type ClipMetaData struct {
	Name             string
	FileName         string
	AnimType         AnimType
	FrameStart       int
	FrameEnd         int
	StartNode        string
	ActionFrame      int
	ActionStartFrame int
	Speed            float32
	Active           bool
	Additive         bool
	Mirrored         bool
}

// Hash identifies a clip by its settings. Equal settings always hash equal.
func (m *ClipMetaData) Hash() uint64 {
	w := newHasher()
	w.i64(int64(m.ActionFrame))
	w.i64(int64(m.ActionStartFrame))
	w.flag(m.Active)
	w.flag(m.Additive)
	w.flag(m.Mirrored)
	w.str(m.FileName)
	w.i64(int64(m.AnimType))
	w.str(m.StartNode)
	w.f32(m.Speed)
	w.str(m.Name)
	w.i64(int64(m.FrameStart))
	w.i64(int64(m.FrameEnd))
	return w.sum()
}

// AnimationClip holds per-node, per-frame transform channels.
type AnimationClip struct {
	MetaData     ClipMetaData
	FrameCount   int
	Nodes        []string
	Rotations    map[string][]math.Quat
	Translations map[string][]math.Vec3
	Scales       map[string][]math.Vec3
}

// NewAnimationClip creates an empty clip.
func NewAnimationClip(meta ClipMetaData, frames int) *AnimationClip {
	return &AnimationClip{
		MetaData:     meta,
		FrameCount:   frames,
		Rotations:    make(map[string][]math.Quat),
		Translations: make(map[string][]math.Vec3),
		Scales:       make(map[string][]math.Vec3),
	}
}
