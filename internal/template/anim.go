package template

import "fmt"

// AnimNodeData maps one animated node to its channel indices.
type AnimNodeData struct {
	Node       string `yaml:"node"`
	RotIndex   int    `yaml:"rot_index"`
	TransIndex int    `yaml:"trans_index"`
	ScaleIndex int    `yaml:"scale_index"`
}

// AnimFrame holds the channel values of one frame, or of the still frame.
type AnimFrame struct {
	Rotations    [][4]float32 `yaml:"rotations"` // x, y, z, w
	Translations [][3]float32 `yaml:"translations"`
	Scales       [][3]float32 `yaml:"scales"`
}

// AnimMetadata is an animation curve file.
type AnimMetadata struct {
	FrameCount     int            `yaml:"frame_count"`
	NodeCount      int            `yaml:"node_count"`
	NodeData       []AnimNodeData `yaml:"node_data"`
	AnimFrameData  []AnimFrame    `yaml:"anim_frame_data"`
	StillFrameData AnimFrame      `yaml:"still_frame_data"`
}

// Kind implements Record.
func (*AnimMetadata) Kind() string { return KindAnimMetadata }

// channel selects a channel value for a node at a frame. Indices below the frame's own table
// length address that table; larger indices address the still frame after subtracting it.
func channel[T any](frame, still []T, index int) (T, error) {
	var zero T
	if index < len(frame) {
		if index < 0 {
			return zero, fmt.Errorf("%w: negative channel index %d", ErrTemplateParse, index)
		}
		return frame[index], nil
	}
	si := index - len(frame)
	if si >= len(still) {
		return zero, fmt.Errorf("%w: channel index %d beyond frame (%d) and still (%d) tables",
			ErrTemplateParse, index, len(frame), len(still))
	}
	return still[si], nil
}

func (m *AnimMetadata) frame(i int) (*AnimFrame, error) {
	if i < 0 || i >= len(m.AnimFrameData) {
		return nil, fmt.Errorf("%w: frame %d of %d", ErrTemplateParse, i, len(m.AnimFrameData))
	}
	return &m.AnimFrameData[i], nil
}

// Rotation returns the rotation of node at frame i.
func (m *AnimMetadata) Rotation(node AnimNodeData, i int) ([4]float32, error) {
	f, err := m.frame(i)
	if err != nil {
		return [4]float32{}, err
	}
	return channel(f.Rotations, m.StillFrameData.Rotations, node.RotIndex)
}

// Translation returns the translation of node at frame i.
func (m *AnimMetadata) Translation(node AnimNodeData, i int) ([3]float32, error) {
	f, err := m.frame(i)
	if err != nil {
		return [3]float32{}, err
	}
	return channel(f.Translations, m.StillFrameData.Translations, node.TransIndex)
}

// Scale returns the scale of node at frame i.
func (m *AnimMetadata) Scale(node AnimNodeData, i int) ([3]float32, error) {
	f, err := m.frame(i)
	if err != nil {
		return [3]float32{}, err
	}
	return channel(f.Scales, m.StillFrameData.Scales, node.ScaleIndex)
}
