package texture

import (
	"encoding/binary"
	"testing"
)

func ddsBytes(w, h uint32) []byte {
	data := make([]byte, 128)
	copy(data, "DDS ")
	binary.LittleEndian.PutUint32(data[4:], 124)
	binary.LittleEndian.PutUint32(data[12:], h)
	binary.LittleEndian.PutUint32(data[16:], w)
	binary.LittleEndian.PutUint32(data[28:], 3)
	binary.LittleEndian.PutUint32(data[80:], 0x4)
	copy(data[84:], "DXT1")
	return data
}

func TestNew_ProbesDDS(t *testing.T) {
	tex := New(`textures\rock.dds`, ddsBytes(64, 32), WrapClampToEdge, FilterLinear, FilterLinear, true)

	if tex.Path != "TEXTURES/ROCK.DDS" {
		t.Errorf("Path = %q", tex.Path)
	}
	if tex.Width != 64 || tex.Height != 32 || tex.MipLevels != 3 || tex.Format != "DXT1" {
		t.Errorf("probe = %dx%d mips=%d fmt=%q", tex.Width, tex.Height, tex.MipLevels, tex.Format)
	}
}

func TestNew_NotDDS(t *testing.T) {
	tex := New("a.png", []byte("PNG..."), WrapRepeat, FilterNearest, FilterNearest, false)
	if tex.Width != 0 || tex.Height != 0 {
		t.Errorf("expected zero dimensions, got %dx%d", tex.Width, tex.Height)
	}
}

func TestManager_RefCounting(t *testing.T) {
	m := NewManager()
	m.Add(New("A.DDS", nil, WrapRepeat, FilterLinear, FilterLinear, false))
	m.Add(New("B.DDS", nil, WrapRepeat, FilterLinear, FilterLinear, false))

	if !m.Has("a.dds") {
		t.Fatal("expected case-insensitive Has")
	}
	if _, ok := m.Acquire("A.DDS"); !ok {
		t.Fatal("Acquire failed")
	}
	m.Acquire("A.DDS")
	m.Release("A.DDS")

	if n := m.Prune(); n != 1 {
		t.Errorf("Prune() removed %d, want 1", n)
	}
	if m.Has("B.DDS") {
		t.Error("unreferenced texture survived Prune")
	}
	tex, ok := m.Get("A.DDS")
	if !ok || tex.Refs != 1 {
		t.Errorf("A.DDS refs = %v, %v; want 1", tex, ok)
	}

	m.Release("A.DDS")
	m.Release("A.DDS") // no underflow
	if tex.Refs != 0 {
		t.Errorf("Refs = %d, want 0", tex.Refs)
	}
	if paths := m.Paths(); len(paths) != 1 || paths[0] != "A.DDS" || m.Len() != 1 {
		t.Errorf("Paths() = %v", paths)
	}
}

func TestModeNames(t *testing.T) {
	if WrapMirroredRepeat.String() != "MirroredRepeat" || FilterLinearMipmapLinear.String() != "LinearMipmapLinear" {
		t.Error("unexpected mode names")
	}
}
