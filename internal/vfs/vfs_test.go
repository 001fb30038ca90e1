package vfs

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestClean(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`Models\Rock.scene.mbin`, "MODELS/ROCK.SCENE.MBIN"},
		{"/models/rock.scene.mbin", "MODELS/ROCK.SCENE.MBIN"},
		{"MODELS/ROCK.SCENE.MBIN", "MODELS/ROCK.SCENE.MBIN"},
	}
	for _, tt := range tests {
		if got := Clean(tt.in); got != tt.want {
			t.Errorf("Clean(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDir(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "models/Rock.scene.mbin", "scene")
	writeFile(t, root, "textures/rock.dds", "dds")

	d, err := OpenDir(root)
	if err != nil {
		t.Fatalf("OpenDir failed: %v", err)
	}
	defer d.Close()

	if !d.Contains(`MODELS\ROCK.SCENE.MBIN`) {
		t.Error("expected case-insensitive match")
	}
	data, err := d.Read("Textures/Rock.DDS")
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "dds" {
		t.Errorf("Read() = %q, want %q", data, "dds")
	}
	if _, err := d.Read("missing.dds"); !errors.Is(err, ErrNotExist) {
		t.Errorf("got %v, want ErrNotExist", err)
	}

	list := d.List()
	if len(list) != 2 || list[0] != "MODELS/ROCK.SCENE.MBIN" {
		t.Errorf("List() = %v", list)
	}
}

func TestOpenDir_NotDirectory(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "file.txt", "x")
	if _, err := OpenDir(filepath.Join(root, "file.txt")); err == nil {
		t.Error("expected error opening a file as directory")
	}
	if _, err := OpenDir(filepath.Join(root, "absent")); err == nil {
		t.Error("expected error opening a missing directory")
	}
}

func TestManager_Layering(t *testing.T) {
	base := NewMemory("base", map[string][]byte{
		"a.txt": []byte("base-a"),
		"b.txt": []byte("base-b"),
	})
	patch := NewMemory("patch", map[string][]byte{
		"A.TXT": []byte("patch-a"),
	})

	m := NewManager()
	m.AddSource(base)
	m.AddSource(patch)
	defer m.Close()

	tests := []struct {
		path string
		want string
	}{
		{"a.txt", "patch-a"},
		{"b.txt", "base-b"},
	}
	for _, tt := range tests {
		data, err := m.Load(tt.path)
		if err != nil {
			t.Fatalf("Load(%q) failed: %v", tt.path, err)
		}
		if string(data) != tt.want {
			t.Errorf("Load(%q) = %q, want %q", tt.path, data, tt.want)
		}
	}

	if _, err := m.Load("c.txt"); !errors.Is(err, ErrNotExist) {
		t.Errorf("got %v, want ErrNotExist", err)
	}
	if !m.Exists("B.TXT") || m.Exists("c.txt") {
		t.Error("Exists() mismatch")
	}
}

func TestManager_Cache(t *testing.T) {
	src := NewMemory("mem", map[string][]byte{"x.bin": {1, 2, 3}})
	m := NewManager()
	m.AddSource(src)

	for i := 0; i < 3; i++ {
		if _, err := m.Load("X.BIN"); err != nil {
			t.Fatal(err)
		}
	}
	hits, misses := m.Stats()
	if hits != 2 || misses != 1 {
		t.Errorf("Stats() = %d hits, %d misses; want 2, 1", hits, misses)
	}

	// Cached bytes survive a change in the source until evicted.
	src.Put("x.bin", []byte{9})
	data, _ := m.Load("x.bin")
	if len(data) != 3 {
		t.Errorf("expected cached bytes, got %v", data)
	}
	m.Evict("x.bin")
	data, _ = m.Load("x.bin")
	if len(data) != 1 || data[0] != 9 {
		t.Errorf("expected fresh bytes after Evict, got %v", data)
	}
}

func TestManager_Open(t *testing.T) {
	m := NewManager()
	m.AddSource(NewMemory("mem", map[string][]byte{"stream.bin": []byte("0123456789")}))

	rs, err := m.Open("stream.bin")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := rs.Seek(4, io.SeekStart); err != nil {
		t.Fatal(err)
	}
	buf := make([]byte, 3)
	if _, err := io.ReadFull(rs, buf); err != nil {
		t.Fatal(err)
	}
	if string(buf) != "456" {
		t.Errorf("read %q, want %q", buf, "456")
	}

	if _, err := m.Open("none.bin"); !errors.Is(err, ErrNotExist) {
		t.Errorf("got %v, want ErrNotExist", err)
	}
}

func TestManager_AddDir(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "sub/file.txt", "on disk")

	m := NewManager()
	if err := m.AddDir(root); err != nil {
		t.Fatal(err)
	}
	data, err := m.Load("SUB/FILE.TXT")
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "on disk" {
		t.Errorf("Load() = %q", data)
	}

	if err := m.AddDir(filepath.Join(root, "missing")); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestManager_List(t *testing.T) {
	m := NewManager()
	m.AddSource(NewMemory("base", map[string][]byte{
		"models/rock.scene.mbin":    nil,
		"models/rock.geometry.mbin": nil,
		"textures/rock.dds":         nil,
	}))
	m.AddSource(NewMemory("patch", map[string][]byte{
		"MODELS/ROCK.SCENE.MBIN": nil,
		"models/tree.scene.mbin": nil,
	}))

	tests := []struct {
		pattern string
		want    []string
	}{
		{"", []string{"MODELS/ROCK.GEOMETRY.MBIN", "MODELS/ROCK.SCENE.MBIN", "MODELS/TREE.SCENE.MBIN", "TEXTURES/ROCK.DDS"}},
		{"models/*.scene.mbin", []string{"MODELS/ROCK.SCENE.MBIN", "MODELS/TREE.SCENE.MBIN"}},
		{"*.DDS", nil},
	}
	for _, tt := range tests {
		got, err := m.List(tt.pattern)
		if err != nil {
			t.Fatalf("List(%q) failed: %v", tt.pattern, err)
		}
		if len(got) != len(tt.want) {
			t.Errorf("List(%q) = %v, want %v", tt.pattern, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("List(%q)[%d] = %q, want %q", tt.pattern, i, got[i], tt.want[i])
			}
		}
	}

	if _, err := m.List("[unclosed"); err == nil {
		t.Error("expected error for a malformed pattern")
	}
}
