package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Faultbox/nmsimport/internal/config"
	"github.com/Faultbox/nmsimport/internal/engine"
	"github.com/Faultbox/nmsimport/internal/importer"
	"github.com/Faultbox/nmsimport/internal/template"
	"github.com/Faultbox/nmsimport/internal/vfs"
	"github.com/Faultbox/nmsimport/pkg/formats"
	"github.com/Faultbox/nmsimport/pkg/formats/geomtest"
)

const rockScene = `
kind: TkSceneNodeData
name: ROCK
type: MODEL
transform: {scale_x: 1, scale_y: 1, scale_z: 1}
attributes:
  - {name: GEOMETRY, value: MODELS/ROCK.GEOMETRY.MBIN}
children:
  - name: ROCK_MESH
    type: MESH
    transform: {scale_x: 1, scale_y: 1, scale_z: 1}
    attributes:
      - {name: HASH, value: "7"}
      - {name: MATERIAL, value: MODELS/ROCK.MATERIAL.MBIN}
  - name: JNT
    type: JOINT
    transform: {scale_x: 1, scale_y: 1, scale_z: 1}
    attributes:
      - {name: JOINTINDEX, value: "1"}
`

const rockMaterial = `
kind: TkMaterialData
name: ROCK
class: Opaque
flags: [_F01_DIFFUSEMAP]
samplers:
  - {name: gDiffuseMap, map: TEXTURES/ROCK.DDS}
uniforms:
  - {name: gMaterialColourVec4, values: [1, 0, 0, 1]}
`

func testApp(t *testing.T) (*app, *bytes.Buffer) {
	t.Helper()
	mem := vfs.NewMemory("test", map[string][]byte{
		"MODELS/ROCK.SCENE.MBIN":    []byte(rockScene),
		"MODELS/ROCK.MATERIAL.MBIN": []byte(rockMaterial),
	})
	blob := &geomtest.Blob{
		VertexCount:  3,
		ShortIndices: true,
		VertexStarts: []int32{0},
		VertexStride: 0x24,
		Layout:       geomtest.DefaultLayout(),
		SmallStride:  8,
		SmallLayout:  []geomtest.Layout{{formats.SemanticPosition, 4, formats.CodeHalfFloat, 0}},
		IndexBuffer:  geomtest.Indices16(0, 1, 2),
		Meshes: []geomtest.Mesh{
			{Name: "ROCK", Hash: 7, Vertices: make([]byte, 3*0x24), Indices: geomtest.Indices16(0, 1, 2)},
		},
	}
	for p, data := range blob.Files("MODELS/ROCK.GEOMETRY.MBIN") {
		mem.Put(p, data)
	}

	fs := vfs.NewManager()
	fs.AddSource(mem)
	catalog := engine.NewCatalog()
	out := &bytes.Buffer{}
	return &app{
		out:      out,
		cfg:      config.Default(),
		fs:       fs,
		catalog:  catalog,
		importer: importer.New(fs, template.NewYAMLLoader(fs), catalog, importer.Options{}),
	}, out
}

func TestCommands(t *testing.T) {
	tests := []struct {
		name string
		cmd  func(*app, []string) error
		args []string
		want []string
	}{
		{"scene", cmdScene, []string{"models/rock.scene.mbin"},
			[]string{"ROCK [MODEL]", "  JNT [JOINT] joint\n", "ROCK_MESH [MESH] mesh mesh=", "material=ROCK", "Nodes:     3"}},
		{"scene depth", cmdScene, []string{"-depth", "1", "MODELS/ROCK.SCENE.MBIN"},
			[]string{"ROCK [MODEL]"}},
		{"geometry", cmdGeometry, []string{"MODELS/ROCK.GEOMETRY.MBIN"},
			[]string{"Vertices:   3", "Indices:    3 (16-bit)", "stride 36", "ROCK"}},
		{"material", cmdMaterial, []string{"MODELS/ROCK.MATERIAL.MBIN"},
			[]string{"Material:   ROCK (Opaque)", "DiffuseMap", "[-1] gDiffuseMap", "unbound", "[ 0] gMaterialColourVec4"}},
		{"config", cmdConfig, nil,
			[]string{"data:\n  roots:\n", "mix_size: 4"}},
		{"list", cmdList, []string{"MODELS/*.MBIN"},
			[]string{"MODELS/ROCK.MATERIAL.MBIN", "MODELS/ROCK.SCENE.MBIN"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, out := testApp(t)
			defer a.close()
			if err := tt.cmd(a, tt.args); err != nil {
				t.Fatalf("command failed: %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(out.String(), want) {
					t.Errorf("output missing %q:\n%s", want, out.String())
				}
			}
		})
	}
}

func TestCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		cmd  func(*app, []string) error
		args []string
	}{
		{"scene without path", cmdScene, nil},
		{"missing scene", cmdScene, []string{"MODELS/NONE.SCENE.MBIN"}},
		{"missing geometry", cmdGeometry, []string{"MODELS/NONE.GEOMETRY.MBIN"}},
		{"material without path", cmdMaterial, nil},
		{"bad pattern", cmdList, []string{"[x"}},
		{"bad config flag", cmdConfig, []string{"-bogus"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, _ := testApp(t)
			defer a.close()
			if err := tt.cmd(a, tt.args); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestSceneDepthHidesChildren(t *testing.T) {
	a, out := testApp(t)
	defer a.close()
	if err := cmdScene(a, []string{"-depth", "1", "MODELS/ROCK.SCENE.MBIN"}); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out.String(), "JNT") {
		t.Errorf("depth 1 printed a child:\n%s", out.String())
	}
}

func TestConfigWritesEffectiveConfig(t *testing.T) {
	a, out := testApp(t)
	defer a.close()
	a.cfg.Data.Roots = []string{"/games/nms/PCBANKS"}
	path := filepath.Join(t.TempDir(), "nmsimport.yaml")

	if err := cmdConfig(a, []string{"-o", path}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Saved to "+path) {
		t.Errorf("output = %q", out.String())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "/games/nms/PCBANKS") {
		t.Errorf("saved config missing data root:\n%s", data)
	}
}
