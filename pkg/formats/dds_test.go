package formats

import (
	"encoding/binary"
	"errors"
	"testing"
)

func buildDDSHeader(width, height, mips uint32, fourCC string) []byte {
	data := make([]byte, 128)
	copy(data, "DDS ")
	binary.LittleEndian.PutUint32(data[4:], 124)
	binary.LittleEndian.PutUint32(data[12:], height)
	binary.LittleEndian.PutUint32(data[16:], width)
	binary.LittleEndian.PutUint32(data[28:], mips)
	if fourCC != "" {
		binary.LittleEndian.PutUint32(data[80:], ddsPixelFourCC)
		copy(data[84:], fourCC)
	}
	return data
}

func TestParseDDSInfo(t *testing.T) {
	info, err := ParseDDSInfo(buildDDSHeader(256, 128, 9, "DXT5"))
	if err != nil {
		t.Fatalf("ParseDDSInfo failed: %v", err)
	}
	if info.Width != 256 || info.Height != 128 {
		t.Errorf("size = %dx%d, want 256x128", info.Width, info.Height)
	}
	if info.MipLevels != 9 {
		t.Errorf("MipLevels = %d, want 9", info.MipLevels)
	}
	if info.FourCC != "DXT5" {
		t.Errorf("FourCC = %q, want DXT5", info.FourCC)
	}
}

func TestParseDDSInfo_NoMips(t *testing.T) {
	info, err := ParseDDSInfo(buildDDSHeader(4, 4, 0, ""))
	if err != nil {
		t.Fatal(err)
	}
	if info.MipLevels != 1 {
		t.Errorf("MipLevels = %d, want 1", info.MipLevels)
	}
	if info.FourCC != "" {
		t.Errorf("FourCC = %q, want empty", info.FourCC)
	}
}

func TestParseDDSInfo_Invalid(t *testing.T) {
	badSize := buildDDSHeader(4, 4, 1, "")
	binary.LittleEndian.PutUint32(badSize[4:], 100)

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"bad magic", []byte("PNG\x00aaaaaaaa"), ErrInvalidDDSMagic},
		{"bad header size", badSize, ErrInvalidDDSHeader},
		{"too short", []byte("DD"), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDDSInfo(tt.data)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestEncodeDDSRGBA(t *testing.T) {
	pixels := make([]byte, 2*3*4)
	data, err := EncodeDDSRGBA(2, 3, pixels)
	if err != nil {
		t.Fatalf("EncodeDDSRGBA failed: %v", err)
	}
	if len(data) != 128+len(pixels) {
		t.Errorf("len = %d, want %d", len(data), 128+len(pixels))
	}
	info, err := ParseDDSInfo(data)
	if err != nil {
		t.Fatalf("ParseDDSInfo failed: %v", err)
	}
	if info.Width != 2 || info.Height != 3 || info.MipLevels != 1 || info.FourCC != "" {
		t.Errorf("info = %+v", info)
	}

	if _, err := EncodeDDSRGBA(2, 2, pixels); !errors.Is(err, ErrInvalidDDSHeader) {
		t.Errorf("got %v, want ErrInvalidDDSHeader", err)
	}
}
