package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/Faultbox/nmsimport/pkg/binio"
)

// DDS format errors.
var (
	ErrInvalidDDSMagic  = errors.New("invalid DDS magic: expected 'DDS '")
	ErrInvalidDDSHeader = errors.New("invalid DDS header size")
)

const (
	ddsMagic      = "DDS "
	ddsHeaderSize = 124

	// DDPF_FOURCC
	ddsPixelFourCC = 0x4
	// DDPF_RGB | DDPF_ALPHAPIXELS
	ddsPixelRGBA = 0x41

	// DDSD_CAPS | DDSD_HEIGHT | DDSD_WIDTH | DDSD_PITCH | DDSD_PIXELFORMAT
	ddsFlagsRGBA = 0x100F
	// DDSCAPS_TEXTURE
	ddsCapsTexture = 0x1000
)

// DDSInfo is the subset of a DDS header needed to register a texture.
type DDSInfo struct {
	Width     uint32
	Height    uint32
	Depth     uint32
	MipLevels uint32 // at least 1
	FourCC    string // empty for uncompressed formats
}

// ParseDDSInfo reads the DDS file header without decoding pixel data.
func ParseDDSInfo(data []byte) (*DDSInfo, error) {
	c, err := binio.NewCursor(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	magic, err := c.Bytes(4)
	if err != nil {
		return nil, fmt.Errorf("reading magic: %w", err)
	}
	if string(magic) != ddsMagic {
		return nil, ErrInvalidDDSMagic
	}

	size, err := c.Uint32()
	if err != nil {
		return nil, fmt.Errorf("reading header size: %w", err)
	}
	if size != ddsHeaderSize {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDDSHeader, size)
	}

	info := &DDSInfo{}
	var fields [6]uint32 // flags, height, width, pitch, depth, mip count
	for i := range fields {
		if fields[i], err = c.Uint32(); err != nil {
			return nil, fmt.Errorf("reading header: %w", err)
		}
	}
	info.Height = fields[1]
	info.Width = fields[2]
	info.Depth = fields[4]
	info.MipLevels = max(fields[5], 1)

	// Reserved block, then pixel format size.
	if err := c.Skip(11*4 + 4); err != nil {
		return nil, fmt.Errorf("reading pixel format: %w", err)
	}
	pfFlags, err := c.Uint32()
	if err != nil {
		return nil, fmt.Errorf("reading pixel format: %w", err)
	}
	fourCC, err := c.Bytes(4)
	if err != nil {
		return nil, fmt.Errorf("reading pixel format: %w", err)
	}
	if pfFlags&ddsPixelFourCC != 0 {
		info.FourCC = string(fourCC)
	}
	return info, nil
}

// EncodeDDSRGBA writes an uncompressed 32-bit RGBA DDS file with a single mip level.
// pixels holds width*height*4 bytes in row order.
func EncodeDDSRGBA(width, height uint32, pixels []byte) ([]byte, error) {
	if want := int(width) * int(height) * 4; len(pixels) != want {
		return nil, fmt.Errorf("%w: %d pixel bytes for %dx%d", ErrInvalidDDSHeader, len(pixels), width, height)
	}
	out := make([]byte, 4+ddsHeaderSize, 4+ddsHeaderSize+len(pixels))
	le := binary.LittleEndian
	copy(out, ddsMagic)
	le.PutUint32(out[4:], ddsHeaderSize)
	le.PutUint32(out[8:], ddsFlagsRGBA)
	le.PutUint32(out[12:], height)
	le.PutUint32(out[16:], width)
	le.PutUint32(out[20:], width*4)
	le.PutUint32(out[28:], 1)
	le.PutUint32(out[76:], 32) // pixel format size
	le.PutUint32(out[80:], ddsPixelRGBA)
	le.PutUint32(out[88:], 32) // bits per pixel
	le.PutUint32(out[92:], 0x000000FF)
	le.PutUint32(out[96:], 0x0000FF00)
	le.PutUint32(out[100:], 0x00FF0000)
	le.PutUint32(out[104:], 0xFF000000)
	le.PutUint32(out[108:], ddsCapsTexture)
	return append(out, pixels...), nil
}
