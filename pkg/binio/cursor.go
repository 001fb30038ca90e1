// Package binio provides a little-endian binary cursor for offset-based asset formats.
package binio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"golang.org/x/exp/constraints"

	"github.com/Faultbox/nmsimport/pkg/encoding"
)

// ErrTruncatedStream is returned when a read or seek would cross the end of the stream.
var ErrTruncatedStream = errors.New("truncated stream")

// Number is any fixed-width value the cursor can decode.
type Number interface {
	constraints.Integer | constraints.Float
}

// Cursor reads little-endian values from a seekable stream and tracks its position.
// All reads are bounds-checked against the stream size captured at construction.
type Cursor struct {
	r    io.ReadSeeker
	pos  int64
	size int64
}

// NewCursor wraps rs. The cursor starts at offset 0.
func NewCursor(rs io.ReadSeeker) (*Cursor, error) {
	size, err := rs.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, fmt.Errorf("measuring stream: %w", err)
	}
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewinding stream: %w", err)
	}
	return &Cursor{r: rs, size: size}, nil
}

// Pos returns the current absolute position.
func (c *Cursor) Pos() int64 {
	return c.pos
}

// Size returns the stream length in bytes.
func (c *Cursor) Size() int64 {
	return c.size
}

// Remaining returns the number of bytes between the cursor and the stream end.
func (c *Cursor) Remaining() int64 {
	return c.size - c.pos
}

// Seek moves the cursor to an absolute offset. Seeking exactly to the end is allowed.
func (c *Cursor) Seek(offset int64) error {
	if offset < 0 || offset > c.size {
		return fmt.Errorf("%w: seek to 0x%x beyond size 0x%x", ErrTruncatedStream, offset, c.size)
	}
	if _, err := c.r.Seek(offset, io.SeekStart); err != nil {
		return err
	}
	c.pos = offset
	return nil
}

// Skip advances the cursor by n bytes.
func (c *Cursor) Skip(n int64) error {
	return c.Seek(c.pos + n)
}

// At seeks to offset, runs fn and restores the previous position, even when fn fails.
func (c *Cursor) At(offset int64, fn func() error) error {
	saved := c.pos
	if err := c.Seek(offset); err != nil {
		return err
	}
	ferr := fn()
	if err := c.Seek(saved); err != nil && ferr == nil {
		return err
	}
	return ferr
}

// Bytes reads exactly n bytes.
func (c *Cursor) Bytes(n int64) ([]byte, error) {
	if n < 0 || n > c.Remaining() {
		return nil, fmt.Errorf("%w: need %d bytes at 0x%x, have %d", ErrTruncatedStream, n, c.pos, c.Remaining())
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(c.r, buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTruncatedStream, err)
	}
	c.pos += n
	return buf, nil
}

// FixedString reads a fixed-width, null-padded name field.
func (c *Cursor) FixedString(n int64) (string, error) {
	buf, err := c.Bytes(n)
	if err != nil {
		return "", err
	}
	return encoding.FixedString(buf), nil
}

// Read decodes one little-endian value of type T.
func Read[T Number](c *Cursor) (T, error) {
	var v T
	n := int64(binary.Size(v))
	if n > c.Remaining() {
		return v, fmt.Errorf("%w: need %d bytes at 0x%x, have %d", ErrTruncatedStream, n, c.pos, c.Remaining())
	}
	if err := binary.Read(c.r, binary.LittleEndian, &v); err != nil {
		return v, fmt.Errorf("%w: %v", ErrTruncatedStream, err)
	}
	c.pos += n
	return v, nil
}

// Int32 reads a signed 32-bit integer.
func (c *Cursor) Int32() (int32, error) { return Read[int32](c) }

// Uint32 reads an unsigned 32-bit integer.
func (c *Cursor) Uint32() (uint32, error) { return Read[uint32](c) }

// Int64 reads a signed 64-bit integer.
func (c *Cursor) Int64() (int64, error) { return Read[int64](c) }

// Uint64 reads an unsigned 64-bit integer.
func (c *Cursor) Uint64() (uint64, error) { return Read[uint64](c) }

// Float32 reads an IEEE-754 single.
func (c *Cursor) Float32() (float32, error) { return Read[float32](c) }

// Uint8 reads one byte.
func (c *Cursor) Uint8() (uint8, error) { return Read[uint8](c) }

// RelativeOffset32 reads an int32 stored relative to its own field and returns the absolute offset.
func (c *Cursor) RelativeOffset32() (int64, error) {
	base := c.pos
	v, err := c.Int32()
	if err != nil {
		return 0, err
	}
	return base + int64(v), nil
}

// RelativeOffset64 is RelativeOffset32 for 64-bit offset fields.
func (c *Cursor) RelativeOffset64() (int64, error) {
	base := c.pos
	v, err := c.Int64()
	if err != nil {
		return 0, err
	}
	return base + v, nil
}

// Float32s reads n consecutive floats.
func (c *Cursor) Float32s(n int) ([]float32, error) {
	out := make([]float32, n)
	for i := range out {
		v, err := c.Float32()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
