package scene

import (
	"encoding/binary"
	"hash"
	"hash/fnv"
	gomath "math"
)

// HashString returns the FNV-1a 64-bit hash of s.
func HashString(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}

// hasher accumulates little-endian field encodings into an FNV-1a digest.
type hasher struct {
	h   hash.Hash64
	buf [8]byte
}

func newHasher() *hasher {
	return &hasher{h: fnv.New64a()}
}

func (w *hasher) str(s string) {
	w.i64(int64(len(s)))
	_, _ = w.h.Write([]byte(s))
}

func (w *hasher) i64(v int64) {
	binary.LittleEndian.PutUint64(w.buf[:], uint64(v))
	_, _ = w.h.Write(w.buf[:])
}

func (w *hasher) f32(v float32) {
	w.i64(int64(gomath.Float32bits(v)))
}

func (w *hasher) flag(b bool) {
	if b {
		w.i64(1)
	} else {
		w.i64(0)
	}
}

func (w *hasher) sum() uint64 {
	return w.h.Sum64()
}
