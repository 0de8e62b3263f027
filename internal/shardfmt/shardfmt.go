// Package shardfmt implements the binary layout of one serialized data
// shard: a fixed little-endian header followed by each column's raw
// values in a stable order (retention time, mobility, m/z, intensity,
// frame index, scan index). The layout is self-describing; a decoder
// needs nothing beyond these bytes and the format version.
package shardfmt

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"unsafe"

	"github.com/lcdata/scancache/scantable"
)

const (
	// Magic identifies a serialized scan-table shard (ASCII: "SCN1").
	Magic uint32 = 0x53434E31

	// Version is the current shard layout version. Bumping it is the
	// only sanctioned way to change the layout; the same number is
	// recorded in the cache descriptor.
	Version uint32 = 2

	// HeaderSize is the fixed byte length of the shard header.
	HeaderSize = 24

	bytesPerRow = 24 // six 4-byte columns
)

var (
	ErrBadMagic   = errors.New("shardfmt: bad magic number")
	ErrVersion    = errors.New("shardfmt: unsupported format version")
	ErrTruncated  = errors.New("shardfmt: truncated shard data")
	ErrMisaligned = errors.New("shardfmt: column lengths differ")
)

// Header is the fixed prefix of every serialized shard.
type Header struct {
	Magic   uint32
	Version uint32
	Rows    uint64
	MZMin   float32
	MZMax   float32
}

// ParseHeader reads and validates the shard header.
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, fmt.Errorf("%w: got %d bytes, header needs %d", ErrTruncated, len(data), HeaderSize)
	}

	h := Header{
		Magic:   binary.LittleEndian.Uint32(data[0:4]),
		Version: binary.LittleEndian.Uint32(data[4:8]),
		Rows:    binary.LittleEndian.Uint64(data[8:16]),
		MZMin:   math.Float32frombits(binary.LittleEndian.Uint32(data[16:20])),
		MZMax:   math.Float32frombits(binary.LittleEndian.Uint32(data[20:24])),
	}
	if h.Magic != Magic {
		return Header{}, fmt.Errorf("%w: got 0x%08x", ErrBadMagic, h.Magic)
	}
	if h.Version != Version {
		return Header{}, fmt.Errorf("%w: got %d, want %d", ErrVersion, h.Version, Version)
	}
	return h, nil
}

// Encode serializes s into a freshly allocated buffer.
func Encode(s *scantable.Shard) ([]byte, error) {
	if !s.Aligned() {
		return nil, ErrMisaligned
	}

	n := s.Len()
	buf := make([]byte, HeaderSize+n*bytesPerRow)
	binary.LittleEndian.PutUint32(buf[0:4], Magic)
	binary.LittleEndian.PutUint32(buf[4:8], Version)
	binary.LittleEndian.PutUint64(buf[8:16], uint64(n))
	binary.LittleEndian.PutUint32(buf[16:20], math.Float32bits(s.MZMin))
	binary.LittleEndian.PutUint32(buf[20:24], math.Float32bits(s.MZMax))

	off := HeaderSize
	off = putFloat32s(buf, off, s.RT)
	off = putFloat32s(buf, off, s.Mobility)
	off = putFloat32s(buf, off, s.MZ)
	off = putUint32s(buf, off, s.Intensity)
	off = putUint32s(buf, off, s.FrameIndex)
	putUint32s(buf, off, s.ScanIndex)
	return buf, nil
}

// Decode deserializes a shard. The returned shard owns fresh column
// storage, so data may be an mmap view that is unmapped afterwards.
func Decode(data []byte) (*scantable.Shard, error) {
	h, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}

	if h.Rows > uint64(math.MaxInt64/bytesPerRow) {
		return nil, fmt.Errorf("%w: implausible row count %d", ErrTruncated, h.Rows)
	}
	n := int(h.Rows)
	if want := HeaderSize + n*bytesPerRow; len(data) != want {
		return nil, fmt.Errorf("%w: got %d bytes, want %d for %d rows", ErrTruncated, len(data), want, n)
	}

	s := &scantable.Shard{MZMin: h.MZMin, MZMax: h.MZMax}
	off := HeaderSize
	s.RT, off = getFloat32s(data, off, n)
	s.Mobility, off = getFloat32s(data, off, n)
	s.MZ, off = getFloat32s(data, off, n)
	s.Intensity, off = getUint32s(data, off, n)
	s.FrameIndex, off = getUint32s(data, off, n)
	s.ScanIndex, _ = getUint32s(data, off, n)
	return s, nil
}

// EncodedSize returns the serialized byte length of a shard with n rows.
func EncodedSize(n int) int {
	return HeaderSize + n*bytesPerRow
}

func putFloat32s(dst []byte, off int, v []float32) int {
	if len(v) == 0 {
		return off
	}
	src := unsafe.Slice((*byte)(unsafe.Pointer(&v[0])), len(v)*4)
	copy(dst[off:], src)
	return off + len(v)*4
}

func putUint32s(dst []byte, off int, v []uint32) int {
	if len(v) == 0 {
		return off
	}
	src := unsafe.Slice((*byte)(unsafe.Pointer(&v[0])), len(v)*4)
	copy(dst[off:], src)
	return off + len(v)*4
}

func getFloat32s(src []byte, off, n int) ([]float32, int) {
	if n == 0 {
		return nil, off
	}
	v := make([]float32, n)
	dst := unsafe.Slice((*byte)(unsafe.Pointer(&v[0])), n*4)
	copy(dst, src[off:])
	return v, off + n*4
}

func getUint32s(src []byte, off, n int) ([]uint32, int) {
	if n == 0 {
		return nil, off
	}
	v := make([]uint32, n)
	dst := unsafe.Slice((*byte)(unsafe.Pointer(&v[0])), n*4)
	copy(dst, src[off:])
	return v, off + n*4
}
