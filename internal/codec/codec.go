// Package codec provides the compression algorithms applied to
// serialized shard payloads and the policy that picks between them.
//
// Every compressed payload is framed with a one-byte algorithm tag so a
// reader can verify the declared algorithm against the bytes on disk,
// and so per-shard policy decisions remain recoverable at load time.
package codec

import (
	"errors"
	"fmt"
	"io"
)

// Algorithm identifies one compression algorithm. The string form is
// used in cache descriptors and payload diagnostics.
type Algorithm string

const (
	// None stores payloads uncompressed.
	None Algorithm = "none"
	// LZ4 is the fast block algorithm (cheap CPU, moderate ratio).
	LZ4 Algorithm = "lz4"
	// Zstd is the high-ratio streaming algorithm.
	Zstd Algorithm = "zstd"
)

// Sentinel errors for well-defined error conditions.
var (
	// ErrUnknownAlgorithm indicates an algorithm name this build does
	// not implement.
	ErrUnknownAlgorithm = errors.New("codec: unknown compression algorithm")

	// ErrBadFrame indicates a payload too short to carry a tag, or a
	// tag byte no algorithm claims.
	ErrBadFrame = errors.New("codec: missing or unknown payload tag")

	// ErrAlgorithmMismatch indicates the payload tag does not match
	// the algorithm the caller declared.
	ErrAlgorithmMismatch = errors.New("codec: payload framing does not match declared algorithm")
)

// ParseAlgorithm converts a descriptor string to an Algorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch Algorithm(s) {
	case None, LZ4, Zstd:
		return Algorithm(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, s)
}

// Codec provides compression and decompression for one algorithm.
type Codec interface {
	// Reader wraps r to decompress data read from it.
	Reader(r io.Reader) (io.ReadCloser, error)
	// Writer wraps w to compress data written to it.
	Writer(w io.Writer) (io.WriteCloser, error)
	// Algorithm identifies this codec in payload tags and policy ids.
	Algorithm() Algorithm
}

// For returns the codec implementing algo.
func For(algo Algorithm) (Codec, error) {
	switch algo {
	case None:
		return noopCodec{}, nil
	case LZ4:
		return lz4Codec{}, nil
	case Zstd:
		return zstdCodec{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, algo)
}

// Payload tag bytes. Values are part of the on-disk format.
const (
	tagNone byte = 0x00
	tagLZ4  byte = 0x01
	tagZstd byte = 0x02
)

func tagOf(algo Algorithm) byte {
	switch algo {
	case LZ4:
		return tagLZ4
	case Zstd:
		return tagZstd
	default:
		return tagNone
	}
}

func algorithmOf(tag byte) (Algorithm, bool) {
	switch tag {
	case tagNone:
		return None, true
	case tagLZ4:
		return LZ4, true
	case tagZstd:
		return Zstd, true
	}
	return "", false
}
