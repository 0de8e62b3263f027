package codec

import (
	"io"

	"github.com/pierrec/lz4/v4"
)

// Compile-time check that lz4Codec implements Codec.
var _ Codec = lz4Codec{}

// lz4Codec implements LZ4 frame compression at the fastest level.
type lz4Codec struct{}

// Reader wraps r to decompress LZ4 frame data.
func (lz4Codec) Reader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(lz4.NewReader(r)), nil
}

// Writer wraps w to compress data as an LZ4 frame.
func (lz4Codec) Writer(w io.Writer) (io.WriteCloser, error) {
	zw := lz4.NewWriter(w)
	if err := zw.Apply(lz4.CompressionLevelOption(lz4.Fast)); err != nil {
		return nil, err
	}
	return zw, nil
}

// Algorithm returns LZ4.
func (lz4Codec) Algorithm() Algorithm {
	return LZ4
}
