package codec

import (
	"io"

	"github.com/klauspost/compress/zstd"
)

// Compile-time check that zstdCodec implements Codec.
var _ Codec = zstdCodec{}

// zstdCodec implements zstd streaming compression.
type zstdCodec struct{}

// Reader wraps r to decompress zstd data.
func (zstdCodec) Reader(r io.Reader) (io.ReadCloser, error) {
	decoder, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	return decoder.IOReadCloser(), nil
}

// Writer wraps w to compress data with zstd.
func (zstdCodec) Writer(w io.Writer) (io.WriteCloser, error) {
	return zstd.NewWriter(w)
}

// Algorithm returns Zstd.
func (zstdCodec) Algorithm() Algorithm {
	return Zstd
}
