package codec

import "io"

// Compile-time check that noopCodec implements Codec.
var _ Codec = noopCodec{}

// noopCodec passes data through unchanged.
type noopCodec struct{}

// Reader returns r wrapped as a ReadCloser (no decompression).
func (noopCodec) Reader(r io.Reader) (io.ReadCloser, error) {
	if rc, ok := r.(io.ReadCloser); ok {
		return rc, nil
	}
	return io.NopCloser(r), nil
}

// Writer returns w wrapped as a WriteCloser (no compression).
func (noopCodec) Writer(w io.Writer) (io.WriteCloser, error) {
	if wc, ok := w.(io.WriteCloser); ok {
		return wc, nil
	}
	return nopWriteCloser{w}, nil
}

// Algorithm returns None.
func (noopCodec) Algorithm() Algorithm {
	return None
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
