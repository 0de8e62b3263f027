package codec

import (
	"bytes"
	"fmt"
	"io"
)

// Compress frames raw with algo: the one-byte algorithm tag followed by
// the algorithm's own encoding of raw.
func Compress(algo Algorithm, raw []byte) ([]byte, error) {
	c, err := For(algo)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Grow(len(raw)/2 + 64)
	buf.WriteByte(tagOf(algo))

	w, err := c.Writer(&buf)
	if err != nil {
		return nil, fmt.Errorf("codec: creating %s writer: %w", algo, err)
	}
	if _, err := w.Write(raw); err != nil {
		return nil, fmt.Errorf("codec: compressing with %s: %w", algo, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("codec: flushing %s writer: %w", algo, err)
	}
	return buf.Bytes(), nil
}

// Decompress decodes a framed payload, first verifying that the payload
// tag matches the algorithm the caller declared. A mismatch returns
// ErrAlgorithmMismatch rather than garbage output. The result may alias
// framed when the payload is uncompressed.
func Decompress(algo Algorithm, framed []byte) ([]byte, error) {
	if _, err := For(algo); err != nil {
		return nil, err
	}
	actual, err := Sniff(framed)
	if err != nil {
		return nil, err
	}
	if actual != algo {
		return nil, fmt.Errorf("%w: declared %s, payload is %s", ErrAlgorithmMismatch, algo, actual)
	}
	return decompress(actual, framed[1:])
}

// DecompressAny decodes a framed payload using whatever algorithm its
// tag declares. Used on load paths where the save-time policy chose the
// algorithm per shard. The result may alias framed when the payload is
// uncompressed.
func DecompressAny(framed []byte) ([]byte, error) {
	algo, err := Sniff(framed)
	if err != nil {
		return nil, err
	}
	return decompress(algo, framed[1:])
}

// Sniff reports the algorithm a framed payload was compressed with.
func Sniff(framed []byte) (Algorithm, error) {
	if len(framed) == 0 {
		return "", fmt.Errorf("%w: empty payload", ErrBadFrame)
	}
	algo, ok := algorithmOf(framed[0])
	if !ok {
		return "", fmt.Errorf("%w: tag 0x%02x", ErrBadFrame, framed[0])
	}
	return algo, nil
}

func decompress(algo Algorithm, body []byte) ([]byte, error) {
	// Uncompressed payloads are returned as a view into the frame, so a
	// memory-mapped shard is decoded without an intermediate heap copy.
	if algo == None {
		return body, nil
	}

	c, err := For(algo)
	if err != nil {
		return nil, err
	}

	r, err := c.Reader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("codec: creating %s reader: %w", algo, err)
	}
	defer r.Close()

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("codec: decompressing %s payload: %w", algo, err)
	}
	return raw, nil
}
