package codec

import (
	"bytes"
	"errors"
	"math/rand"
	"testing"
)

func TestCompressDecompress_InverseLaw(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	random := make([]byte, 64*1024)
	rng.Read(random)

	payloads := map[string][]byte{
		"empty":      {},
		"one byte":   {0x42},
		"text":       []byte("mass spectrometry scan data"),
		"random":     random,
		"repetitive": bytes.Repeat([]byte{1, 2, 3, 4}, 50000),
	}

	for _, algo := range []Algorithm{None, LZ4, Zstd} {
		for name, raw := range payloads {
			t.Run(string(algo)+"/"+name, func(t *testing.T) {
				framed, err := Compress(algo, raw)
				if err != nil {
					t.Fatalf("Compress() error = %v", err)
				}
				if len(framed) == 0 {
					t.Fatal("Compress() produced empty payload, tag byte missing")
				}

				got, err := Decompress(algo, framed)
				if err != nil {
					t.Fatalf("Decompress() error = %v", err)
				}
				if !bytes.Equal(got, raw) {
					t.Error("inverse law violated")
				}
			})
		}
	}
}

func TestDecompress_AlgorithmMismatch(t *testing.T) {
	framed, err := Compress(LZ4, []byte("payload"))
	if err != nil {
		t.Fatalf("Compress() error = %v", err)
	}

	for _, declared := range []Algorithm{None, Zstd} {
		if _, err := Decompress(declared, framed); !errors.Is(err, ErrAlgorithmMismatch) {
			t.Errorf("Decompress(%s, lz4 payload) error = %v, want ErrAlgorithmMismatch", declared, err)
		}
	}
}

func TestDecompress_UnknownAlgorithm(t *testing.T) {
	framed, err := Compress(None, []byte("payload"))
	if err != nil {
		t.Fatalf("Compress() error = %v", err)
	}
	if _, err := Decompress(Algorithm("brotli"), framed); !errors.Is(err, ErrUnknownAlgorithm) {
		t.Errorf("Decompress() error = %v, want ErrUnknownAlgorithm", err)
	}
}

func TestDecompress_BadFrame(t *testing.T) {
	tests := []struct {
		name   string
		framed []byte
	}{
		{name: "empty", framed: nil},
		{name: "unknown tag", framed: []byte{0x7f, 1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decompress(LZ4, tt.framed); !errors.Is(err, ErrBadFrame) {
				t.Errorf("Decompress() error = %v, want ErrBadFrame", err)
			}
		})
	}
}

func TestDecompress_CorruptBody(t *testing.T) {
	framed, err := Compress(Zstd, bytes.Repeat([]byte("data"), 1000))
	if err != nil {
		t.Fatalf("Compress() error = %v", err)
	}

	// Keep the tag, mangle the zstd frame behind it.
	corrupt := append([]byte{framed[0]}, bytes.Repeat([]byte{0xff}, 32)...)
	if _, err := Decompress(Zstd, corrupt); err == nil {
		t.Error("Decompress() on corrupt body should fail")
	}
}

func TestSniff(t *testing.T) {
	for _, algo := range []Algorithm{None, LZ4, Zstd} {
		framed, err := Compress(algo, []byte("x"))
		if err != nil {
			t.Fatalf("Compress(%s) error = %v", algo, err)
		}
		got, err := Sniff(framed)
		if err != nil {
			t.Fatalf("Sniff() error = %v", err)
		}
		if got != algo {
			t.Errorf("Sniff() = %s, want %s", got, algo)
		}
	}
}

func TestDecompressAny(t *testing.T) {
	raw := bytes.Repeat([]byte("window"), 4096)
	for _, algo := range []Algorithm{None, LZ4, Zstd} {
		framed, err := Compress(algo, raw)
		if err != nil {
			t.Fatalf("Compress(%s) error = %v", algo, err)
		}
		got, err := DecompressAny(framed)
		if err != nil {
			t.Fatalf("DecompressAny(%s) error = %v", algo, err)
		}
		if !bytes.Equal(got, raw) {
			t.Errorf("DecompressAny(%s) mismatch", algo)
		}
	}
}

func BenchmarkCompress(b *testing.B) {
	raw := bytes.Repeat([]byte{0x10, 0x20, 0x30, 0x40, 0x50, 0x60}, 200000)
	for _, algo := range []Algorithm{None, LZ4, Zstd} {
		b.Run(string(algo), func(b *testing.B) {
			b.SetBytes(int64(len(raw)))
			for i := 0; i < b.N; i++ {
				if _, err := Compress(algo, raw); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
