package codec

import (
	"errors"
	"testing"

	"github.com/lcdata/scancache/scantable"
)

func TestUniformPolicy(t *testing.T) {
	for _, algo := range []Algorithm{None, LZ4, Zstd} {
		p := Uniform(algo)
		if p.ID() != string(algo) {
			t.Errorf("ID() = %q, want %q", p.ID(), algo)
		}
		for _, stream := range []string{scantable.StreamPrimary, scantable.StreamWindows} {
			if got := p.Choose(stream, 1<<30); got != algo {
				t.Errorf("Choose(%s) = %s, want %s", stream, got, algo)
			}
			loadAlgo, ok := p.LoadAlgorithm(stream)
			if !ok || loadAlgo != algo {
				t.Errorf("LoadAlgorithm(%s) = (%s, %v), want (%s, true)", stream, loadAlgo, ok, algo)
			}
		}
	}
}

func TestHybridPolicy(t *testing.T) {
	p := Hybrid()
	if p.ID() != "hybrid" {
		t.Errorf("ID() = %q, want %q", p.ID(), "hybrid")
	}

	if got := p.Choose(scantable.StreamPrimary, 1<<30); got != None {
		t.Errorf("Choose(primary) = %s, want none", got)
	}
	if got := p.Choose(scantable.StreamWindows, 1); got != LZ4 {
		t.Errorf("Choose(windows) = %s, want lz4", got)
	}

	if algo, ok := p.LoadAlgorithm(scantable.StreamPrimary); !ok || algo != None {
		t.Errorf("LoadAlgorithm(primary) = (%s, %v), want (none, true)", algo, ok)
	}
	if algo, ok := p.LoadAlgorithm(scantable.StreamWindows); !ok || algo != LZ4 {
		t.Errorf("LoadAlgorithm(windows) = (%s, %v), want (lz4, true)", algo, ok)
	}
}

func TestSizeProbedPolicy(t *testing.T) {
	p := SizeProbed(1024, Zstd)
	if p.ID() != "probe:1024:zstd" {
		t.Errorf("ID() = %q", p.ID())
	}

	tests := []struct {
		size int
		want Algorithm
	}{
		{size: 0, want: None},
		{size: 1024, want: None},
		{size: 1025, want: Zstd},
		{size: 1 << 20, want: Zstd},
	}
	for _, tt := range tests {
		if got := p.Choose(scantable.StreamPrimary, tt.size); got != tt.want {
			t.Errorf("Choose(size=%d) = %s, want %s", tt.size, got, tt.want)
		}
	}

	if _, ok := p.LoadAlgorithm(scantable.StreamPrimary); ok {
		t.Error("LoadAlgorithm() should report per-shard choice for size-probed policy")
	}
}

func TestParsePolicy_RoundTrip(t *testing.T) {
	policies := []Policy{
		Uniform(None),
		Uniform(LZ4),
		Uniform(Zstd),
		Hybrid(),
		SizeProbed(0, LZ4),
		SizeProbed(10<<20, Zstd),
	}

	for _, p := range policies {
		t.Run(p.ID(), func(t *testing.T) {
			parsed, err := ParsePolicy(p.ID())
			if err != nil {
				t.Fatalf("ParsePolicy(%q) error = %v", p.ID(), err)
			}
			if parsed.ID() != p.ID() {
				t.Errorf("ParsePolicy(%q).ID() = %q", p.ID(), parsed.ID())
			}
		})
	}
}

func TestParsePolicy_Unknown(t *testing.T) {
	for _, id := range []string{"", "gzip", "probe:", "probe:abc:lz4", "probe:-1:lz4", "probe:1024:gzip", "probe:1024"} {
		if _, err := ParsePolicy(id); !errors.Is(err, ErrUnknownPolicy) {
			t.Errorf("ParsePolicy(%q) error = %v, want ErrUnknownPolicy", id, err)
		}
	}
}
