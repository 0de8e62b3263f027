package scancache

import "github.com/lcdata/scancache/internal/codec"

// Algorithm identifies a shard compression algorithm.
type Algorithm = codec.Algorithm

// Policy decides the compression algorithm per stream. Policies are
// constructed with Uniform, Hybrid and SizeProbed.
type Policy = codec.Policy

// Algorithms selectable by a policy.
const (
	None = codec.None
	LZ4  = codec.LZ4
	Zstd = codec.Zstd
)

// Uniform returns a policy applying one algorithm to every stream.
func Uniform(algo Algorithm) Policy {
	return codec.Uniform(algo)
}

// Hybrid returns the default policy: fragment window shards compressed
// with LZ4, primary stream shards stored raw.
func Hybrid() Policy {
	return codec.Hybrid()
}

// SizeProbed returns a policy that compresses only shards whose encoded
// size reaches minBytes.
func SizeProbed(minBytes int, algo Algorithm) Policy {
	return codec.SizeProbed(minBytes, algo)
}

// ParsePolicy reconstructs a policy from its identifier, as recorded in
// a cache descriptor.
func ParsePolicy(id string) (Policy, error) {
	return codec.ParsePolicy(id)
}
