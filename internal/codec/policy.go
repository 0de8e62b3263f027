package codec

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lcdata/scancache/scantable"
)

// ErrUnknownPolicy indicates a policy identifier that cannot be parsed.
var ErrUnknownPolicy = errors.New("codec: unknown compression policy")

// Policy decides which algorithm each shard payload is written with.
// Its identifier is recorded in the cache descriptor so a later load
// can reconstruct the same policy.
type Policy interface {
	// ID is the identifier recorded in the cache descriptor.
	ID() string

	// Choose returns the algorithm for one shard of the named stream,
	// given the serialized (pre-compression) payload size in bytes.
	Choose(stream string, size int) Algorithm

	// LoadAlgorithm returns the algorithm every shard of the stream
	// was written with, when the policy fixes that per stream. ok is
	// false when the save-time choice varied per shard and a reader
	// must sniff each payload's tag instead.
	LoadAlgorithm(stream string) (algo Algorithm, ok bool)
}

// Uniform returns the policy applying the same algorithm to every
// stream. Its identifier is the algorithm name.
func Uniform(algo Algorithm) Policy {
	return uniformPolicy{algo: algo}
}

// Compile-time check that uniformPolicy implements Policy.
var _ Policy = uniformPolicy{}

type uniformPolicy struct {
	algo Algorithm
}

func (p uniformPolicy) ID() string {
	return string(p.algo)
}

func (p uniformPolicy) Choose(string, int) Algorithm {
	return p.algo
}

func (p uniformPolicy) LoadAlgorithm(string) (Algorithm, bool) {
	return p.algo, true
}

// Hybrid returns the per-type policy: LZ4 for the fragment-window
// stream, which is large and value-repetitive, and no compression for
// the primary stream, where the payoff is low. The heuristic is fixed,
// not measured at runtime.
func Hybrid() Policy {
	return hybridPolicy{}
}

// Compile-time check that hybridPolicy implements Policy.
var _ Policy = hybridPolicy{}

type hybridPolicy struct{}

func (hybridPolicy) ID() string {
	return "hybrid"
}

func (hybridPolicy) Choose(stream string, _ int) Algorithm {
	if stream == scantable.StreamWindows {
		return LZ4
	}
	return None
}

func (hybridPolicy) LoadAlgorithm(stream string) (Algorithm, bool) {
	if stream == scantable.StreamWindows {
		return LZ4, true
	}
	return None, true
}

// SizeProbed returns the policy that compresses with algo only when a
// shard's serialized size exceeds minBytes, independent of stream.
func SizeProbed(minBytes int, algo Algorithm) Policy {
	return sizeProbedPolicy{minBytes: minBytes, algo: algo}
}

// Compile-time check that sizeProbedPolicy implements Policy.
var _ Policy = sizeProbedPolicy{}

type sizeProbedPolicy struct {
	minBytes int
	algo     Algorithm
}

func (p sizeProbedPolicy) ID() string {
	return fmt.Sprintf("probe:%d:%s", p.minBytes, p.algo)
}

func (p sizeProbedPolicy) Choose(_ string, size int) Algorithm {
	if size > p.minBytes {
		return p.algo
	}
	return None
}

func (p sizeProbedPolicy) LoadAlgorithm(string) (Algorithm, bool) {
	return "", false
}

// ParsePolicy reconstructs a policy from its descriptor identifier.
func ParsePolicy(id string) (Policy, error) {
	switch id {
	case string(None), string(LZ4), string(Zstd):
		return Uniform(Algorithm(id)), nil
	case "hybrid":
		return Hybrid(), nil
	}

	if rest, ok := strings.CutPrefix(id, "probe:"); ok {
		minStr, algoStr, ok := strings.Cut(rest, ":")
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, id)
		}
		minBytes, err := strconv.Atoi(minStr)
		if err != nil || minBytes < 0 {
			return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, id)
		}
		algo, err := ParseAlgorithm(algoStr)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, id)
		}
		return SizeProbed(minBytes, algo), nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, id)
}
