package analysis

import (
	"fmt"

	"github.com/lcdata/scancache/benchmark/policybench"
)

// Phase selects which timing samples of a benchmark result are compared.
type Phase string

const (
	PhaseSave Phase = "save"
	PhaseLoad Phase = "load"
)

func (p Phase) samples(r *policybench.Result) []float64 {
	if p == PhaseLoad {
		return r.LoadSeconds
	}
	return r.SaveSeconds
}

// PolicyComparison is the statistical comparison of one candidate
// policy against the baseline for one phase.
type PolicyComparison struct {
	Phase     Phase
	Baseline  string
	Candidate string

	BaselineStats  *SampleStats
	CandidateStats *SampleStats
	MannWhitney    *MannWhitneyResult
	EffectSize     *EffectSize

	// Speedup is baseline mean time over candidate mean time; above 1
	// the candidate is faster.
	Speedup   float64
	Confident bool
}

// Compare runs the full comparison of candidate against baseline.
func Compare(baseline, candidate *policybench.Result, phase Phase) *PolicyComparison {
	bs := phase.samples(baseline)
	cs := phase.samples(candidate)

	baseStats := Describe(bs)
	candStats := Describe(cs)
	mw := MannWhitneyU(bs, cs)

	var speedup float64
	if candStats.Mean > 0 {
		speedup = baseStats.Mean / candStats.Mean
	}

	return &PolicyComparison{
		Phase:          phase,
		Baseline:       baseline.Policy,
		Candidate:      candidate.Policy,
		BaselineStats:  baseStats,
		CandidateStats: candStats,
		MannWhitney:    mw,
		EffectSize:     ComputeEffectSize(bs, cs),
		Speedup:        speedup,
		Confident:      mw.Significant,
	}
}

// CompareAll compares every result after the first against results[0].
func CompareAll(results []*policybench.Result, phase Phase) []*PolicyComparison {
	if len(results) < 2 {
		return nil
	}
	comps := make([]*PolicyComparison, 0, len(results)-1)
	for _, r := range results[1:] {
		comps = append(comps, Compare(results[0], r, phase))
	}
	return comps
}

// Summary returns a one-line human-readable comparison.
func (c *PolicyComparison) Summary() string {
	verdict := "not significant"
	if c.Confident {
		verdict = fmt.Sprintf("significant (p=%.4f)", c.MannWhitney.PValue)
	}
	return fmt.Sprintf(
		"%s %s vs %s: %.2fx (baseline mean %.1fms, candidate mean %.1fms, effect %s, %s)",
		c.Phase, c.Candidate, c.Baseline, c.Speedup,
		c.BaselineStats.Mean*1e3,
		c.CandidateStats.Mean*1e3,
		c.EffectSize.Interpretation, verdict,
	)
}
