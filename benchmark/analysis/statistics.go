// Package analysis provides statistical analysis of benchmark samples:
// per-run summary statistics and pairwise comparisons between
// compression policies.
package analysis

import (
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// SampleStats summarizes one timing sample.
type SampleStats struct {
	N      int
	Mean   float64
	Median float64
	StdDev float64
	Min    float64
	Max    float64
	P95    float64
}

// Describe computes summary statistics for a sample.
func Describe(sample []float64) *SampleStats {
	if len(sample) == 0 {
		return &SampleStats{}
	}

	sorted := make([]float64, len(sample))
	copy(sorted, sample)
	sort.Float64s(sorted)

	s := &SampleStats{
		N:      len(sorted),
		Mean:   stat.Mean(sorted, nil),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		P95:    stat.Quantile(0.95, stat.Empirical, sorted, nil),
	}
	if len(sorted) > 1 {
		s.StdDev = stat.StdDev(sorted, nil)
	}
	return s
}

// MannWhitneyResult is the outcome of a Mann-Whitney U test.
type MannWhitneyResult struct {
	U           float64
	Z           float64 // normal approximation
	PValue      float64 // two-tailed
	Significant bool    // p < 0.05
}

// MannWhitneyU tests whether two samples come from different
// distributions, without assuming normality. Timing samples are skewed,
// so a rank test is the right default here.
func MannWhitneyU(a, b []float64) *MannWhitneyResult {
	na, nb := float64(len(a)), float64(len(b))
	if na == 0 || nb == 0 {
		return &MannWhitneyResult{}
	}

	type obs struct {
		v     float64
		fromA bool
	}
	all := make([]obs, 0, len(a)+len(b))
	for _, v := range a {
		all = append(all, obs{v, true})
	}
	for _, v := range b {
		all = append(all, obs{v, false})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].v < all[j].v })

	// Rank sum for sample a, with midranks over ties.
	var rankA float64
	for i := 0; i < len(all); {
		j := i
		for j < len(all) && all[j].v == all[i].v {
			j++
		}
		r := float64(i+j+1) / 2
		for k := i; k < j; k++ {
			if all[k].fromA {
				rankA += r
			}
		}
		i = j
	}

	u1 := rankA - na*(na+1)/2
	u := math.Min(u1, na*nb-u1)

	mean := na * nb / 2
	sd := math.Sqrt(na * nb * (na + nb + 1) / 12)
	var z float64
	if sd > 0 {
		z = (u - mean) / sd
	}
	p := 2 * stdNormalCDF(-math.Abs(z))

	return &MannWhitneyResult{U: u, Z: z, PValue: p, Significant: p < 0.05}
}

func stdNormalCDF(x float64) float64 {
	return 0.5 * math.Erfc(-x/math.Sqrt2)
}

// EffectSize is Cohen's d with its conventional interpretation.
type EffectSize struct {
	CohensD        float64
	Interpretation string // "negligible", "small", "medium", "large"
}

// ComputeEffectSize computes Cohen's d over the pooled standard
// deviation. Samples with fewer than two observations are undefined.
func ComputeEffectSize(a, b []float64) *EffectSize {
	if len(a) < 2 || len(b) < 2 {
		return &EffectSize{Interpretation: "undefined"}
	}

	na, nb := float64(len(a)), float64(len(b))
	va := stat.Variance(a, nil)
	vb := stat.Variance(b, nil)
	pooled := math.Sqrt(((na-1)*va + (nb-1)*vb) / (na + nb - 2))

	var d float64
	if pooled > 0 {
		d = (stat.Mean(a, nil) - stat.Mean(b, nil)) / pooled
	}
	return &EffectSize{CohensD: d, Interpretation: interpretD(math.Abs(d))}
}

func interpretD(d float64) string {
	switch {
	case d < 0.2:
		return "negligible"
	case d < 0.5:
		return "small"
	case d < 0.8:
		return "medium"
	default:
		return "large"
	}
}

// BootstrapResult is a percentile bootstrap interval for the difference
// of sample means.
type BootstrapResult struct {
	MeanDiff   float64
	LowerBound float64
	UpperBound float64
	Confidence float64
}

// BootstrapMeanDiff resamples both inputs with replacement and returns
// the confidence interval of mean(a) - mean(b). The generator is
// seeded, so repeated calls agree.
func BootstrapMeanDiff(a, b []float64, iterations int, confidence float64) *BootstrapResult {
	if len(a) == 0 || len(b) == 0 || iterations < 1 {
		return &BootstrapResult{Confidence: confidence}
	}

	rng := rand.New(rand.NewSource(1))
	diffs := make([]float64, iterations)
	ra := make([]float64, len(a))
	rb := make([]float64, len(b))
	for i := range diffs {
		for j := range ra {
			ra[j] = a[rng.Intn(len(a))]
		}
		for j := range rb {
			rb[j] = b[rng.Intn(len(b))]
		}
		diffs[i] = stat.Mean(ra, nil) - stat.Mean(rb, nil)
	}
	sort.Float64s(diffs)

	alpha := 1 - confidence
	lo := int(alpha / 2 * float64(iterations))
	hi := int((1 - alpha/2) * float64(iterations))
	if hi >= iterations {
		hi = iterations - 1
	}

	return &BootstrapResult{
		MeanDiff:   stat.Mean(a, nil) - stat.Mean(b, nil),
		LowerBound: diffs[lo],
		UpperBound: diffs[hi],
		Confidence: confidence,
	}
}
