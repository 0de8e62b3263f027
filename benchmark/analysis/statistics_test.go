package analysis

import (
	"math"
	"testing"
)

func TestMannWhitneyU(t *testing.T) {
	tests := []struct {
		name       string
		a          []float64
		b          []float64
		wantSignif bool
	}{
		{
			name:       "identical samples",
			a:          []float64{1, 2, 3, 4, 5},
			b:          []float64{1, 2, 3, 4, 5},
			wantSignif: false,
		},
		{
			name:       "clearly different samples",
			a:          []float64{1, 2, 3, 4, 5},
			b:          []float64{10, 11, 12, 13, 14},
			wantSignif: true,
		},
		{
			name:       "highly overlapping samples",
			a:          []float64{3, 4, 5, 6, 7},
			b:          []float64{4, 5, 6, 7, 8},
			wantSignif: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := MannWhitneyU(tt.a, tt.b)
			if result.Significant != tt.wantSignif {
				t.Errorf("Significant = %v, want %v (p=%f)", result.Significant, tt.wantSignif, result.PValue)
			}
		})
	}
}

func TestMannWhitneyU_Empty(t *testing.T) {
	result := MannWhitneyU(nil, []float64{1, 2, 3})
	if result.U != 0 || result.Significant {
		t.Errorf("got U=%f significant=%v, want zero result for empty sample", result.U, result.Significant)
	}
}

func TestComputeEffectSize(t *testing.T) {
	tests := []struct {
		name       string
		a          []float64
		b          []float64
		wantInterp string
	}{
		{
			name:       "large effect",
			a:          []float64{1, 2, 3, 4, 5},
			b:          []float64{10, 11, 12, 13, 14},
			wantInterp: "large",
		},
		{
			name:       "negligible effect",
			a:          []float64{5, 5, 5, 5, 5},
			b:          []float64{5.1, 5, 4.9, 5, 5},
			wantInterp: "negligible",
		},
		{
			name:       "too few observations",
			a:          []float64{1},
			b:          []float64{2, 3},
			wantInterp: "undefined",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ComputeEffectSize(tt.a, tt.b)
			if result.Interpretation != tt.wantInterp {
				t.Errorf("Interpretation = %s, want %s (d=%f)", result.Interpretation, tt.wantInterp, result.CohensD)
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	sample := []float64{10, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	stats := Describe(sample)

	if stats.N != 10 {
		t.Errorf("N = %d, want 10", stats.N)
	}
	if stats.Mean != 5.5 {
		t.Errorf("Mean = %f, want 5.5", stats.Mean)
	}
	if stats.Min != 1 {
		t.Errorf("Min = %f, want 1", stats.Min)
	}
	if stats.Max != 10 {
		t.Errorf("Max = %f, want 10", stats.Max)
	}
	if stats.Median < 5 || stats.Median > 6 {
		t.Errorf("Median = %f, want within [5, 6]", stats.Median)
	}
	if stats.P95 < 9 || stats.P95 > 10 {
		t.Errorf("P95 = %f, want within [9, 10]", stats.P95)
	}
	if stats.StdDev <= 0 {
		t.Errorf("StdDev = %f, want > 0", stats.StdDev)
	}
}

func TestDescribe_Empty(t *testing.T) {
	stats := Describe(nil)
	if stats.N != 0 {
		t.Errorf("N = %d, want 0", stats.N)
	}
}

func TestDescribe_SingleObservation(t *testing.T) {
	stats := Describe([]float64{3.5})
	if stats.Mean != 3.5 || stats.Min != 3.5 || stats.Max != 3.5 {
		t.Errorf("single-observation stats = %+v, want all 3.5", stats)
	}
	if stats.StdDev != 0 {
		t.Errorf("StdDev = %f, want 0 for a single observation", stats.StdDev)
	}
}

func TestBootstrapMeanDiff(t *testing.T) {
	a := []float64{1, 2, 3, 4, 5}
	b := []float64{6, 7, 8, 9, 10}

	result := BootstrapMeanDiff(a, b, 1000, 0.95)

	if math.Abs(result.MeanDiff-(-5)) > 0.1 {
		t.Errorf("MeanDiff = %f, want approximately -5", result.MeanDiff)
	}
	if result.LowerBound > result.MeanDiff || result.UpperBound < result.MeanDiff {
		t.Errorf("CI [%f, %f] does not contain mean diff %f", result.LowerBound, result.UpperBound, result.MeanDiff)
	}
}
