// Package reporting provides report generation for benchmark results.
package reporting

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/lcdata/scancache/benchmark/analysis"
	"github.com/lcdata/scancache/benchmark/policybench"
)

// MarkdownReport generates benchmark reports in Markdown format.
type MarkdownReport struct {
	w io.Writer
}

// NewMarkdownReport creates a new Markdown report writer.
func NewMarkdownReport(w io.Writer) *MarkdownReport {
	return &MarkdownReport{w: w}
}

// WriteHeader writes the report header.
func (r *MarkdownReport) WriteHeader(title string) {
	fmt.Fprintf(r.w, "# %s\n\n", title)
	fmt.Fprintf(r.w, "Generated: %s\n\n", time.Now().Format(time.RFC3339))
}

// WriteMethodology writes the methodology section.
func (r *MarkdownReport) WriteMethodology(rows, windows, windowRows, runs int) {
	fmt.Fprintln(r.w, "## Methodology")
	fmt.Fprintln(r.w)
	fmt.Fprintf(r.w, "- **Primary rows:** %s\n", humanize.Comma(int64(rows)))
	fmt.Fprintf(r.w, "- **Fragment windows:** %d × %s rows\n", windows, humanize.Comma(int64(windowRows)))
	fmt.Fprintf(r.w, "- **Runs per policy:** %d (save + load wall time per run)\n", runs)
	fmt.Fprintln(r.w, "- **Statistical tests:** Mann-Whitney U (non-parametric), Cohen's d effect size")
	fmt.Fprintln(r.w)
}

// WriteSummaryTable writes the per-policy summary table.
func (r *MarkdownReport) WriteSummaryTable(results []*policybench.Result) {
	fmt.Fprintln(r.w, "## Summary")
	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, "| Policy | Save mean | Save p95 | Load mean | Load p95 | Cache size | Ratio |")
	fmt.Fprintln(r.w, "|--------|-----------|----------|-----------|----------|------------|-------|")

	for _, res := range results {
		save := analysis.Describe(res.SaveSeconds)
		load := analysis.Describe(res.LoadSeconds)
		fmt.Fprintf(r.w, "| %s | %s | %s | %s | %s | %s | %.2f |\n",
			res.Policy,
			fmtSecs(save.Mean), fmtSecs(save.P95),
			fmtSecs(load.Mean), fmtSecs(load.P95),
			humanize.IBytes(uint64(res.CacheBytes)), res.Ratio())
	}
	fmt.Fprintln(r.w)
}

// WriteComparison writes a detailed comparison section for one phase.
func (r *MarkdownReport) WriteComparison(comp *analysis.PolicyComparison) {
	fmt.Fprintf(r.w, "## %s: %s vs %s\n\n", comp.Phase, comp.Candidate, comp.Baseline)

	fmt.Fprintln(r.w, "| Metric | "+comp.Baseline+" | "+comp.Candidate+" |")
	fmt.Fprintln(r.w, "|--------|------|------|")
	fmt.Fprintf(r.w, "| Mean | %s | %s |\n", fmtSecs(comp.BaselineStats.Mean), fmtSecs(comp.CandidateStats.Mean))
	fmt.Fprintf(r.w, "| Median | %s | %s |\n", fmtSecs(comp.BaselineStats.Median), fmtSecs(comp.CandidateStats.Median))
	fmt.Fprintf(r.w, "| Std dev | %s | %s |\n", fmtSecs(comp.BaselineStats.StdDev), fmtSecs(comp.CandidateStats.StdDev))
	fmt.Fprintf(r.w, "| Min | %s | %s |\n", fmtSecs(comp.BaselineStats.Min), fmtSecs(comp.CandidateStats.Min))
	fmt.Fprintf(r.w, "| Max | %s | %s |\n", fmtSecs(comp.BaselineStats.Max), fmtSecs(comp.CandidateStats.Max))
	fmt.Fprintln(r.w)

	fmt.Fprintf(r.w, "- **Speedup vs %s:** %.2fx\n", comp.Baseline, comp.Speedup)
	fmt.Fprintf(r.w, "- **Mann-Whitney U:** %.2f (z=%.2f, p=%.4f)\n",
		comp.MannWhitney.U, comp.MannWhitney.Z, comp.MannWhitney.PValue)
	fmt.Fprintf(r.w, "- **Effect size (Cohen's d):** %.2f (%s)\n",
		comp.EffectSize.CohensD, comp.EffectSize.Interpretation)
	fmt.Fprintln(r.w)

	if comp.Confident {
		faster, slower := comp.Candidate, comp.Baseline
		if comp.Speedup < 1 {
			faster, slower = comp.Baseline, comp.Candidate
		}
		fmt.Fprintf(r.w, "**%s** is significantly faster than %s for %s (p < 0.05).\n",
			faster, slower, comp.Phase)
	} else {
		fmt.Fprintf(r.w, "No statistically significant %s difference detected (p >= 0.05).\n", comp.Phase)
	}
	fmt.Fprintln(r.w)
}

// WriteFooter writes the report footer.
func (r *MarkdownReport) WriteFooter() {
	fmt.Fprintln(r.w, "---")
	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, "*Report generated by scancache bench*")
}

// fmtSecs renders a duration in seconds as milliseconds with a unit.
func fmtSecs(s float64) string {
	return fmt.Sprintf("%.1f ms", s*1e3)
}
