package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/lcdata/scancache"
	"github.com/lcdata/scancache/benchmark/analysis"
	"github.com/lcdata/scancache/benchmark/policybench"
	"github.com/lcdata/scancache/benchmark/reporting"
	"github.com/lcdata/scancache/benchmark/synth"
)

var (
	benchRows       int
	benchWindows    int
	benchWindowRows int
	benchRuns       int
	benchPolicies   []string
	benchWorkers    int
	benchShards     int
	benchSeed       int64
	benchReport     string
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Benchmark compression policies on a synthetic dataset",
	Long: `Benchmark save and load performance of compression policies.

The command generates a synthetic scan dataset, runs repeated save/load
cycles for each policy in a throwaway cache directory, and prints timing
and size results. Load timings are compared against the first policy
with a Mann-Whitney U test so that ordering noise between runs does not
get reported as a real difference.`,
	Example: `  scancache bench --rows 500000 --runs 5
  scancache bench --policy none,zstd --report bench.md`,
	RunE: runBench,
}

func init() {
	benchCmd.Flags().IntVar(&benchRows, "rows", 1_000_000, "rows in the primary stream")
	benchCmd.Flags().IntVar(&benchWindows, "windows", 8, "number of fragment windows")
	benchCmd.Flags().IntVar(&benchWindowRows, "window-rows", 100_000, "rows per fragment window")
	benchCmd.Flags().IntVar(&benchRuns, "runs", 3, "save/load cycles per policy")
	benchCmd.Flags().StringSliceVar(&benchPolicies, "policy", []string{"none", "lz4", "zstd", "hybrid"}, "policies to benchmark")
	benchCmd.Flags().IntVar(&benchWorkers, "workers", 0, "I/O workers (0 = NumCPU)")
	benchCmd.Flags().IntVar(&benchShards, "shards", 0, "primary stream shard count (0 = workers)")
	benchCmd.Flags().Int64Var(&benchSeed, "seed", 42, "dataset generator seed")
	benchCmd.Flags().StringVar(&benchReport, "report", "", "write a markdown report to this path")
	rootCmd.AddCommand(benchCmd)
}

func runBench(cmd *cobra.Command, args []string) error {
	// Parse every policy up front so a typo fails before minutes of work.
	policies := make([]scancache.Policy, len(benchPolicies))
	for i, id := range benchPolicies {
		p, err := scancache.ParsePolicy(id)
		if err != nil {
			return err
		}
		policies[i] = p
	}

	fmt.Printf("Generating dataset: %s primary rows, %d windows x %s rows...\n",
		humanize.Comma(int64(benchRows)), benchWindows, humanize.Comma(int64(benchWindowRows)))
	primary, windows := synth.Dataset(synth.Config{
		Rows:       benchRows,
		Windows:    benchWindows,
		WindowRows: benchWindowRows,
		Seed:       benchSeed,
	})

	dir, err := os.MkdirTemp("", "scancache-bench-*")
	if err != nil {
		return fmt.Errorf("creating benchmark directory: %w", err)
	}
	defer os.RemoveAll(dir)

	runner := policybench.NewRunner(dir, benchWorkers, benchShards)
	results := make([]*policybench.Result, 0, len(policies))
	for _, p := range policies {
		fmt.Printf("Benchmarking %-16s (%d runs)...\n", p.ID(), benchRuns)
		res, err := runner.Run(cmd.Context(), p, primary, windows, benchRuns)
		if err != nil {
			return fmt.Errorf("benchmarking %s: %w", p.ID(), err)
		}
		results = append(results, res)
	}

	printBenchTable(results)

	if len(results) >= 2 {
		fmt.Println("\nLoad comparisons against", results[0].Policy+":")
		for _, comp := range analysis.CompareAll(results, analysis.PhaseLoad) {
			fmt.Println(" ", comp.Summary())
		}
	}

	if benchReport != "" {
		if err := writeBenchReport(benchReport, results); err != nil {
			return err
		}
		fmt.Printf("\nReport written to %s\n", benchReport)
	}
	return nil
}

func printBenchTable(results []*policybench.Result) {
	fmt.Printf("\n%-16s %12s %12s %12s %12s %10s %7s\n",
		"POLICY", "SAVE MEAN", "SAVE P95", "LOAD MEAN", "LOAD P95", "SIZE", "RATIO")
	for _, r := range results {
		save := analysis.Describe(r.SaveSeconds)
		load := analysis.Describe(r.LoadSeconds)
		fmt.Printf("%-16s %10.1fms %10.1fms %10.1fms %10.1fms %10s %6.2fx\n",
			r.Policy,
			save.Mean*1000, save.P95*1000,
			load.Mean*1000, load.P95*1000,
			humanize.IBytes(uint64(r.CacheBytes)), r.Ratio())
	}
}

func writeBenchReport(path string, results []*policybench.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report file: %w", err)
	}
	defer f.Close()

	rep := reporting.NewMarkdownReport(f)
	rep.WriteHeader("Compression policy benchmark")
	rep.WriteMethodology(benchRows, benchWindows, benchWindowRows, benchRuns)
	rep.WriteSummaryTable(results)
	for _, phase := range []analysis.Phase{analysis.PhaseSave, analysis.PhaseLoad} {
		for _, comp := range analysis.CompareAll(results, phase) {
			rep.WriteComparison(comp)
		}
	}
	rep.WriteFooter()
	return nil
}
