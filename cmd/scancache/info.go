package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/lcdata/scancache/internal/manifest"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show cached sources and their on-disk footprint",
	Long: `List every cached source with its shard count, size on disk,
compression policy and save time, as recorded in the descriptors.`,
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(cacheDir()); os.IsNotExist(err) {
		fmt.Printf("Cache directory %q does not exist.\n", cacheDir())
		return nil
	}

	cache, err := openCache()
	if err != nil {
		return err
	}
	defer cache.Close()

	infos, err := cache.Info(cmd.Context())
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		fmt.Println("No cached sources.")
		return nil
	}

	fmt.Printf("%-32s %7s %10s %-14s %s\n", "SOURCE", "SHARDS", "SIZE", "POLICY", "SAVED")
	var totalBytes int64
	var totalShards int
	for _, si := range infos {
		policy := "-"
		saved := "-"
		if m, err := manifest.Read(manifest.Path(cache.Dir(), si.Source)); err == nil {
			policy = m.Policy
			saved = humanize.Time(m.CreatedAt)
		}
		fmt.Printf("%-32s %7d %10s %-14s %s\n", si.Source, si.Shards, si.HumanSize, policy, saved)
		totalBytes += si.TotalBytes
		totalShards += si.Shards
	}
	fmt.Printf("\n%d sources, %d shards, %s total\n", len(infos), totalShards, humanize.IBytes(uint64(totalBytes)))
	return nil
}
