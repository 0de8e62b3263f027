// Package main provides the scancache CLI for inspecting, verifying and
// benchmarking on-disk caches of indexed mass-spectrometry scan data.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
