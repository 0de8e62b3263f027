package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the cache directory and every cached entry",
	RunE:  runClear,
}

var clearYes bool

func init() {
	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "skip the confirmation prompt")
	rootCmd.AddCommand(clearCmd)
}

func runClear(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(cacheDir()); os.IsNotExist(err) {
		fmt.Printf("Cache directory %q does not exist; nothing to clear.\n", cacheDir())
		return nil
	}

	if !clearYes {
		fmt.Printf("Remove cache directory %q and everything in it? [y/N]: ", cacheDir())
		answer, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return fmt.Errorf("reading confirmation: %w", err)
		}
		if s := strings.ToLower(strings.TrimSpace(answer)); s != "y" && s != "yes" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	cache, err := openCache()
	if err != nil {
		return err
	}
	defer cache.Close()

	if err := cache.Clear(cmd.Context()); err != nil {
		return err
	}
	fmt.Printf("Cache directory %q removed.\n", cacheDir())
	return nil
}
