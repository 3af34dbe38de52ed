// Package cmd wires the vtfs CLI: one cobra subcommand per external
// interface named in spec.md §6 (mount/ls/cat/get/test/dump), plus
// info. Mirrors the teacher's per-subcommand-file layout (one file per
// verb, each calling rootCmd.AddCommand in its own init()) rather than one
// monolithic command file.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "vtfs",
	Short: "Read-only vintage filesystem exchange engine",
	Long: `vtfs mounts disk and tape images from RT-11, ODS-1 (Files-11),
the Unix V5/V6/V7/2.8BSD/2.11BSD inode family, tar and Commodore DOS,
exposing them through a common read-only filesystem interface.`,
}

// Execute runs the root command, exiting non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
