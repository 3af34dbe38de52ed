package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"vtfs/cbmdos"
	"vtfs/fsprobe"
)

var testCmd = &cobra.Command{
	Use:   "test FILE",
	Short: "Runs the probe ladder to the highest passing level and reports it",
	Long: `Runs the registered filesystems' tiered tests against FILE in
registration order, stopping at the first candidate that passes the top
level, and prints the highest level each tried candidate reached plus
its diagnostics. This is the verification entry point for the probe
hierarchy of spec.md §4.5.`,
	Args:                  cobra.ExactArgs(1),
	DisableFlagsInUseLine: true,
	Run: func(cmd *cobra.Command, args []string) {
		path := args[0]
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		v, err := buildVolume(path, data)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		if _, _, cerr := cbmdos.Build(data, path); cerr == nil {
			fmt.Printf("cbmdos: geometry recognized\n")
		}
		result, all := fsprobe.Run(v, os.Stdout)
		for _, r := range all {
			fmt.Println(fsprobe.Describe(r))
		}
		if result == nil {
			fmt.Println("no filesystem candidate passed; falling back to raw view")
		}
	},
}

func init() {
	rootCmd.AddCommand(testCmd)
}
