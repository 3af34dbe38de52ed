package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var dumpCmd = &cobra.Command{
	Use:                   "dump FILE path",
	Short:                 "Hex-dumps a file's contents (dump_file)",
	Args:                  cobra.ExactArgs(2),
	DisableFlagsInUseLine: true,
	Run: func(cmd *cobra.Command, args []string) {
		m, err := loadMount(args[0])
		if err != nil {
			fmt.Println(err)
			return
		}
		if err := m.FS.DumpFile(args[1], os.Stdout); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(dumpCmd)
}
