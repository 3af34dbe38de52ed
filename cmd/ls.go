package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var lsCmd = &cobra.Command{
	Use:                   "ls FILE [glob]",
	Short:                 "Lists directory entries matching glob (default *)",
	Args:                  cobra.RangeArgs(1, 2),
	DisableFlagsInUseLine: true,
	Run: func(cmd *cobra.Command, args []string) {
		m, err := loadMount(args[0])
		if err != nil {
			fmt.Println(err)
			return
		}
		glob := "*"
		if len(args) == 2 {
			glob = args[1]
		}
		if err := m.FS.ListDir(glob, os.Stdout); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(lsCmd)
}
