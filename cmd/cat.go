package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var catCmd = &cobra.Command{
	Use:                   "cat FILE path",
	Short:                 "Lists a file's contents (list_file) to stdout",
	Args:                  cobra.ExactArgs(2),
	DisableFlagsInUseLine: true,
	Run: func(cmd *cobra.Command, args []string) {
		m, err := loadMount(args[0])
		if err != nil {
			fmt.Println(err)
			return
		}
		if err := m.FS.ListFile(args[1], m.FS.DefaultEncoding(), os.Stdout); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(catCmd)
}
