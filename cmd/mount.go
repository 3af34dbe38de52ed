package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var mountCmd = &cobra.Command{
	Use:                   "mount FILE",
	Short:                 "Detects the container and filesystem, printing info()",
	Args:                  cobra.ExactArgs(1),
	DisableFlagsInUseLine: true,
	Run: func(cmd *cobra.Command, args []string) {
		m, err := loadMount(args[0])
		if err != nil {
			fmt.Println(err)
			return
		}
		fmt.Println(m.FS.Info())
	},
}

func init() {
	rootCmd.AddCommand(mountCmd)
}
