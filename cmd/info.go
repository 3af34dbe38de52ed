package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:                   "info FILE",
	Short:                 "Prints the mounted filesystem's info() without listing entries",
	Args:                  cobra.ExactArgs(1),
	DisableFlagsInUseLine: true,
	Run: func(cmd *cobra.Command, args []string) {
		m, err := loadMount(args[0])
		if err != nil {
			fmt.Println(err)
			return
		}
		fmt.Printf("type: %s\n%s\n", m.FS.Type(), m.FS.Info())
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
