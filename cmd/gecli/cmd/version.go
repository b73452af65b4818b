package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/msto63/gecli/pkg/core/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.String())
		fmt.Printf("  Demo:       %s\n", version.ComponentVersion("demo"))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
