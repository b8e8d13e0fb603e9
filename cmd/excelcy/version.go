package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/excelcy"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of excelcy",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "excelcy version %s\n", strings.TrimSpace(excelcy.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
