package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var convertCmd = &cobra.Command{
	Use:   "convert <input> <output>",
	Short: "Convert a data file to another format",
	Long:  `Load <input> and save it as <output>. Formats are chosen by extension (.yml, .yaml, .json, .xlsx).`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := open(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if err := svc.Save(cmd.Context(), args[1]); err != nil {
			return fmt.Errorf("failed to save %s: %w", args[1], err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Converted %s to %s\n", args[0], args[1])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)
}
