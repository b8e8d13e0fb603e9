package main

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/aretw0/excelcy/pkg/trainer"
	"github.com/spf13/cobra"
)

var prepareCmd = &cobra.Command{
	Use:   "prepare <input> [output]",
	Short: "Turn sources into trains and apply prepare directives",
	Long: `Load <input>, add a train for every source text, label every match of the
prepare directives as a gold, and save the result to [output] (default: <input>).`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, out := args[0], args[0]
		if len(args) == 2 {
			out = args[1]
		}

		svc, err := open(cmd.Context(), in)
		if err != nil {
			return err
		}

		tr := trainer.New(svc.Storage(), nil,
			trainer.WithBaseDir(filepath.Dir(in)),
			trainer.WithLogger(slog.Default()),
		)
		trains, err := tr.Ingest(cmd.Context())
		if err != nil {
			return err
		}
		golds, err := tr.ApplyPrepares(cmd.Context())
		if err != nil {
			return err
		}

		if err := svc.Save(cmd.Context(), out); err != nil {
			return fmt.Errorf("failed to save %s: %w", out, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %d trains and %d golds, saved to %s\n", trains, golds, out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(prepareCmd)
}
