package main

import (
	"errors"
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <pattern>...",
	Short: "Check that data files load",
	Long: `Load every file matching the given glob patterns (doublestar syntax,
e.g. "data/**/*.xlsx") and report the ones that fail.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		checked, failed := 0, 0

		for _, pattern := range args {
			matches, err := doublestar.FilepathGlob(pattern)
			if err != nil {
				return fmt.Errorf("invalid pattern %q: %w", pattern, err)
			}
			for _, path := range matches {
				checked++
				svc, err := open(cmd.Context(), path)
				if err != nil {
					failed++
					fmt.Fprintf(out, "FAIL %s: %v\n", path, err)
					continue
				}
				s := svc.Storage()
				fmt.Fprintf(out, "ok   %s (%d sources, %d prepares, %d trains, %d golds)\n",
					path, s.Source.Len(), s.Prepare.Len(), s.Train.Len(), s.Train.Golds())
			}
		}

		if checked == 0 {
			return errors.New("no files matched")
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d files failed", failed, checked)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
