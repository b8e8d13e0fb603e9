package main

import (
	"github.com/aretw0/excelcy/pkg/adapters/fs"
	"github.com/spf13/cobra"
)

var (
	showJSON bool
)

var showCmd = &cobra.Command{
	Use:   "show [file]",
	Short: "Print a data file in its normalized form",
	Long: `Load a data file and print the normalized document (defaults filled,
ids assigned) as YAML, or JSON with --json.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := dataFile(args)
		if err != nil {
			return err
		}
		svc, err := open(cmd.Context(), path)
		if err != nil {
			return err
		}

		var format fs.Format = fs.NewYAMLFormat()
		if showJSON {
			format = fs.NewJSONFormat()
		}
		out, err := format.Encode(svc.Storage().Items())
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output in JSON format")
}
