package main

import (
	"encoding/json"

	"github.com/aretw0/introspection"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [file]",
	Short: "Print the state of the loaded storage as JSON",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := dataFile(args)
		if err != nil {
			return err
		}
		svc, err := open(cmd.Context(), path)
		if err != nil {
			return err
		}

		components := []introspection.Component{svc, svc.Storage()}
		state := make(map[string]any, len(components)+1)
		state["file"] = path
		for _, c := range components {
			if intro, ok := c.(introspection.Introspectable); ok {
				state[c.ComponentType()] = intro.State()
			}
		}

		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(state)
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
