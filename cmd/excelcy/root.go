package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/excelcy"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	lenient bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "excelcy",
	Short: "Annotation storage for named-entity-recognition training data",
	Long: `excelcy keeps NER training data (sources, prepare directives, texts and
their gold entity spans) in YAML, JSON or XLSX files and converts between them.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&lenient, "lenient", false, "Skip files with an unknown extension instead of failing")
}

func options() []excelcy.Option {
	return []excelcy.Option{
		excelcy.WithLogger(slog.Default()),
		excelcy.WithLenient(lenient),
	}
}

// dataFile returns the first argument, or the nearest excelcy data file.
func dataFile(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return excelcy.FindDataFile(wd)
}

func open(ctx context.Context, path string) (*excelcy.Service, error) {
	svc, err := excelcy.Open(ctx, path, options()...)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return svc, nil
}
