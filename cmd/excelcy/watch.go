package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/aretw0/lifecycle"

	lifecycleadapter "github.com/aretw0/excelcy/pkg/adapters/lifecycle"
	"github.com/aretw0/excelcy/pkg/core"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch [file]",
	Short: "Reload a data file every time it changes",
	Long:  `Load a data file, then reload it on every change and log a summary (or the load error) until interrupted.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := dataFile(args)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		svc, err := open(ctx, path)
		if err != nil {
			return err
		}
		logSummary(svc, path)

		events, err := svc.Watch(ctx, path)
		if err != nil {
			return err
		}
		slog.Info("watching", "path", path)

		src := lifecycleadapter.NewSource(path, events)
		if err := src.Start(ctx); err != nil {
			return err
		}
		return watchLoop(ctx, svc, path, src.Events())
	},
}

func watchLoop(ctx context.Context, svc *core.Service, path string, events <-chan lifecycle.Event) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case e, ok := <-events:
			if !ok {
				return nil
			}
			ev, ok := e.(core.Event)
			if !ok {
				continue
			}
			if ev.Type == core.EventDelete {
				slog.Warn("data file removed", "path", path)
				continue
			}
			if err := svc.Load(ctx, path); err != nil {
				slog.Error("reload failed", "path", path, "error", err)
				continue
			}
			logSummary(svc, path)
		}
	}
}

func logSummary(svc *core.Service, path string) {
	s := svc.Storage()
	slog.Info("storage loaded",
		"path", path,
		"sources", s.Source.Len(),
		"prepares", s.Prepare.Len(),
		"trains", s.Train.Len(),
		"golds", s.Train.Golds(),
	)
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
