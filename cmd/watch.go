package cmd

import (
	"context"
	"errors"

	"slidecast/internal/app"
	"slidecast/internal/watcher"
	"slidecast/pkg/config"

	"github.com/spf13/cobra"
)

var watchDir string

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Watch a directory and render every deck dropped into it",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	dir := cfg.Watch.InputDir
	if len(args) > 0 {
		dir = args[0]
	}
	if dir == "" {
		return errors.New("no watch directory: pass one as an argument or set watch.input_dir")
	}

	svc := app.NewService(cfg)

	w := watcher.New(dir, func(ctx context.Context, path string) error {
		return renderDeck(ctx, svc, path, "")
	})

	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
