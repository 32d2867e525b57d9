package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"slidecast/internal/app"
	"slidecast/internal/deck"
	"slidecast/internal/video"
	"slidecast/pkg/config"

	"github.com/spf13/cobra"
)

var narrateDir string

var narrateCmd = &cobra.Command{
	Use:   "narrate <deck>",
	Short: "Synthesize narration audio for a deck",
	Long: `Narrate generates notes where missing, runs them through the configured
text-to-speech provider, and writes one audio file per narrated slide.`,
	Args: cobra.ExactArgs(1),
	RunE: runNarrate,
}

func init() {
	narrateCmd.Flags().StringVar(&narrateDir, "dir", "", "Directory to write audio files into (default the output directory)")
	rootCmd.AddCommand(narrateCmd)
}

func runNarrate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	svc := app.NewService(cfg)

	d, err := deck.Load(args[0])
	if err != nil {
		return err
	}

	if err := ensureNotes(ctx, svc, d); err != nil {
		return err
	}

	audios, err := narrateDeck(ctx, svc, d)
	if err != nil {
		return err
	}

	dir := narrateDir
	if dir == "" {
		dir = cfg.Video.OutputDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating audio directory: %w", err)
	}

	written := 0
	for i, audio := range audios {
		if audio == nil {
			continue
		}
		name := filepath.Join(dir, fmt.Sprintf("slide_%03d%s", i+1, video.DetectAudioFormat(audio)))
		if err := os.WriteFile(name, audio, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
		written++
	}

	slog.Info("Narration written", "dir", dir, "files", written, "slides", len(audios))
	return nil
}
