package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"slidecast/internal/app"
	"slidecast/internal/deck"
	"slidecast/internal/vlm"
	"slidecast/pkg/config"

	"github.com/spf13/cobra"
)

var notesSaveDir string

var notesCmd = &cobra.Command{
	Use:   "notes <deck>",
	Short: "Generate narration notes for a deck",
	Long: `Notes describes every slide with the configured vision-language model
and prints the narration text. With --save the notes are written as one
text file per slide.`,
	Args: cobra.ExactArgs(1),
	RunE: runNotes,
}

func init() {
	notesCmd.Flags().StringVar(&notesSaveDir, "save", "", "Directory to write per-slide note files into")
	rootCmd.AddCommand(notesCmd)
}

func runNotes(cmd *cobra.Command, args []string) error {
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
	slog.Info("Deck loaded", "slides", len(d.Slides))

	client, err := svc.VLM(ctx)
	if err != nil {
		return err
	}

	delay := time.Duration(cfg.VLM.RequestDelayMS) * time.Millisecond
	results := client.DescribeDeck(ctx, d.Images(), cfg.VLM.Prompt, cfg.VLM.MaxTokens, delay)

	for i, r := range results {
		if r.Err != nil {
			fmt.Printf("--- Slide %d ---\n(description failed: %v)\n\n", i+1, r.Err)
			continue
		}
		fmt.Printf("--- Slide %d ---\n%s\n\n", i+1, r.Text)
	}

	if notesSaveDir != "" {
		return saveNotes(notesSaveDir, results)
	}
	return nil
}

func saveNotes(dir string, results []vlm.NoteResult) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating notes directory: %w", err)
	}
	for i, r := range results {
		if r.Err != nil {
			continue
		}
		name := filepath.Join(dir, fmt.Sprintf("slide_%03d.txt", i+1))
		if err := os.WriteFile(name, []byte(r.Text), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
	}
	slog.Info("Notes saved", "dir", dir)
	return nil
}
