package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"slidecast/internal/app"
	"slidecast/internal/deck"
	"slidecast/internal/translate"
	"slidecast/pkg/config"

	"github.com/spf13/cobra"
)

var (
	translateFrom string
	translateTo   string
)

var translateCmd = &cobra.Command{
	Use:   "translate <deck>",
	Short: "Translate a deck's narration notes",
	Args:  cobra.ExactArgs(1),
	RunE:  runTranslate,
}

func init() {
	translateCmd.Flags().StringVar(&translateFrom, "from", "en", "Source language")
	translateCmd.Flags().StringVar(&translateTo, "to", "", "Target language (required)")
	translateCmd.MarkFlagRequired("to")
	rootCmd.AddCommand(translateCmd)
}

func runTranslate(cmd *cobra.Command, args []string) error {
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

	tr, err := svc.Translator()
	if err != nil {
		return err
	}

	notes := translateNotesFrom(ctx, tr, d.Notes(), translateFrom, translateTo)
	for i, note := range notes {
		fmt.Printf("--- Slide %d ---\n%s\n\n", i+1, note)
	}
	return nil
}

func translateNotes(ctx context.Context, tr translate.Translator, notes []string, target string) []string {
	return translateNotesFrom(ctx, tr, notes, "en", target)
}

func translateNotesFrom(ctx context.Context, tr translate.Translator, notes []string, source, target string) []string {
	return translate.TranslateNotes(ctx, tr, source, target, notes, func(done, total int) {
		slog.Debug("Translation progress", "done", done, "total", total)
	})
}
