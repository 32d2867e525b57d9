package cmd

import (
	"fmt"
	"sort"

	"slidecast/internal/app"
	"slidecast/internal/tts"
	"slidecast/pkg/config"

	"github.com/spf13/cobra"
)

var voicesCmd = &cobra.Command{
	Use:   "voices",
	Short: "List voices for the configured speech provider",
	RunE:  runVoices,
}

func init() {
	rootCmd.AddCommand(voicesCmd)
}

func runVoices(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	svc := app.NewService(cfg)

	engine, err := svc.TTS(ctx)
	if err != nil {
		return err
	}

	voices, err := engine.Voices(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Voices (%s):\n", cfg.TTS.Provider)
	printSorted(voices)

	if lister, ok := engine.(tts.LanguageLister); ok {
		languages, err := lister.Languages(ctx)
		if err != nil {
			return err
		}
		fmt.Println("\nLanguages:")
		printSorted(languages)
	}
	return nil
}

func printSorted(m map[string]string) {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		fmt.Printf("  %-30s %s\n", id, m[id])
	}
}
