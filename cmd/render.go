package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"slidecast/internal/app"
	"slidecast/internal/deck"
	"slidecast/internal/tts"
	"slidecast/internal/video"
	"slidecast/internal/vlm"
	"slidecast/pkg/config"

	"github.com/spf13/cobra"
)

var (
	renderOutput    string
	renderLanguage  string
	renderKeepNotes bool
)

var renderCmd = &cobra.Command{
	Use:   "render <deck>",
	Short: "Render a deck into a narrated video",
	Long: `Render loads a deck (a PDF file or a directory of slide images),
generates narration notes for slides that have none, synthesizes speech,
and encodes the final video.`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "Output file name (default derived from the deck name)")
	renderCmd.Flags().StringVarP(&renderLanguage, "language", "l", "", "Translate notes into this language before narration")
	renderCmd.Flags().BoolVar(&renderKeepNotes, "keep-notes", false, "Use existing notes as-is, skip description")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	svc := app.NewService(cfg)
	return renderDeck(ctx, svc, args[0], renderOutput)
}

// renderDeck is the full deck-to-video flow shared by the render and watch
// commands.
func renderDeck(ctx context.Context, svc *app.Service, deckPath, outputName string) error {
	d, err := deck.Load(deckPath)
	if err != nil {
		return err
	}
	slog.Info("Deck loaded", "path", deckPath, "slides", len(d.Slides))

	if err := ensureNotes(ctx, svc, d); err != nil {
		return err
	}

	if renderLanguage != "" {
		if err := translateDeck(ctx, svc, d, renderLanguage); err != nil {
			return err
		}
	}

	audios, err := narrateDeck(ctx, svc, d)
	if err != nil {
		return err
	}

	pipeline, workDir, err := svc.Pipeline()
	if err != nil {
		return err
	}
	defer os.RemoveAll(workDir)

	if outputName == "" {
		outputName = deriveOutputName(deckPath)
	}

	cfg := svc.Config()
	bridge, err := pipeline.Render(ctx, app.RenderRequest{
		Images:          d.Images(),
		Audios:          audios,
		DefaultDuration: cfg.Video.DefaultDuration,
		SilenceDuration: cfg.Video.TransitionSilence,
		OutputPath:      svc.OutputPath(outputName),
	})
	if err != nil {
		return err
	}

	result := consumeProgress(bridge)
	if result.Err != nil {
		return result.Err
	}

	slog.Info("Video ready", "path", result.Path)
	return nil
}

// ensureNotes fills in narration for slides without one. When every slide
// already carries a note (image decks with sidecar files), description is
// skipped entirely.
func ensureNotes(ctx context.Context, svc *app.Service, d *deck.Deck) error {
	if renderKeepNotes || !hasBlankNotes(d) {
		return nil
	}

	client, err := svc.VLM(ctx)
	if err != nil {
		return err
	}

	cfg := svc.Config()
	slog.Info("Describing slides", "provider", cfg.VLM.Provider, "model", cfg.VLM.Model)

	delay := time.Duration(cfg.VLM.RequestDelayMS) * time.Millisecond
	results := client.DescribeDeck(ctx, d.Images(), cfg.VLM.Prompt, cfg.VLM.MaxTokens, delay)

	notes := d.Notes()
	for i, r := range results {
		if r.Err != nil || notes[i] != "" {
			continue
		}
		notes[i] = r.Text
	}
	if err := d.SetNotes(notes); err != nil {
		return err
	}

	if failed := countFailed(results); failed > 0 {
		slog.Warn("Some slides could not be described", "failed", failed, "total", len(results))
	}
	return nil
}

func translateDeck(ctx context.Context, svc *app.Service, d *deck.Deck, target string) error {
	tr, err := svc.Translator()
	if err != nil {
		return err
	}

	slog.Info("Translating notes", "target", target)
	notes := translateNotes(ctx, tr, d.Notes(), target)
	return d.SetNotes(notes)
}

func narrateDeck(ctx context.Context, svc *app.Service, d *deck.Deck) ([][]byte, error) {
	engine, err := svc.TTS(ctx)
	if err != nil {
		return nil, err
	}

	cfg := svc.Config()
	slog.Info("Synthesizing narration", "provider", cfg.TTS.Provider, "voice", cfg.TTS.Voice)

	delay := time.Duration(cfg.TTS.RequestDelayMS) * time.Millisecond
	audios := tts.SynthesizeDeck(ctx, engine, cfg.TTS.Voice, cfg.TTS.Language, d.Notes(), delay, func(done, total int) {
		slog.Debug("Narration progress", "done", done, "total", total)
	})
	return audios, nil
}

// consumeProgress drains the bridge until the render reaches a terminal
// state, logging stage transitions along the way.
func consumeProgress(bridge *video.Bridge) video.Result {
	lastStage := video.StageIdle
	for {
		event, ok := bridge.Poll(500 * time.Millisecond)
		if ok {
			if event.Stage != lastStage {
				slog.Info("Render stage", "stage", event.Stage.String())
				lastStage = event.Stage
			}
			slog.Debug("Render progress", "stage", event.Stage.String(), "percent", fmt.Sprintf("%.1f", event.Percent))
		}
		if result, done := bridge.Finished(); done {
			return result
		}
	}
}

func hasBlankNotes(d *deck.Deck) bool {
	for _, s := range d.Slides {
		if strings.TrimSpace(s.Note) == "" {
			return true
		}
	}
	return false
}

func countFailed(results []vlm.NoteResult) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}

func deriveOutputName(deckPath string) string {
	base := filepath.Base(deckPath)
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	return base + ".mp4"
}
