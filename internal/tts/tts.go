package tts

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
)

// ErrNoAccelerator is returned at construction time by engines that require
// a CUDA-capable device. This is a fatal precondition, not a retryable
// synthesis error.
var ErrNoAccelerator = errors.New("no compatible accelerator available")

// Engine is the core text-to-speech contract every provider implements.
type Engine interface {
	// Voices enumerates selectable voices as id -> display label. The
	// meaning of the id is provider-specific: hosted providers map real
	// voice ids, local models may map speaker presets.
	Voices(ctx context.Context) (map[string]string, error)

	// Synthesize converts text into an encoded audio payload using the
	// given voice and language. Providers that do not support language
	// selection ignore the argument.
	Synthesize(ctx context.Context, voiceID, text, language string) ([]byte, error)
}

// LanguageLister is implemented by engines whose synthesis is driven by a
// language selection in addition to (or instead of) a voice selection.
type LanguageLister interface {
	Languages(ctx context.Context) (map[string]string, error)
}

// SynthesizeDeck generates narration audio for every note in slide order.
// The result always has one slot per note: blank notes and failed calls
// yield a nil payload so a single failure never aborts the batch. A
// positive delay is applied between consecutive calls. The report callback,
// when set, receives a running counter after each slide.
func SynthesizeDeck(ctx context.Context, e Engine, voiceID, language string, notes []string, delay time.Duration, report func(done, total int)) [][]byte {
	audios := make([][]byte, len(notes))
	calls := 0
	for i, note := range notes {
		if strings.TrimSpace(note) == "" {
			reportProgress(report, i+1, len(notes))
			continue
		}
		if err := ctx.Err(); err != nil {
			reportProgress(report, i+1, len(notes))
			continue
		}
		if calls > 0 && delay > 0 {
			time.Sleep(delay)
		}
		calls++
		audio, err := e.Synthesize(ctx, voiceID, note, language)
		if err != nil {
			slog.Warn("Narration synthesis failed", "slide", i+1, "error", err)
			reportProgress(report, i+1, len(notes))
			continue
		}
		audios[i] = audio
		reportProgress(report, i+1, len(notes))
	}
	return audios
}

func reportProgress(report func(done, total int), done, total int) {
	if report != nil {
		report(done, total)
	}
}
