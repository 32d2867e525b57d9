// Package translate wraps note translation behind a small collaborator
// interface. The video pipeline never calls it directly; translated notes
// reach the pipeline the same way generated ones do.
package translate

import (
	"context"
	"log/slog"
	"strings"
)

// Translator converts text between languages.
type Translator interface {
	Translate(ctx context.Context, sourceLang, targetLang, text string) (string, error)
}

// TranslateNotes translates every note in slide order. Blank notes stay
// blank, and a per-note failure keeps the original text so already
// succeeded items are retained; failures are logged, never propagated. The
// report callback receives a running counter.
func TranslateNotes(ctx context.Context, tr Translator, sourceLang, targetLang string, notes []string, report func(done, total int)) []string {
	translated := make([]string, len(notes))
	for i, note := range notes {
		if strings.TrimSpace(note) == "" {
			translated[i] = ""
			reportProgress(report, i+1, len(notes))
			continue
		}

		text, err := tr.Translate(ctx, sourceLang, targetLang, note)
		if err != nil {
			slog.Warn("Note translation failed", "slide", i+1, "error", err)
			translated[i] = note
			reportProgress(report, i+1, len(notes))
			continue
		}
		translated[i] = text
		reportProgress(report, i+1, len(notes))
	}
	return translated
}

func reportProgress(report func(done, total int), done, total int) {
	if report != nil {
		report(done, total)
	}
}
