package translate

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeTranslator struct {
	failOn string
}

func (f *fakeTranslator) Translate(ctx context.Context, sourceLang, targetLang, text string) (string, error) {
	if text == f.failOn {
		return "", errors.New("model unavailable")
	}
	return "[" + targetLang + "] " + text, nil
}

func TestTranslateNotes(t *testing.T) {
	notes := []string{"first note", "second note"}

	got := TranslateNotes(context.Background(), &fakeTranslator{}, "en", "es", notes, nil)
	if len(got) != 2 {
		t.Fatalf("notes = %d, want 2", len(got))
	}
	for i, note := range got {
		if !strings.HasPrefix(note, "[es] ") {
			t.Errorf("note %d = %q, not translated", i, note)
		}
	}
}

func TestTranslateNotesBlankStaysBlank(t *testing.T) {
	notes := []string{"spoken", "", "  \t "}

	got := TranslateNotes(context.Background(), &fakeTranslator{}, "en", "de", notes, nil)
	if got[1] != "" || got[2] != "" {
		t.Errorf("blank notes must stay blank, got %q, %q", got[1], got[2])
	}
}

func TestTranslateNotesFailureKeepsOriginal(t *testing.T) {
	notes := []string{"good", "bad", "fine"}

	got := TranslateNotes(context.Background(), &fakeTranslator{failOn: "bad"}, "en", "fr", notes, nil)
	if got[1] != "bad" {
		t.Errorf("failed note = %q, want original kept", got[1])
	}
	if !strings.HasPrefix(got[0], "[fr] ") || !strings.HasPrefix(got[2], "[fr] ") {
		t.Error("successful notes lost their translation")
	}
}

func TestTranslateNotesReportsProgress(t *testing.T) {
	notes := []string{"one", "", "three"}

	var done []int
	TranslateNotes(context.Background(), &fakeTranslator{}, "en", "it", notes, func(d, total int) {
		if total != 3 {
			t.Errorf("total = %d, want 3", total)
		}
		done = append(done, d)
	})

	if len(done) != 3 || done[2] != 3 {
		t.Errorf("reports = %v, want counter through 3", done)
	}
}
