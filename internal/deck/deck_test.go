package deck

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name string, data []byte) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFromDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "02_second.png", []byte("img-b"))
	writeFile(t, dir, "01_first.png", []byte("img-a"))
	writeFile(t, dir, "01_first.txt", []byte("Welcome to the course.\n"))
	writeFile(t, dir, "notes.md", []byte("ignored"))

	d, err := FromDir(dir)
	if err != nil {
		t.Fatalf("error = %v", err)
	}
	if len(d.Slides) != 2 {
		t.Fatalf("slides = %d, want 2", len(d.Slides))
	}

	if string(d.Slides[0].Image) != "img-a" || string(d.Slides[1].Image) != "img-b" {
		t.Error("slides not in lexical order")
	}
	if d.Slides[0].Index != 1 || d.Slides[1].Index != 2 {
		t.Errorf("indices = %d, %d, want 1, 2", d.Slides[0].Index, d.Slides[1].Index)
	}
	if d.Slides[0].Note != "Welcome to the course." {
		t.Errorf("note = %q", d.Slides[0].Note)
	}
	if d.Slides[1].Note != "" {
		t.Errorf("slide without sidecar got note %q", d.Slides[1].Note)
	}
}

func TestFromDirEmpty(t *testing.T) {
	if _, err := FromDir(t.TempDir()); err == nil {
		t.Fatal("expected error for directory without images")
	}
}

func TestLoadRejectsUnknownFormat(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "deck.pptx", []byte("zip"))

	if _, err := Load(filepath.Join(dir, "deck.pptx")); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestLoadMissingPath(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.pdf")); err == nil {
		t.Fatal("expected error for missing path")
	}
}

func TestDeckAccessors(t *testing.T) {
	d := &Deck{Slides: []Slide{
		{Index: 1, Image: []byte("a"), Note: "one"},
		{Index: 2, Image: []byte("b"), Note: "two"},
	}}

	images := d.Images()
	if len(images) != 2 || string(images[1]) != "b" {
		t.Errorf("images = %v", images)
	}

	notes := d.Notes()
	if notes[0] != "one" || notes[1] != "two" {
		t.Errorf("notes = %v", notes)
	}

	if err := d.SetNotes([]string{"uno", "dos"}); err != nil {
		t.Fatalf("error = %v", err)
	}
	if d.Slides[0].Note != "uno" {
		t.Errorf("note = %q", d.Slides[0].Note)
	}

	if err := d.SetNotes([]string{"just one"}); err == nil {
		t.Error("expected error on note count mismatch")
	}
}
