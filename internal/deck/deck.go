// Package deck loads slide decks: ordered slide images with optional
// speaker notes. The pipeline consumes a deck's images, notes, and
// narration audio as parallel, equal-length sequences.
package deck

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Slide is one deck page: a 1-based ordinal position, the page rendered as
// an encoded raster image, and a mutable narration note. Slides are never
// reordered after ingestion.
type Slide struct {
	Index int
	Image []byte
	Note  string
}

// Deck is an ordered slide sequence.
type Deck struct {
	Slides []Slide
}

// Images returns the slide images in order.
func (d *Deck) Images() [][]byte {
	images := make([][]byte, len(d.Slides))
	for i, s := range d.Slides {
		images[i] = s.Image
	}
	return images
}

// Notes returns the narration notes in order, one per slide.
func (d *Deck) Notes() []string {
	notes := make([]string, len(d.Slides))
	for i, s := range d.Slides {
		notes[i] = s.Note
	}
	return notes
}

// SetNotes overwrites the deck's notes. The list must match the slide
// count.
func (d *Deck) SetNotes(notes []string) error {
	if len(notes) != len(d.Slides) {
		return fmt.Errorf("note count %d does not match slide count %d", len(notes), len(d.Slides))
	}
	for i := range d.Slides {
		d.Slides[i].Note = notes[i]
	}
	return nil
}

var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

// FromDir loads a deck from a directory of image files in lexical order.
// A sidecar text file with the same base name provides the slide's note.
func FromDir(dir string) (*Deck, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read deck directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if imageExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	if len(names) == 0 {
		return nil, fmt.Errorf("no slide images in %s", dir)
	}

	deck := &Deck{}
	for i, name := range names {
		imagePath := filepath.Join(dir, name)
		data, err := os.ReadFile(imagePath)
		if err != nil {
			return nil, fmt.Errorf("read slide image %s: %w", name, err)
		}

		note := ""
		notePath := strings.TrimSuffix(imagePath, filepath.Ext(imagePath)) + ".txt"
		if noteData, err := os.ReadFile(notePath); err == nil {
			note = strings.TrimSpace(string(noteData))
		}

		deck.Slides = append(deck.Slides, Slide{
			Index: i + 1,
			Image: data,
			Note:  note,
		})
	}

	return deck, nil
}

// Load opens a deck from either a PDF file or a directory of images.
func Load(path string) (*Deck, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat deck: %w", err)
	}
	if info.IsDir() {
		return FromDir(path)
	}
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return FromPDF(path)
	}
	return nil, fmt.Errorf("unsupported deck format: %s", path)
}
