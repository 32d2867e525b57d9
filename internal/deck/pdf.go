package deck

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/gen2brain/go-fitz"
)

// FromPDF renders every page of a PDF into a PNG slide. PDF decks carry no
// speaker notes; the notes start empty and are filled in later by the VLM
// or by hand.
func FromPDF(path string) (*Deck, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer doc.Close()

	pageCount := doc.NumPage()
	if pageCount == 0 {
		return nil, fmt.Errorf("pdf has no pages: %s", path)
	}

	deck := &Deck{}
	for page := 0; page < pageCount; page++ {
		img, err := doc.Image(page)
		if err != nil {
			return nil, fmt.Errorf("render pdf page %d: %w", page+1, err)
		}

		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("encode pdf page %d: %w", page+1, err)
		}

		deck.Slides = append(deck.Slides, Slide{
			Index: page + 1,
			Image: buf.Bytes(),
		})
	}

	return deck, nil
}
