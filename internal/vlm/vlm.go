package vlm

import (
	"context"
	"log/slog"
	"time"
)

// systemPrompt keeps model scaffolding out of the returned narration text.
const systemPrompt = "You are an AI assistant that generates narrative descriptions for presentation slides. Only answer with the explanation of the slide, nothing else."

// NoteResult is the outcome of describing a single slide. Text may be empty
// both for a genuinely empty note and for a failed call; Err tells the two
// apart.
type NoteResult struct {
	Text string
	Err  error
}

// Client describes presentation slides with a vision-language model.
type Client interface {
	// DescribeSlide generates narration text for one slide image.
	DescribeSlide(ctx context.Context, image []byte, prompt string, maxTokens int) (string, error)

	// DescribeDeck generates narration for every slide in order. The result
	// always has one entry per input image; a per-slide failure is recorded
	// in place and never aborts the batch. A positive delay is applied
	// between consecutive calls for rate-limited hosted providers.
	DescribeDeck(ctx context.Context, images [][]byte, prompt string, maxTokens int, delay time.Duration) []NoteResult
}

func describeAll(ctx context.Context, c Client, images [][]byte, prompt string, maxTokens int, delay time.Duration) []NoteResult {
	results := make([]NoteResult, len(images))
	for i, img := range images {
		if err := ctx.Err(); err != nil {
			results[i] = NoteResult{Err: err}
			continue
		}
		if i > 0 && delay > 0 {
			time.Sleep(delay)
		}
		text, err := c.DescribeSlide(ctx, img, prompt, maxTokens)
		if err != nil {
			slog.Warn("Slide description failed", "slide", i+1, "error", err)
			results[i] = NoteResult{Err: err}
			continue
		}
		results[i] = NoteResult{Text: text}
	}
	return results
}

// Notes flattens batch results into plain note strings, substituting an
// empty string for failed slides.
func Notes(results []NoteResult) []string {
	notes := make([]string, len(results))
	for i, r := range results {
		notes[i] = r.Text
	}
	return notes
}
