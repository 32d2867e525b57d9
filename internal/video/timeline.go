package video

import (
	"context"
	"fmt"
)

// slidePhaseSpan is how much of the overall progress indicator the
// clip-building phase occupies; the encoding phase covers the rest.
const slidePhaseSpan = 50.0

// Timeline is the ordered, gap-free sequence of clips handed to the
// encoder. It exists only for the duration of one render.
type Timeline struct {
	Clips []Clip
}

// Duration is the sum of all member clip durations.
func (t *Timeline) Duration() float64 {
	var total float64
	for _, c := range t.Clips {
		total += c.Duration
	}
	return total
}

// CanvasSize returns the frame size every clip is composed onto: the
// maximum width and height across clips, so smaller frames are padded and
// centered rather than rejected.
func (t *Timeline) CanvasSize() (int, int) {
	var w, h int
	for _, c := range t.Clips {
		if c.Width > w {
			w = c.Width
		}
		if c.Height > h {
			h = c.Height
		}
	}
	return w, h
}

// Assembler builds the render timeline from ordered slide images and their
// narration audio.
type Assembler struct {
	builder *ClipBuilder
}

func NewAssembler(builder *ClipBuilder) *Assembler {
	return &Assembler{builder: builder}
}

// Assemble builds one clip per slide in order, inserting a silence clip
// after every slide except the last when silenceDuration is positive. The
// audio list must already be padded to the slide count. Progress is
// reported after each slide, scaled into the first pipeline phase.
func (a *Assembler) Assemble(ctx context.Context, images, audios [][]byte, defaultDuration, silenceDuration float64, report func(Event)) (*Timeline, error) {
	if len(images) != len(audios) {
		return nil, fmt.Errorf("slide count %d does not match audio slot count %d", len(images), len(audios))
	}
	if defaultDuration <= 0 {
		return nil, fmt.Errorf("default duration must be positive, got %v", defaultDuration)
	}

	total := len(images)
	timeline := &Timeline{}

	for i := range images {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		clip, err := a.builder.Build(ctx, i, images[i], audios[i], defaultDuration)
		if err != nil {
			return nil, err
		}
		timeline.Clips = append(timeline.Clips, clip)

		if silenceDuration > 0 && i < total-1 {
			silence, err := a.builder.Silence(clip, i, silenceDuration)
			if err != nil {
				return nil, err
			}
			timeline.Clips = append(timeline.Clips, silence)
		}

		if report != nil {
			report(Event{
				Stage:   StageSlideProcessing,
				Percent: float64(i+1) / float64(total) * slidePhaseSpan,
			})
		}
	}

	return timeline, nil
}
