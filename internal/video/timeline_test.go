package video

import (
	"context"
	"math"
	"testing"
)

func TestAssembleClipPerSlide(t *testing.T) {
	b := testBuilder(t, 0)
	a := NewAssembler(b)

	images := [][]byte{testImage(t, 640, 480), testImage(t, 640, 480), testImage(t, 640, 480)}
	audios := make([][]byte, 3)

	timeline, err := a.Assemble(context.Background(), images, audios, 3.0, 0, nil)
	if err != nil {
		t.Fatalf("error = %v", err)
	}
	if len(timeline.Clips) != 3 {
		t.Errorf("clips = %d, want 3", len(timeline.Clips))
	}
	for i, c := range timeline.Clips {
		if c.Silence {
			t.Errorf("clip %d is a silence clip", i)
		}
	}
}

func TestAssembleWithSilenceGaps(t *testing.T) {
	b := testBuilder(t, 0)
	a := NewAssembler(b)

	images := [][]byte{testImage(t, 640, 480), testImage(t, 640, 480), testImage(t, 640, 480)}
	audios := make([][]byte, 3)

	timeline, err := a.Assemble(context.Background(), images, audios, 3.0, 1.0, nil)
	if err != nil {
		t.Fatalf("error = %v", err)
	}

	// 3 slides with a gap between each pair: 2N-1 clips.
	if len(timeline.Clips) != 5 {
		t.Fatalf("clips = %d, want 5", len(timeline.Clips))
	}
	for i, c := range timeline.Clips {
		wantSilence := i%2 == 1
		if c.Silence != wantSilence {
			t.Errorf("clip %d silence = %v, want %v", i, c.Silence, wantSilence)
		}
	}
	if last := timeline.Clips[len(timeline.Clips)-1]; last.Silence {
		t.Error("timeline must not end with a silence clip")
	}
}

func TestAssembleDuration(t *testing.T) {
	b := testBuilder(t, 5.0)
	a := NewAssembler(b)

	audio := append([]byte("RIFF"), make([]byte, 64)...)
	images := [][]byte{testImage(t, 640, 480), testImage(t, 640, 480)}
	audios := [][]byte{audio, audio}

	timeline, err := a.Assemble(context.Background(), images, audios, 3.0, 1.0, nil)
	if err != nil {
		t.Fatalf("error = %v", err)
	}

	// 5 + 1 + 5 seconds.
	if got := timeline.Duration(); math.Abs(got-11.0) > 1e-9 {
		t.Errorf("duration = %v, want 11.0", got)
	}
}

func TestAssembleThreeSlideScenario(t *testing.T) {
	// Narrated slides of 5s, 3s and 5s with 1s gaps: 15s in 5 clips.
	durations := []float64{5.0, 3.0, 5.0}
	calls := 0

	b := NewClipBuilder(t.TempDir())
	b.probe = func(ctx context.Context, path string) (float64, error) {
		d := durations[calls]
		calls++
		return d, nil
	}
	a := NewAssembler(b)

	audio := append([]byte("RIFF"), make([]byte, 64)...)
	images := [][]byte{testImage(t, 640, 480), testImage(t, 640, 480), testImage(t, 640, 480)}
	audios := [][]byte{audio, audio, audio}

	timeline, err := a.Assemble(context.Background(), images, audios, 3.0, 1.0, nil)
	if err != nil {
		t.Fatalf("error = %v", err)
	}

	if len(timeline.Clips) != 5 {
		t.Fatalf("clips = %d, want 5", len(timeline.Clips))
	}
	if got := timeline.Duration(); math.Abs(got-15.0) > 1e-9 {
		t.Errorf("duration = %v, want 15.0", got)
	}
}

func TestAssembleRejectsMismatchedSlots(t *testing.T) {
	a := NewAssembler(testBuilder(t, 0))

	_, err := a.Assemble(context.Background(), [][]byte{testImage(t, 64, 64)}, nil, 3.0, 0, nil)
	if err == nil {
		t.Fatal("expected error on image/audio slot mismatch")
	}
}

func TestAssembleRejectsNonPositiveDefaultDuration(t *testing.T) {
	a := NewAssembler(testBuilder(t, 0))

	images := [][]byte{testImage(t, 64, 64)}
	_, err := a.Assemble(context.Background(), images, make([][]byte, 1), 0, 0, nil)
	if err == nil {
		t.Fatal("expected error on zero default duration")
	}
}

func TestAssembleReportsSlidePhaseProgress(t *testing.T) {
	b := testBuilder(t, 0)
	a := NewAssembler(b)

	images := [][]byte{testImage(t, 64, 64), testImage(t, 64, 64)}

	var events []Event
	_, err := a.Assemble(context.Background(), images, make([][]byte, 2), 3.0, 0, func(e Event) {
		events = append(events, e)
	})
	if err != nil {
		t.Fatalf("error = %v", err)
	}

	if len(events) != 2 {
		t.Fatalf("events = %d, want 2", len(events))
	}
	if events[0].Percent != 25 || events[1].Percent != 50 {
		t.Errorf("percents = %v, %v, want 25, 50", events[0].Percent, events[1].Percent)
	}
	for _, e := range events {
		if e.Stage != StageSlideProcessing {
			t.Errorf("stage = %v, want slide processing", e.Stage)
		}
	}
}

func TestAssembleStopsOnCancelledContext(t *testing.T) {
	a := NewAssembler(testBuilder(t, 0))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	images := [][]byte{testImage(t, 64, 64)}
	_, err := a.Assemble(ctx, images, make([][]byte, 1), 3.0, 0, nil)
	if err == nil {
		t.Fatal("expected context error")
	}
}

func TestCanvasSize(t *testing.T) {
	timeline := &Timeline{Clips: []Clip{
		{Width: 640, Height: 480},
		{Width: 800, Height: 400},
		{Width: 320, Height: 600},
	}}

	w, h := timeline.CanvasSize()
	if w != 800 || h != 600 {
		t.Errorf("canvas = %dx%d, want 800x600", w, h)
	}
}
