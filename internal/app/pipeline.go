package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"slidecast/internal/video"
)

// ErrRenderInProgress is returned when a render is requested while a
// previous one has not reached a terminal state yet.
var ErrRenderInProgress = errors.New("a render is already in progress")

// RenderRequest carries everything a single video render needs. Audios may
// be shorter than Images; missing slots are treated as silent slides.
type RenderRequest struct {
	Images          [][]byte
	Audios          [][]byte
	DefaultDuration float64
	SilenceDuration float64
	OutputPath      string
}

// Pipeline turns a set of slides and narration clips into a single video,
// reporting progress through a bridge while the work runs on a background
// goroutine.
type Pipeline struct {
	assembler *video.Assembler
	encoder   *video.Encoder

	rendering atomic.Bool
}

func NewPipeline(assembler *video.Assembler, encoder *video.Encoder) *Pipeline {
	return &Pipeline{assembler: assembler, encoder: encoder}
}

// Render validates the request, then starts the assembly and encode on a
// background goroutine. The returned bridge is how the caller observes
// progress and collects the final result. Only one render may run at a time.
func (p *Pipeline) Render(ctx context.Context, req RenderRequest) (*video.Bridge, error) {
	if len(req.Images) == 0 {
		return nil, errors.New("no slides to render")
	}
	if len(req.Audios) > len(req.Images) {
		return nil, fmt.Errorf("more narration clips (%d) than slides (%d)", len(req.Audios), len(req.Images))
	}
	if req.DefaultDuration <= 0 {
		return nil, fmt.Errorf("default slide duration must be positive, got %.2f", req.DefaultDuration)
	}
	if req.OutputPath == "" {
		return nil, errors.New("output path is required")
	}

	if !p.rendering.CompareAndSwap(false, true) {
		return nil, ErrRenderInProgress
	}

	audios := req.Audios
	if len(audios) < len(req.Images) {
		padded := make([][]byte, len(req.Images))
		copy(padded, audios)
		audios = padded
	}

	bridge := video.NewBridge()
	go p.run(ctx, req, audios, bridge)

	return bridge, nil
}

func (p *Pipeline) run(ctx context.Context, req RenderRequest, audios [][]byte, bridge *video.Bridge) {
	defer p.rendering.Store(false)
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Render worker panicked", "panic", r)
			bridge.Finish("", fmt.Errorf("render worker panicked: %v", r))
		}
	}()

	timeline, err := p.assembler.Assemble(ctx, req.Images, audios, req.DefaultDuration, req.SilenceDuration, bridge.Report)
	if err != nil {
		bridge.Finish("", fmt.Errorf("assembling timeline: %w", err))
		return
	}

	out, err := p.encoder.Render(ctx, timeline, req.OutputPath, bridge.Report)
	if err != nil {
		bridge.Finish("", fmt.Errorf("encoding video: %w", err))
		return
	}

	slog.Info("Render finished", "output", out, "clips", len(timeline.Clips), "duration", timeline.Duration())
	bridge.Finish(out, nil)
}
