package video

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

const (
	defaultFFmpegPath = "ffmpeg"
	defaultFrameRate  = 1

	encodePhaseStart = 60.0
	encodePhaseEnd   = 100.0
)

// Encoder renders a timeline to an MP4 file through an external ffmpeg
// binary: H.264 video, AAC audio, yuv420p for broad playback compatibility.
// Each clip becomes its own segment first, then the segments are joined
// with the concat demuxer, which tolerates the heterogeneous frame sizes by
// composing every segment onto a shared padded canvas.
type Encoder struct {
	ffmpegPath string
	frameRate  int
	workDir    string
	runner     Runner
}

// EncoderOptions configures the encoder.
type EncoderOptions struct {
	FFmpegPath string
	FrameRate  int
	WorkDir    string
	Runner     Runner
}

func NewEncoder(opts EncoderOptions) *Encoder {
	ffmpegPath := opts.FFmpegPath
	if ffmpegPath == "" {
		ffmpegPath = defaultFFmpegPath
	}
	frameRate := opts.FrameRate
	if frameRate <= 0 {
		frameRate = defaultFrameRate
	}
	runner := opts.Runner
	if runner == nil {
		runner = execRunner{}
	}
	return &Encoder{
		ffmpegPath: ffmpegPath,
		frameRate:  frameRate,
		workDir:    opts.WorkDir,
		runner:     runner,
	}
}

// Render writes the timeline to outputPath, pushing fractional progress to
// report during the encode. On any failure it removes the partial output
// and returns the error; the caller must treat that as "video not
// produced".
func (e *Encoder) Render(ctx context.Context, t *Timeline, outputPath string, report func(Event)) (string, error) {
	if t == nil || len(t.Clips) == 0 {
		return "", fmt.Errorf("empty timeline")
	}

	canvasW, canvasH := t.CanvasSize()

	// One step per segment plus the final concat.
	steps := len(t.Clips) + 1
	span := encodePhaseEnd - encodePhaseStart

	segments := make([]string, 0, len(t.Clips))
	defer func() {
		for _, s := range segments {
			_ = os.Remove(s)
		}
	}()

	for i, clip := range t.Clips {
		segPath := filepath.Join(e.workDir, fmt.Sprintf("segment_%03d.mp4", i))
		args := e.segmentArgs(clip, canvasW, canvasH, segPath)
		if out, err := e.runner.Run(ctx, e.ffmpegPath, args...); err != nil {
			return "", fmt.Errorf("encode segment %d: %w, output: %s", i, err, string(out))
		}
		segments = append(segments, segPath)

		if report != nil {
			report(Event{
				Stage:   StageEncoding,
				Percent: encodePhaseStart + float64(i+1)/float64(steps)*span,
			})
		}
	}

	if err := e.concat(ctx, segments, outputPath); err != nil {
		_ = os.Remove(outputPath)
		return "", err
	}

	if report != nil {
		report(Event{Stage: StageEncoding, Percent: encodePhaseEnd})
	}
	return outputPath, nil
}

// segmentArgs builds the ffmpeg invocation for one clip: the still image
// looped for the clip duration, scaled to fit the shared canvas and padded
// centered, with either the narration track or generated silence.
func (e *Encoder) segmentArgs(clip Clip, canvasW, canvasH int, segPath string) []string {
	args := []string{
		"-y",
		"-loop", "1",
		"-i", clip.ImagePath,
	}

	if clip.AudioPath != "" {
		args = append(args, "-i", clip.AudioPath)
	} else {
		args = append(args, "-f", "lavfi", "-i", "anullsrc=r=44100:cl=mono")
	}

	vf := fmt.Sprintf(
		"scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2:black",
		canvasW, canvasH, canvasW, canvasH,
	)

	args = append(args,
		"-t", fmt.Sprintf("%.3f", clip.Duration),
		"-vf", vf,
		"-r", strconv.Itoa(e.frameRate),
		"-c:v", "libx264",
		"-tune", "stillimage",
		"-c:a", "aac",
		"-ar", "44100",
		"-pix_fmt", "yuv420p",
		segPath,
	)
	return args
}

func (e *Encoder) concat(ctx context.Context, segments []string, outputPath string) error {
	listPath := filepath.Join(e.workDir, "concat_list.txt")
	var listContent string
	for _, seg := range segments {
		absPath, err := filepath.Abs(seg)
		if err != nil {
			return fmt.Errorf("failed to get absolute path: %w", err)
		}
		listContent += fmt.Sprintf("file '%s'\n", absPath)
	}
	if err := os.WriteFile(listPath, []byte(listContent), 0644); err != nil {
		return fmt.Errorf("failed to write concat list: %w", err)
	}
	defer func() { _ = os.Remove(listPath) }()

	args := []string{
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-c", "copy",
		outputPath,
	}

	if out, err := e.runner.Run(ctx, e.ffmpegPath, args...); err != nil {
		return fmt.Errorf("ffmpeg concat failed: %w, output: %s", err, string(out))
	}
	return nil
}
