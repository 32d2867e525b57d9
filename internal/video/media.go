package video

import (
	"context"
	"fmt"
	"os/exec"
)

// Runner executes an external media tool and returns its combined output.
// The default runner shells out; tests inject fakes.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.CombinedOutput()
}

// probeDuration asks ffprobe for a media file's duration in seconds.
func probeDuration(ctx context.Context, runner Runner, ffprobePath, path string) (float64, error) {
	out, err := runner.Run(ctx, ffprobePath,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	if err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w", err)
	}

	var dur float64
	if _, err := fmt.Sscanf(string(out), "%f", &dur); err != nil {
		return 0, fmt.Errorf("failed to parse duration: %w", err)
	}
	return dur, nil
}

// DetectAudioFormat sniffs the payload's container so temp files get a
// useful extension for the encoder.
func DetectAudioFormat(data []byte) string {
	if len(data) < 4 {
		return ".bin"
	}

	// WAV: starts with "RIFF"
	if data[0] == 'R' && data[1] == 'I' && data[2] == 'F' && data[3] == 'F' {
		return ".wav"
	}

	// MP3: starts with ID3 or a frame sync
	if (data[0] == 'I' && data[1] == 'D' && data[2] == '3') ||
		(data[0] == 0xFF && (data[1]&0xE0) == 0xE0) {
		return ".mp3"
	}

	return ".bin"
}
