package video

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"
)

// Clip is one timed visual segment of the timeline: a normalized image on
// disk, an optional audio track, and an explicit duration. Dimensions are
// always even, which the encoder's yuv420p pixel format requires.
type Clip struct {
	ImagePath string
	AudioPath string
	Width     int
	Height    int
	Duration  float64
	Silence   bool
}

// ClipBuilder turns slide image and audio payloads into clips. It writes
// normalized images and audio temp files into its working directory; the
// caller owns cleanup of that directory.
type ClipBuilder struct {
	workDir     string
	ffprobePath string
	runner      Runner
	probe       func(ctx context.Context, path string) (float64, error)
}

func NewClipBuilder(workDir string) *ClipBuilder {
	b := &ClipBuilder{
		workDir:     workDir,
		ffprobePath: "ffprobe",
		runner:      execRunner{},
	}
	b.probe = func(ctx context.Context, path string) (float64, error) {
		return probeDuration(ctx, b.runner, b.ffprobePath, path)
	}
	return b
}

// Build constructs the clip for one slide. When audio is present its probed
// duration dictates the clip duration; otherwise defaultDuration applies.
// Whitespace-only audio payloads count as absent.
func (b *ClipBuilder) Build(ctx context.Context, index int, imageData, audio []byte, defaultDuration float64) (Clip, error) {
	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return Clip{}, fmt.Errorf("decode slide %d image: %w", index+1, err)
	}

	img = normalizeDimensions(img)
	bounds := img.Bounds()

	imagePath := filepath.Join(b.workDir, fmt.Sprintf("slide_%03d.png", index+1))
	if err := writePNG(imagePath, img); err != nil {
		return Clip{}, fmt.Errorf("write slide %d image: %w", index+1, err)
	}

	clip := Clip{
		ImagePath: imagePath,
		Width:     bounds.Dx(),
		Height:    bounds.Dy(),
		Duration:  defaultDuration,
	}

	if len(bytes.TrimSpace(audio)) == 0 {
		return clip, nil
	}

	audioPath := filepath.Join(b.workDir, fmt.Sprintf("audio_%03d%s", index+1, DetectAudioFormat(audio)))
	if err := os.WriteFile(audioPath, audio, 0644); err != nil {
		return Clip{}, fmt.Errorf("write slide %d audio: %w", index+1, err)
	}

	duration, err := b.probe(ctx, audioPath)
	if err != nil {
		return Clip{}, fmt.Errorf("probe slide %d audio: %w", index+1, err)
	}

	clip.AudioPath = audioPath
	clip.Duration = duration
	return clip, nil
}

// Silence produces a black clip matching the frame size of the given clip,
// carrying no audio track.
func (b *ClipBuilder) Silence(after Clip, index int, duration float64) (Clip, error) {
	imagePath := filepath.Join(b.workDir, fmt.Sprintf("silence_%03d.png", index+1))
	black := image.NewRGBA(image.Rect(0, 0, after.Width, after.Height))
	if err := writePNG(imagePath, black); err != nil {
		return Clip{}, fmt.Errorf("write silence image: %w", err)
	}

	return Clip{
		ImagePath: imagePath,
		Width:     after.Width,
		Height:    after.Height,
		Duration:  duration,
		Silence:   true,
	}, nil
}

// normalizeDimensions downscales images with an odd width or height to the
// nearest even size. Even-dimensioned images pass through untouched.
func normalizeDimensions(img image.Image) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w%2 == 0 && h%2 == 0 {
		return img
	}

	evenW := w &^ 1
	evenH := h &^ 1
	if evenW == 0 {
		evenW = 2
	}
	if evenH == 0 {
		evenH = 2
	}

	dst := image.NewRGBA(image.Rect(0, 0, evenW, evenH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
