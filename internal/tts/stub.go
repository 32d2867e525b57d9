package tts

import (
	"context"
	"encoding/binary"
	"strings"
)

const (
	defaultWordsPerMinute = 150.0

	wavSampleRate      = 44100
	wavNumChannels     = 1
	wavBitsPerSample   = 16
	wavHeaderSize      = 44
	wavSubchunkSize    = 16
	wavAudioFormat     = 1
	wavChunkSizeOffset = 36
)

// StubEngine produces silent WAV narration sized by an estimated speaking
// rate. It exists for offline runs and tests.
type StubEngine struct {
	wordsPerMinute float64
}

func NewStubEngine(wordsPerMinute float64) *StubEngine {
	if wordsPerMinute <= 0 {
		wordsPerMinute = defaultWordsPerMinute
	}
	return &StubEngine{wordsPerMinute: wordsPerMinute}
}

func (s *StubEngine) Voices(ctx context.Context) (map[string]string, error) {
	return map[string]string{"silence": "Silent narration (stub)"}, nil
}

func (s *StubEngine) Synthesize(ctx context.Context, voiceID, text, language string) ([]byte, error) {
	wordCount := len(strings.Fields(text))
	duration := float64(wordCount) / s.wordsPerMinute * 60.0
	return GenerateSilentWAV(duration), nil
}

// GenerateSilentWAV produces a valid mono 16-bit PCM WAV payload of the
// given duration containing only silence.
func GenerateSilentWAV(durationSec float64) []byte {
	bytesPerSample := wavBitsPerSample / 8
	numSamples := int(durationSec * float64(wavSampleRate))
	dataSize := numSamples * wavNumChannels * bytesPerSample
	byteRate := wavSampleRate * wavNumChannels * bytesPerSample
	blockAlign := wavNumChannels * bytesPerSample

	buf := make([]byte, wavHeaderSize+dataSize)

	copy(buf[0:4], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:8], uint32(wavChunkSizeOffset+dataSize))
	copy(buf[8:12], "WAVE")

	copy(buf[12:16], "fmt ")
	binary.LittleEndian.PutUint32(buf[16:20], wavSubchunkSize)
	binary.LittleEndian.PutUint16(buf[20:22], wavAudioFormat)
	binary.LittleEndian.PutUint16(buf[22:24], wavNumChannels)
	binary.LittleEndian.PutUint32(buf[24:28], wavSampleRate)
	binary.LittleEndian.PutUint32(buf[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(buf[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(buf[34:36], wavBitsPerSample)

	copy(buf[36:40], "data")
	binary.LittleEndian.PutUint32(buf[40:44], uint32(dataSize))

	return buf
}
