package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"slidecast/internal/provider"
	"slidecast/internal/translate"
	"slidecast/internal/tts"
	"slidecast/internal/video"
	"slidecast/internal/vlm"
	"slidecast/pkg/config"
)

// Service wires configuration into provider clients and the render
// pipeline. Clients are constructed on demand through the registry, so
// repeated calls with unchanged credentials reuse the same instance.
type Service struct {
	cfg      *config.Config
	registry *provider.Registry
}

func NewService(cfg *config.Config) *Service {
	return &Service{cfg: cfg, registry: provider.NewRegistry()}
}

func (s *Service) Config() *config.Config { return s.cfg }

// VLM returns the configured slide-description client.
func (s *Service) VLM(ctx context.Context) (vlm.Client, error) {
	return s.registry.VLM(ctx, s.cfg.VLM.Provider, provider.Config{
		APIKey:       s.geminiKey(),
		BaseURL:      s.cfg.VLM.BaseURL,
		Model:        s.cfg.VLM.Model,
		RequestDelay: time.Duration(s.cfg.VLM.RequestDelayMS) * time.Millisecond,
	})
}

// TTS returns the configured speech engine. Voice-cloning providers load
// their reference sample from disk before the engine is constructed.
func (s *Service) TTS(ctx context.Context) (tts.Engine, error) {
	pc := provider.Config{
		APIKey:       s.cfg.ElevenLabsAPIKey,
		BaseURL:      s.cfg.TTS.ServerURL,
		RequestDelay: time.Duration(s.cfg.TTS.RequestDelayMS) * time.Millisecond,
	}

	if s.cfg.TTS.ReferenceAudio != "" {
		ref, err := os.ReadFile(s.cfg.TTS.ReferenceAudio)
		if err != nil {
			return nil, fmt.Errorf("reading reference audio: %w", err)
		}
		pc.Reference = ref
	}

	return s.registry.TTS(ctx, s.cfg.TTS.Provider, pc)
}

// Translator returns the note translator, or an error when no Groq key is
// configured.
func (s *Service) Translator() (translate.Translator, error) {
	if s.cfg.GroqAPIKey == "" {
		return nil, fmt.Errorf("translation requires GROQ_API_KEY to be set")
	}
	return translate.NewGroqTranslator(s.cfg.GroqAPIKey, s.cfg.Translate.Model)
}

// Pipeline builds a render pipeline with a fresh working directory for
// intermediate slide, audio and segment files.
func (s *Service) Pipeline() (*Pipeline, string, error) {
	if err := os.MkdirAll(s.cfg.Video.OutputDir, 0o755); err != nil {
		return nil, "", fmt.Errorf("creating output directory: %w", err)
	}

	workDir, err := os.MkdirTemp("", "slidecast-*")
	if err != nil {
		return nil, "", fmt.Errorf("creating work directory: %w", err)
	}

	builder := video.NewClipBuilder(workDir)
	assembler := video.NewAssembler(builder)
	encoder := video.NewEncoder(video.EncoderOptions{
		FrameRate: s.cfg.Video.FrameRate,
		WorkDir:   workDir,
	})

	return NewPipeline(assembler, encoder), workDir, nil
}

// OutputPath resolves the final video location inside the configured
// output directory.
func (s *Service) OutputPath(name string) string {
	return filepath.Join(s.cfg.Video.OutputDir, name)
}

func (s *Service) geminiKey() string {
	if s.cfg.VLM.Provider == "gemini" {
		return s.cfg.GeminiAPIKey
	}
	return ""
}
