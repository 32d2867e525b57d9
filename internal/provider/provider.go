// Package provider resolves provider names and credentials into concrete
// VLM and TTS clients. Configuration is validated before any network or
// model I/O, and resolved clients are cached per (kind, name, credential)
// so expensive local models are constructed once.
package provider

import (
	"context"
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"slidecast/internal/tts"
	"slidecast/internal/vlm"
)

// Kind selects the capability a provider is resolved for.
type Kind string

const (
	KindVLM Kind = "vlm"
	KindTTS Kind = "tts"
)

// Config carries the capability-specific settings for one client instance.
// A changed credential or provider name requires resolving a new client.
type Config struct {
	APIKey       string
	BaseURL      string
	Model        string
	Reference    []byte // voice-cloning reference sample
	RequestDelay time.Duration
}

// Registry caches resolved clients. The zero value is not usable; call
// NewRegistry.
type Registry struct {
	mu      sync.Mutex
	vlms    map[string]vlm.Client
	engines map[string]tts.Engine
}

func NewRegistry() *Registry {
	return &Registry{
		vlms:    make(map[string]vlm.Client),
		engines: make(map[string]tts.Engine),
	}
}

// VLM resolves a vision-language-model client by provider name.
func (r *Registry) VLM(ctx context.Context, name string, cfg Config) (vlm.Client, error) {
	switch name {
	case "lmstudio":
	case "gemini":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("%s: %w", name, ErrMissingCredential)
		}
	default:
		return nil, fmt.Errorf("%s: %w", name, ErrUnsupportedProvider)
	}

	key := cacheKey(KindVLM, name, cfg)

	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.vlms[key]; ok {
		return c, nil
	}

	var (
		client vlm.Client
		err    error
	)
	switch name {
	case "lmstudio":
		client = vlm.NewLMStudioClient(vlm.LMStudioOptions{
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			APIKey:  cfg.APIKey,
		})
	case "gemini":
		client, err = vlm.NewGeminiClient(ctx, cfg.APIKey, cfg.Model)
	}
	if err != nil {
		return nil, err
	}

	r.vlms[key] = client
	return client, nil
}

// TTS resolves a text-to-speech engine by provider name.
func (r *Registry) TTS(ctx context.Context, name string, cfg Config) (tts.Engine, error) {
	switch name {
	case "elevenlabs":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("%s: %w", name, ErrMissingCredential)
		}
	case "xtts", "stub":
	case "chatterbox":
		if len(cfg.Reference) == 0 {
			return nil, fmt.Errorf("%s: %w", name, ErrMissingReference)
		}
	default:
		return nil, fmt.Errorf("%s: %w", name, ErrUnsupportedProvider)
	}

	key := cacheKey(KindTTS, name, cfg)

	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.engines[key]; ok {
		return e, nil
	}

	var (
		engine tts.Engine
		err    error
	)
	switch name {
	case "elevenlabs":
		engine = tts.NewElevenLabsClient(cfg.APIKey, tts.ElevenLabsOptions{ModelID: cfg.Model})
	case "xtts":
		engine = tts.NewXTTSClient(tts.XTTSOptions{ServerURL: cfg.BaseURL})
	case "chatterbox":
		engine, err = tts.NewChatterboxClient(tts.ChatterboxOptions{
			ServerURL: cfg.BaseURL,
			Reference: cfg.Reference,
		})
	case "stub":
		engine = tts.NewStubEngine(0)
	}
	if err != nil {
		return nil, err
	}

	r.engines[key] = engine
	return engine, nil
}

// cacheKey folds the credential material into the key so a changed API key
// or reference sample yields a distinct client, never a stale cached one.
func cacheKey(kind Kind, name string, cfg Config) string {
	h := sha256.New()
	h.Write([]byte(cfg.APIKey))
	h.Write(cfg.Reference)
	h.Write([]byte(cfg.BaseURL))
	return fmt.Sprintf("%s/%s/%x", kind, name, h.Sum(nil)[:8])
}
