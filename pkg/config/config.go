package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultConfigPath = "config.yaml"

	defaultVLMProvider   = "lmstudio"
	defaultLMStudioURL   = "http://localhost:1234/v1"
	defaultLMStudioModel = "qwen2-vl-7b-instruct"
	defaultGeminiModel   = "gemini-2.0-flash"
	defaultMaxTokens     = 500
	defaultPrompt        = "You are an expert lecturer. You are shown one slide from your class. " +
		"Explain the topic it covers in the first person, as if speaking to your students. " +
		"Only answer with the spoken explanation, nothing else."

	defaultTTSProvider   = "elevenlabs"
	defaultXTTSServerURL = "http://localhost:8020"
	defaultLanguage      = "en"

	defaultOutputDir         = "./output"
	defaultOutputFile        = "final_video.mp4"
	defaultSlideDuration     = 3.0
	defaultTransitionSilence = 0.0
	defaultFrameRate         = 1

	defaultTranslateModel = "llama-3.3-70b-versatile"
)

type Config struct {
	ElevenLabsAPIKey string
	GeminiAPIKey     string
	GroqAPIKey       string

	VLM       VLMConfig       `yaml:"vlm"`
	TTS       TTSConfig       `yaml:"tts"`
	Video     VideoConfig     `yaml:"video"`
	Translate TranslateConfig `yaml:"translate"`
	Watch     WatchConfig     `yaml:"watch"`
}

type VLMConfig struct {
	Provider       string `yaml:"provider"` // "lmstudio" or "gemini"
	BaseURL        string `yaml:"base_url"`
	Model          string `yaml:"model"`
	MaxTokens      int    `yaml:"max_tokens"`
	RequestDelayMS int    `yaml:"request_delay_ms"`
	Prompt         string `yaml:"prompt"`
}

type TTSConfig struct {
	Provider       string `yaml:"provider"` // "elevenlabs", "xtts", "chatterbox" or "stub"
	ServerURL      string `yaml:"server_url"`
	Voice          string `yaml:"voice"`
	Language       string `yaml:"language"`
	ReferenceAudio string `yaml:"reference_audio"` // path to a voice sample, cloning providers only
	RequestDelayMS int    `yaml:"request_delay_ms"`
}

type VideoConfig struct {
	OutputDir         string  `yaml:"output_dir"`
	DefaultDuration   float64 `yaml:"default_duration"`
	TransitionSilence float64 `yaml:"transition_silence"`
	FrameRate         int     `yaml:"frame_rate"`
}

type TranslateConfig struct {
	Model string `yaml:"model"`
}

type WatchConfig struct {
	InputDir string `yaml:"input_dir"`
}

// Load reads secrets from the environment (with .env support) and settings
// from config.yaml, falling back to defaults for anything unset.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file found, relying on environment variables")
	}

	cfg := &Config{
		ElevenLabsAPIKey: os.Getenv("ELEVENLABS_API_KEY"),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		GroqAPIKey:       os.Getenv("GROQ_API_KEY"),
	}

	if err := loadYAML(cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)

	return cfg, nil
}

func loadYAML(cfg *Config) error {
	data, err := os.ReadFile(defaultConfigPath)
	if err != nil {
		slog.Warn("No config.yaml found, using defaults")
		return nil
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config.yaml: %w", err)
	}
	return nil
}

func applyDefaults(cfg *Config) {
	applyVLMDefaults(cfg)
	applyTTSDefaults(cfg)
	applyVideoDefaults(cfg)
	applyTranslateDefaults(cfg)
}

func applyVLMDefaults(cfg *Config) {
	if cfg.VLM.Provider == "" {
		cfg.VLM.Provider = defaultVLMProvider
	}
	if cfg.VLM.BaseURL == "" && cfg.VLM.Provider == "lmstudio" {
		cfg.VLM.BaseURL = defaultLMStudioURL
	}
	if cfg.VLM.Model == "" {
		switch cfg.VLM.Provider {
		case "gemini":
			cfg.VLM.Model = defaultGeminiModel
		default:
			cfg.VLM.Model = defaultLMStudioModel
		}
	}
	if cfg.VLM.MaxTokens <= 0 {
		cfg.VLM.MaxTokens = defaultMaxTokens
	}
	if cfg.VLM.Prompt == "" {
		cfg.VLM.Prompt = defaultPrompt
	}
}

func applyTTSDefaults(cfg *Config) {
	if cfg.TTS.Provider == "" {
		cfg.TTS.Provider = defaultTTSProvider
	}
	if cfg.TTS.ServerURL == "" && cfg.TTS.Provider == "xtts" {
		cfg.TTS.ServerURL = defaultXTTSServerURL
	}
	if cfg.TTS.Language == "" {
		cfg.TTS.Language = defaultLanguage
	}
}

func applyVideoDefaults(cfg *Config) {
	if cfg.Video.OutputDir == "" {
		cfg.Video.OutputDir = defaultOutputDir
	}
	if cfg.Video.DefaultDuration <= 0 {
		cfg.Video.DefaultDuration = defaultSlideDuration
	}
	if cfg.Video.TransitionSilence < 0 {
		cfg.Video.TransitionSilence = defaultTransitionSilence
	}
	if cfg.Video.FrameRate <= 0 {
		cfg.Video.FrameRate = defaultFrameRate
	}
}

func applyTranslateDefaults(cfg *Config) {
	if cfg.Translate.Model == "" {
		cfg.Translate.Model = defaultTranslateModel
	}
}
