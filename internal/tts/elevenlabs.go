package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"slidecast/pkg/httputil"
)

const (
	elevenLabsBaseURL = "https://api.elevenlabs.io/v1"
	defaultModelID    = "eleven_multilingual_v2"
	defaultFormat     = "mp3_44100_128"
	elevenLabsTimeout = 60 * time.Second
)

type synthesizeRequest struct {
	Text    string `json:"text"`
	ModelID string `json:"model_id"`
}

type voicesResponse struct {
	Voices []struct {
		VoiceID string            `json:"voice_id"`
		Name    string            `json:"name"`
		Labels  map[string]string `json:"labels"`
	} `json:"voices"`
}

type elevenLabsError struct {
	Detail struct {
		Message string `json:"message"`
	} `json:"detail"`
}

type doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ElevenLabsClient implements Engine using the hosted ElevenLabs API.
type ElevenLabsClient struct {
	apiKey     string
	modelID    string
	format     string
	httpClient doer
	baseURL    string
}

// ElevenLabsOptions configures the ElevenLabs client.
type ElevenLabsOptions struct {
	ModelID string
	Format  string
}

// NewElevenLabsClient creates a new ElevenLabs TTS client. Hosted calls go
// through a retrying HTTP client so transient 429/5xx responses are absorbed.
func NewElevenLabsClient(apiKey string, opts ElevenLabsOptions) *ElevenLabsClient {
	modelID := opts.ModelID
	if modelID == "" {
		modelID = defaultModelID
	}
	format := opts.Format
	if format == "" {
		format = defaultFormat
	}
	return &ElevenLabsClient{
		apiKey:  apiKey,
		modelID: modelID,
		format:  format,
		httpClient: httputil.NewRetryClient(
			&http.Client{Timeout: elevenLabsTimeout},
			httputil.DefaultRetryConfig(),
		),
		baseURL: elevenLabsBaseURL,
	}
}

// Voices lists the account's selectable voices as id -> descriptive label.
func (c *ElevenLabsClient) Voices(ctx context.Context) (map[string]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/voices", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp.Status, body)
	}

	var vr voicesResponse
	if err := json.Unmarshal(body, &vr); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	voices := make(map[string]string, len(vr.Voices))
	for _, v := range vr.Voices {
		label := v.Name
		var traits []string
		if useCase := v.Labels["use_case"]; useCase != "" {
			traits = append(traits, useCase)
		}
		if desc := v.Labels["description"]; desc != "" {
			traits = append(traits, desc)
		}
		if len(traits) > 0 {
			label = fmt.Sprintf("%s - %s", v.Name, strings.Join(traits, " - "))
		}
		voices[v.VoiceID] = label
	}
	return voices, nil
}

// Synthesize converts text to encoded audio with the given voice. The
// language argument is ignored: the multilingual model infers it from the
// text.
func (c *ElevenLabsClient) Synthesize(ctx context.Context, voiceID, text, language string) ([]byte, error) {
	reqBody := synthesizeRequest{
		Text:    text,
		ModelID: c.modelID,
	}
	data, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/text-to-speech/%s?output_format=%s", c.baseURL, voiceID, c.format)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(data))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp.Status, body)
	}

	if len(body) == 0 {
		return nil, fmt.Errorf("elevenlabs: empty audio response")
	}

	return body, nil
}

func apiError(status string, body []byte) error {
	var errResp elevenLabsError
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Detail.Message != "" {
		return fmt.Errorf("elevenlabs: %s", errResp.Detail.Message)
	}
	return fmt.Errorf("elevenlabs: %s", status)
}

// SetBaseURL sets the base URL for testing.
func (c *ElevenLabsClient) SetBaseURL(url string) {
	c.baseURL = url
}
