package tts

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultChatterboxURL = "http://localhost:8030"
	chatterboxTimeout    = 180 * time.Second
)

type chatterboxHealth struct {
	Status string `json:"status"`
	Device string `json:"device"`
}

type chatterboxRequest struct {
	Text            string `json:"text"`
	ReferenceBase64 string `json:"reference_b64"`
}

// ChatterboxClient implements Engine against a local voice-cloning model.
// It requires a reference audio sample at construction time and a
// CUDA-capable device on the serving side; either missing is a fatal
// construction error, never a synthesis error.
type ChatterboxClient struct {
	serverURL  string
	httpClient *http.Client
	reference  []byte
}

// ChatterboxOptions configures the voice-cloning client.
type ChatterboxOptions struct {
	ServerURL string
	Reference []byte
}

// NewChatterboxClient creates a voice-cloning client. It verifies the
// serving model runs on a CUDA device and fails with ErrNoAccelerator
// otherwise.
func NewChatterboxClient(opts ChatterboxOptions) (*ChatterboxClient, error) {
	if len(opts.Reference) == 0 {
		return nil, errors.New("chatterbox: reference audio sample is required")
	}

	serverURL := opts.ServerURL
	if serverURL == "" {
		serverURL = defaultChatterboxURL
	}

	c := &ChatterboxClient{
		serverURL:  serverURL,
		httpClient: &http.Client{Timeout: chatterboxTimeout},
		reference:  opts.Reference,
	}

	if err := c.checkAccelerator(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *ChatterboxClient) checkAccelerator() error {
	resp, err := c.httpClient.Get(c.serverURL + "/health")
	if err != nil {
		return fmt.Errorf("chatterbox server not running: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("chatterbox health check: %s", resp.Status)
	}

	var health chatterboxHealth
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return fmt.Errorf("chatterbox health check: %w", err)
	}

	if !strings.HasPrefix(health.Device, "cuda") {
		return fmt.Errorf("chatterbox on %q: %w", health.Device, ErrNoAccelerator)
	}
	return nil
}

// Voices returns the single cloned voice derived from the reference sample.
func (c *ChatterboxClient) Voices(ctx context.Context) (map[string]string, error) {
	return map[string]string{
		"reference": "Cloned voice (reference sample)",
	}, nil
}

// Synthesize generates speech in the cloned voice. The model is
// English-only, so voiceID and language are ignored.
func (c *ChatterboxClient) Synthesize(ctx context.Context, voiceID, text, language string) ([]byte, error) {
	reqBody := chatterboxRequest{
		Text:            text,
		ReferenceBase64: base64.StdEncoding.EncodeToString(c.reference),
	}
	data, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.serverURL+"/tts", bytes.NewBuffer(data))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chatterbox request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("chatterbox server error: %s - %s", resp.Status, string(body))
	}

	return io.ReadAll(resp.Body)
}

// SetServerURL sets the server URL for testing.
func (c *ChatterboxClient) SetServerURL(url string) {
	c.serverURL = url
}
