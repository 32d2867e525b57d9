package vlm

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultLMStudioURL = "http://localhost:1234/v1"
	defaultLMStudioKey = "lm-studio"
	lmstudioTimeout    = 120 * time.Second
)

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
	Stream    bool          `json:"stream"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// LMStudioClient talks to a locally served vision model over the
// OpenAI-compatible chat completions API.
type LMStudioClient struct {
	apiKey     string
	model      string
	httpClient *http.Client
	baseURL    string
}

// LMStudioOptions configures the LM Studio client.
type LMStudioOptions struct {
	BaseURL string
	Model   string
	APIKey  string
}

// NewLMStudioClient creates a client for a local OpenAI-compatible server.
func NewLMStudioClient(opts LMStudioOptions) *LMStudioClient {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = defaultLMStudioURL
	}
	apiKey := opts.APIKey
	if apiKey == "" {
		apiKey = defaultLMStudioKey
	}
	return &LMStudioClient{
		apiKey:     apiKey,
		model:      opts.Model,
		httpClient: &http.Client{Timeout: lmstudioTimeout},
		baseURL:    baseURL,
	}
}

// DescribeSlide sends one slide image with the user prompt and returns the
// generated narration text.
func (c *LMStudioClient) DescribeSlide(ctx context.Context, image []byte, prompt string, maxTokens int) (string, error) {
	encoded := base64.StdEncoding.EncodeToString(image)
	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: []contentPart{
				{Type: "text", Text: prompt},
				{Type: "image_url", ImageURL: &imageURL{
					URL: "data:image/jpeg;base64," + encoded,
				}},
			}},
		},
		MaxTokens: maxTokens,
		Stream:    false,
	}

	data, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewBuffer(data))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if chatResp.Error != nil && chatResp.Error.Message != "" {
			return "", fmt.Errorf("lmstudio: %s", chatResp.Error.Message)
		}
		return "", fmt.Errorf("lmstudio: %s", resp.Status)
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("lmstudio: no response")
	}

	return strings.TrimSpace(chatResp.Choices[0].Message.Content), nil
}

// DescribeDeck applies DescribeSlide to every image in slide order.
func (c *LMStudioClient) DescribeDeck(ctx context.Context, images [][]byte, prompt string, maxTokens int, delay time.Duration) []NoteResult {
	return describeAll(ctx, c, images, prompt, maxTokens, delay)
}

// SetBaseURL sets the base URL for testing.
func (c *LMStudioClient) SetBaseURL(url string) {
	c.baseURL = url
}
