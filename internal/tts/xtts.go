package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultXTTSServerURL = "http://localhost:8020"
	xttsTimeout          = 120 * time.Second
)

// xttsSpeakers are the studio speakers bundled with the XTTSv2 multilingual
// model.
var xttsSpeakers = []string{
	"Aaron Dreschner", "Abrahan Mack", "Adde Michal", "Alexandra Hisakawa", "Alison Dietlinde",
	"Alma María", "Ana Florence", "Andrew Chipper", "Annmarie Nele", "Asya Anara", "Badr Odhiambo",
	"Baldur Sanjin", "Barbora MacLean", "Brenda Stern", "Camilla Holmström", "Chandra MacFarland",
	"Claribel Dervla", "Craig Gutsy", "Daisy Studious", "Damien Black", "Damjan Chapman",
	"Dionisio Schuyler", "Eugenio Mataracı", "Ferran Simen", "Filip Traverse", "Gilberto Mathias",
	"Gitta Nikolina", "Gracie Wise", "Henriette Usha", "Ige Behringer", "Ilkin Urbano", "Kazuhiko Atallah",
	"Kumar Dahl", "Lidiya Szekeres", "Lilya Stainthorpe", "Ludvig Milivoj", "Luis Moray", "Maja Ruoho",
	"Marcos Rudaski", "Narelle Moon", "Nova Hogarth", "Rosemary Okafor", "Royston Min", "Sofia Hellen",
	"Suad Qasim", "Szofi Granger", "Tammie Ema", "Tammy Grit", "Tanja Adelina", "Torcull Diarmuid",
	"Uta Obando", "Viktor Eka", "Viktor Menelaos", "Vjollca Johnnie", "Wulf Carlevaro", "Xavier Hayasaka",
	"Zacharie Aimilios", "Zofija Kendrick",
}

var xttsLanguages = map[string]string{
	"en": "English", "es": "Spanish", "fr": "French", "de": "German", "it": "Italian",
	"pt": "Portuguese", "pl": "Polish", "tr": "Turkish", "ru": "Russian", "nl": "Dutch",
	"cs": "Czech", "ar": "Arabic", "zh-cn": "Chinese", "ja": "Japanese", "hu": "Hungarian",
	"ko": "Korean", "hi": "Hindi",
}

type xttsRequest struct {
	Text     string `json:"text"`
	Speaker  string `json:"speaker"`
	Language string `json:"language"`
}

// XTTSClient implements Engine against a locally served XTTSv2 neural model.
// Unlike hosted providers, synthesis here is driven by a language selection
// as well as a speaker preset, so XTTSClient also implements LanguageLister.
type XTTSClient struct {
	serverURL  string
	httpClient *http.Client
}

// XTTSOptions configures the XTTS client.
type XTTSOptions struct {
	ServerURL string
}

// NewXTTSClient creates a client for a local XTTS server.
func NewXTTSClient(opts XTTSOptions) *XTTSClient {
	serverURL := opts.ServerURL
	if serverURL == "" {
		serverURL = defaultXTTSServerURL
	}
	return &XTTSClient{
		serverURL:  serverURL,
		httpClient: &http.Client{Timeout: xttsTimeout},
	}
}

// Voices returns the built-in studio speaker presets. The id and label are
// the same string: XTTS addresses speakers by name.
func (c *XTTSClient) Voices(ctx context.Context) (map[string]string, error) {
	voices := make(map[string]string, len(xttsSpeakers))
	for _, s := range xttsSpeakers {
		voices[s] = s
	}
	return voices, nil
}

// Languages returns the language codes the model can speak, code -> label.
func (c *XTTSClient) Languages(ctx context.Context) (map[string]string, error) {
	langs := make(map[string]string, len(xttsLanguages))
	for code, label := range xttsLanguages {
		langs[code] = label
	}
	return langs, nil
}

// Synthesize generates speech for the given speaker preset and language.
func (c *XTTSClient) Synthesize(ctx context.Context, voiceID, text, language string) ([]byte, error) {
	if language == "" {
		language = "en"
	}

	reqBody := xttsRequest{Text: text, Speaker: voiceID, Language: language}
	data, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.serverURL+"/tts_to_audio", bytes.NewBuffer(data))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("xtts request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("xtts server error: %s - %s", resp.Status, string(body))
	}

	return io.ReadAll(resp.Body)
}

// IsServerRunning reports whether the local XTTS server answers its health
// endpoint.
func (c *XTTSClient) IsServerRunning() bool {
	resp, err := c.httpClient.Get(c.serverURL + "/health")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// SetServerURL sets the server URL for testing.
func (c *XTTSClient) SetServerURL(url string) {
	c.serverURL = url
}
