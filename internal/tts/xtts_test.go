package tts

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestXTTSVoices(t *testing.T) {
	c := NewXTTSClient(XTTSOptions{})

	voices, err := c.Voices(context.Background())
	if err != nil {
		t.Fatalf("error = %v", err)
	}
	if len(voices) != len(xttsSpeakers) {
		t.Errorf("voices = %d, want %d", len(voices), len(xttsSpeakers))
	}
	if _, ok := voices["Claribel Dervla"]; !ok {
		t.Error("expected studio speaker Claribel Dervla")
	}
}

func TestXTTSLanguages(t *testing.T) {
	c := NewXTTSClient(XTTSOptions{})

	langs, err := c.Languages(context.Background())
	if err != nil {
		t.Fatalf("error = %v", err)
	}
	if langs["en"] != "English" || langs["zh-cn"] != "Chinese" {
		t.Errorf("languages = %v", langs)
	}
}

func TestXTTSImplementsLanguageLister(t *testing.T) {
	var e Engine = NewXTTSClient(XTTSOptions{})
	if _, ok := e.(LanguageLister); !ok {
		t.Error("XTTSClient must implement LanguageLister")
	}
}

func TestXTTSSynthesize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tts_to_audio" {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		var req xttsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if req.Speaker != "Ana Florence" {
			t.Errorf("speaker = %q", req.Speaker)
		}
		if req.Language != "es" {
			t.Errorf("language = %q", req.Language)
		}

		_, _ = w.Write(append([]byte("RIFF"), make([]byte, 1024)...))
	}))
	defer srv.Close()

	c := NewXTTSClient(XTTSOptions{ServerURL: srv.URL})

	audio, err := c.Synthesize(context.Background(), "Ana Florence", "Hola a todos", "es")
	if err != nil {
		t.Fatalf("error = %v", err)
	}
	if len(audio) == 0 {
		t.Error("audio empty")
	}
}

func TestXTTSSynthesizeDefaultsLanguage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req xttsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if req.Language != "en" {
			t.Errorf("language = %q, want en fallback", req.Language)
		}
		_, _ = w.Write([]byte("RIFF"))
	}))
	defer srv.Close()

	c := NewXTTSClient(XTTSOptions{ServerURL: srv.URL})
	if _, err := c.Synthesize(context.Background(), "Ana Florence", "Hello", ""); err != nil {
		t.Fatalf("error = %v", err)
	}
}

func TestXTTSServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("model crashed"))
	}))
	defer srv.Close()

	c := NewXTTSClient(XTTSOptions{ServerURL: srv.URL})
	if _, err := c.Synthesize(context.Background(), "Ana Florence", "Hello", "en"); err == nil {
		t.Fatal("expected error")
	}
}

func TestXTTSIsServerRunning(t *testing.T) {
	t.Run("up", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		c := NewXTTSClient(XTTSOptions{ServerURL: srv.URL})
		if !c.IsServerRunning() {
			t.Error("expected true")
		}
	})

	t.Run("down", func(t *testing.T) {
		c := NewXTTSClient(XTTSOptions{ServerURL: "http://localhost:59999"})
		if c.IsServerRunning() {
			t.Error("expected false")
		}
	})
}
