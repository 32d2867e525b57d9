package translate

import (
	"context"
	"fmt"
	"strings"

	"github.com/conneroisu/groq-go"
)

const (
	defaultTranslateModel = "llama-3.3-70b-versatile"

	translateSystemPrompt = "You are a translation engine for presentation speaker notes. " +
		"Translate the user's text from the source language to the target language. " +
		"Preserve tone and phrasing suitable for spoken narration. " +
		"Only answer with the translated text, nothing else."
)

// GroqTranslator implements Translator on top of a hosted Groq chat model.
type GroqTranslator struct {
	client *groq.Client
	model  groq.ChatModel
}

func NewGroqTranslator(apiKey, model string) (*GroqTranslator, error) {
	client, err := groq.NewClient(apiKey)
	if err != nil {
		return nil, fmt.Errorf("create groq client: %w", err)
	}
	if model == "" {
		model = defaultTranslateModel
	}
	return &GroqTranslator{
		client: client,
		model:  groq.ChatModel(model),
	}, nil
}

func (t *GroqTranslator) Translate(ctx context.Context, sourceLang, targetLang, text string) (string, error) {
	prompt := fmt.Sprintf("Source language: %s\nTarget language: %s\n\n%s", sourceLang, targetLang, text)

	resp, err := t.client.ChatCompletion(ctx, groq.ChatCompletionRequest{
		Model: t.model,
		Messages: []groq.ChatCompletionMessage{
			{Role: groq.RoleSystem, Content: translateSystemPrompt},
			{Role: groq.RoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("translate: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("empty response")
	}

	return content, nil
}
