// Package openai provides a Summarizer implementation using OpenAI.
package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/ersonp/rolodex-core/internal/domain/entities"
	"github.com/ersonp/rolodex-core/internal/infrastructure/config"
)

const summaryPrompt = `You write short factual summaries of people from stored contact records.

Write a single paragraph of at most three sentences describing the person,
based only on the provided record. Do not invent facts that are not in the
record. Plain text only, no markdown.`

// Client implements the Summarizer interface using OpenAI.
type Client struct {
	client *openai.Client
	model  string
}

// NewClient creates a new OpenAI summarizer client.
func NewClient(cfg config.LLMConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}

	client := openai.NewClient(cfg.APIKey)

	model := "gpt-4o-mini"
	if cfg.Model != "" {
		model = cfg.Model
	}

	return &Client{
		client: client,
		model:  model,
	}, nil
}

// Summarize drafts a short bio of the given person.
func (c *Client) Summarize(ctx context.Context, person *entities.Person) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: summaryPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: recordText(person),
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("creating chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no completion returned")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// recordText renders the stored record as plain text for the prompt.
func recordText(person *entities.Person) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", person.Name)
	if person.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", person.Description)
	}
	for _, key := range entities.MetadataKeys {
		if value, ok := person.Metadata[key]; ok {
			fmt.Fprintf(&b, "%s: %s\n", key, value)
		}
	}
	for key, value := range person.Metadata {
		if !isRecognizedKey(key) {
			fmt.Fprintf(&b, "%s: %s\n", key, value)
		}
	}
	return b.String()
}

func isRecognizedKey(key string) bool {
	for _, k := range entities.MetadataKeys {
		if k == key {
			return true
		}
	}
	return false
}
