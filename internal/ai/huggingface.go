package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// HuggingFace talks to the Hugging Face inference router, which exposes an
// OpenAI-compatible chat completions API.
type HuggingFace struct {
	client *openai.Client
	model  string
}

func NewHuggingFace(apiKey, baseURL, model string) *HuggingFace {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	return &HuggingFace{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (h *HuggingFace) Name() string { return "huggingface" }

// Complete sends System as a system message followed by Prompt as the user
// message. Without a system prompt the prompt itself goes in the system role.
func (h *HuggingFace) Complete(ctx context.Context, req Request) (string, error) {
	var msgs []openai.ChatCompletionMessage
	if req.System != "" {
		msgs = append(msgs,
			openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: req.System},
			openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		)
	} else {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: req.Prompt})
	}

	resp, err := h.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     h.model,
		Messages:  msgs,
		MaxTokens: req.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("huggingface: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("huggingface: %w", ErrEmptyCompletion)
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("huggingface: %w", ErrEmptyCompletion)
	}
	return text, nil
}
