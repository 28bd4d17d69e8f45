// Package openai answers queries through an OpenAI-compatible chat completions API.
package openai

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"

	"github.com/partselect/partchat/internal/domain/chat/models"
)

// Sampling settings the PartSelect backend ran its reasoning model with.
const (
	temperature = 0.6
	topP        = 0.7
	maxTokens   = 4096
)

var thinkBlock = regexp.MustCompile(`(?s)<think>(.*?)</think>`)

var errNoChoices = errors.New("no response choices returned")

type Service struct {
	client *openai.Client
	model  string
	prompt *models.SystemPrompt
}

// NewService returns nil when no API key is configured.
func NewService(apiKey, baseURL, model string) *Service {
	if apiKey == "" {
		log.Warn().Msg("OpenAI backend not configured - OPENAI_API_KEY missing")
		return nil
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}

	log.Info().Str("model", model).Str("base_url", cfg.BaseURL).Msg("OpenAI-compatible backend configured")

	return &Service{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		prompt: models.DefaultSystemPrompt(),
	}
}

// Complete returns the model's answer with any <think> deliberation removed.
func (s *Service) Complete(ctx context.Context, query string) (reasoning, answer string, err error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: s.prompt.String()},
			{Role: openai.ChatMessageRoleUser, Content: query},
		},
		Temperature: temperature,
		TopP:        topP,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to get chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", "", errNoChoices
	}

	reasoning, answer = SplitReasoning(resp.Choices[0].Message.Content)
	if answer == "" {
		return reasoning, "", fmt.Errorf("completion carries no answer")
	}
	return reasoning, answer, nil
}

// Send always returns a well-formed assistant message; this backend never returns parts.
func (s *Service) Send(ctx context.Context, query string) models.Message {
	start := time.Now()

	reasoning, answer, err := s.Complete(ctx, query)
	if err != nil {
		log.Error().Err(err).Dur("elapsed", time.Since(start)).Msg("Chat completion failed")
		return models.NewErrorMessage()
	}

	log.Info().
		Int("reasoning_length", len(reasoning)).
		Int("response_length", len(answer)).
		Dur("elapsed", time.Since(start)).
		Msg("Chat completion answered")

	return models.NewAssistantMessage(answer, nil)
}

// SplitReasoning separates <think>...</think> blocks from the rest of a completion.
func SplitReasoning(content string) (reasoning, answer string) {
	var parts []string
	for _, m := range thinkBlock.FindAllStringSubmatch(content, -1) {
		parts = append(parts, strings.TrimSpace(m[1]))
	}
	answer = thinkBlock.ReplaceAllString(content, "")
	return strings.Join(parts, "\n"), strings.TrimSpace(answer)
}
