package mistral

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/yanqian/assistant-actions/internal/domain/conversation"
)

// FallbackReply is sent whenever the model cannot be reached.
const FallbackReply = "Sorry, I'm having trouble thinking right now. Could you say that again in a little bit?"

// ChatClient is the subset of Client used by Replier.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req ChatCompletionRequest) (ChatCompletionResponse, error)
}

// ReplierConfig shapes each completion request.
type ReplierConfig struct {
	Model        string
	MaxTokens    int
	Temperature  float32
	SystemPrompt string
}

// Replier adapts the chat client to conversation.Replier.
type Replier struct {
	cfg    ReplierConfig
	client ChatClient
	logger *slog.Logger
}

// NewReplier builds the adapter. A nil client makes every reply the fallback.
func NewReplier(cfg ReplierConfig, client ChatClient, logger *slog.Logger) *Replier {
	return &Replier{cfg: cfg, client: client, logger: logger.With("component", "llm.mistral")}
}

// Reply prepends the system persona and returns the first choice, or FallbackReply.
func (r *Replier) Reply(ctx context.Context, turns []conversation.Turn) string {
	reply, err := r.complete(ctx, turns)
	if err != nil {
		r.logger.Error("chat completion failed", "model", r.cfg.Model, "turns", len(turns), "error", err)
		return FallbackReply
	}
	return reply
}

func (r *Replier) complete(ctx context.Context, turns []conversation.Turn) (string, error) {
	if r.client == nil {
		return "", errors.New("llm client not configured")
	}

	messages := make([]Message, 0, len(turns)+1)
	if prompt := strings.TrimSpace(r.cfg.SystemPrompt); prompt != "" {
		messages = append(messages, Message{Role: "system", Content: prompt})
	}
	for _, t := range turns {
		messages = append(messages, Message{Role: t.Role, Content: t.Content})
	}

	resp, err := r.client.CreateChatCompletion(ctx, ChatCompletionRequest{
		Model:       r.cfg.Model,
		Messages:    messages,
		Temperature: r.cfg.Temperature,
		MaxTokens:   r.cfg.MaxTokens,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("mistral returned no choices")
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", errors.New("mistral returned empty content")
	}
	if !resp.Usage.IsZero() {
		r.logger.Info("chat completion usage", "model", resp.Model, "usage", resp.Usage)
	}
	return content, nil
}

var _ conversation.Replier = (*Replier)(nil)
