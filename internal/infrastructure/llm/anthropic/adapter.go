package anthropic

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/tmc/langchaingo/llms"
	lcAnthropic "github.com/tmc/langchaingo/llms/anthropic"

	"guiagent/internal/application/port/output"
	"guiagent/internal/domain/entity"
)

var _ output.LLMPort = (*Adapter)(nil)

const (
	maxAttempts   = 3
	retryInterval = 1 * time.Second
)

// Adapter is the C4 provider backed by langchaingo's Anthropic
// client. Chosen over a hand-rolled Anthropic HTTP client since
// langchaingo's llms.MessageContent shape is exactly the normalized
// text+image content model LLMPort needs.
type Adapter struct {
	model  llms.Model
	logger output.LoggerPort
}

type Config struct {
	APIKey string
	Model  string
	Logger output.LoggerPort
}

func New(cfg Config) (*Adapter, error) {
	model, err := lcAnthropic.New(
		lcAnthropic.WithToken(cfg.APIKey),
		lcAnthropic.WithModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("create anthropic client: %w", err)
	}
	return &Adapter{model: model, logger: cfg.Logger}, nil
}

func (a *Adapter) Generate(ctx context.Context, req output.ChatRequest) (string, error) {
	return a.generate(ctx, req, false)
}

// GenerateWithThinking sends the same call options as Generate; when
// the response carries reasoning content it formats the result as
// <thoughts>...</thoughts>\n<answer>...</answer>, matching the openai
// adapter's envelope so downstream splitting is provider-agnostic.
func (a *Adapter) GenerateWithThinking(ctx context.Context, req output.ChatRequest) (string, error) {
	return a.generate(ctx, req, true)
}

func (a *Adapter) generate(ctx context.Context, req output.ChatRequest, thinking bool) (string, error) {
	content, err := convertMessages(req.Messages)
	if err != nil {
		return "", err
	}

	opts := []llms.CallOption{llms.WithTemperature(float64(req.Temperature))}
	if req.MaxTokens != nil {
		opts = append(opts, llms.WithMaxTokens(*req.MaxTokens))
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		resp, err := a.model.GenerateContent(ctx, content, opts...)
		if err != nil {
			lastErr = err
			if a.logger != nil {
				a.logger.Warn("llm request failed", "attempt", attempt, "error", err)
			}
			if attempt < maxAttempts {
				select {
				case <-ctx.Done():
					return "", ctx.Err()
				case <-time.After(retryInterval):
				}
			}
			continue
		}
		if len(resp.Choices) == 0 {
			lastErr = fmt.Errorf("no choices in response")
			continue
		}

		choice := resp.Choices[0]
		if thinking {
			reasoning, _ := choice.GenerationInfo["ReasoningContent"].(string)
			return formatThinking(reasoning, choice.Content), nil
		}
		return choice.Content, nil
	}

	if a.logger != nil {
		a.logger.Error("llm request exhausted retries", "error", lastErr)
	}
	return "", nil
}

func formatThinking(reasoning, answer string) string {
	if reasoning == "" {
		return answer
	}
	return "<thoughts>" + reasoning + "</thoughts>\n<answer>" + answer + "</answer>"
}

func convertMessages(messages []entity.Message) ([]llms.MessageContent, error) {
	out := make([]llms.MessageContent, 0, len(messages))
	for _, m := range messages {
		role, err := convertRole(m.Role)
		if err != nil {
			return nil, err
		}

		parts := make([]llms.ContentPart, 0, len(m.Parts))
		for _, p := range m.Parts {
			switch v := p.(type) {
			case entity.TextPart:
				parts = append(parts, llms.TextPart(v.Text))
			case entity.ImagePart:
				parts = append(parts, llms.BinaryPart(v.MIME, v.Data))
			}
		}
		out = append(out, llms.MessageContent{Role: role, Parts: parts})
	}
	return out, nil
}

func convertRole(role entity.MessageRole) (llms.ChatMessageType, error) {
	switch role {
	case entity.RoleSystem:
		return llms.ChatMessageTypeSystem, nil
	case entity.RoleUser:
		return llms.ChatMessageTypeHuman, nil
	case entity.RoleAssistant:
		return llms.ChatMessageTypeAI, nil
	default:
		return "", fmt.Errorf("unknown message role %q", role)
	}
}

// dataURL builds a base64 data URL from image bytes. Nothing in this
// package calls it: the Anthropic transport takes raw bytes via
// BinaryPart.
func dataURL(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}
