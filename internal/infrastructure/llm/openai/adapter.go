package openai

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	oai "github.com/sashabaranov/go-openai"

	"guiagent/internal/application/port/output"
	"guiagent/internal/domain/entity"
)

var _ output.LLMPort = (*Adapter)(nil)

const (
	maxAttempts   = 3
	retryInterval = 1 * time.Second
)

// Adapter is the C4 provider for OpenAI-compatible chat+vision
// transports. Also reused, unmodified, as the transport for the
// auxiliary grounding server's OpenAI-shaped /v1/chat/completions
// endpoint by pointing BaseURL at it.
type Adapter struct {
	client *oai.Client
	model  string
	logger output.LoggerPort
}

type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Logger  output.LoggerPort
}

func New(cfg Config) *Adapter {
	config := oai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	return &Adapter{
		client: oai.NewClientWithConfig(config),
		model:  cfg.Model,
		logger: cfg.Logger,
	}
}

// Generate implements the plain chat surface of LLMPort.
func (a *Adapter) Generate(ctx context.Context, req output.ChatRequest) (string, error) {
	return a.generate(ctx, req, false)
}

// GenerateWithThinking asks the model to separate reasoning from
// answer and formats the combined result as <thoughts>...</thoughts>
// \n<answer>...</answer>.
func (a *Adapter) GenerateWithThinking(ctx context.Context, req output.ChatRequest) (string, error) {
	return a.generate(ctx, req, true)
}

func (a *Adapter) generate(ctx context.Context, req output.ChatRequest, thinking bool) (string, error) {
	messages, err := convertMessages(req.Messages)
	if err != nil {
		return "", err
	}

	ccReq := oai.ChatCompletionRequest{
		Model:       a.model,
		Messages:    messages,
		Temperature: req.Temperature,
	}
	if req.MaxTokens != nil {
		ccReq.MaxTokens = *req.MaxTokens
	}
	if thinking {
		ccReq.ReasoningEffort = "medium"
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		resp, err := a.client.CreateChatCompletion(ctx, ccReq)
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

		text := resp.Choices[0].Message.Content
		reasoning := resp.Choices[0].Message.ReasoningContent
		if thinking {
			return formatThinking(reasoning, text), nil
		}
		return text, nil
	}

	if a.logger != nil {
		a.logger.Error("llm request exhausted retries", "error", lastErr)
	}
	// Empty string after exhausting retries is a valid signal upstream,
	// handled as a format failure rather than propagated as an error.
	return "", nil
}

func formatThinking(reasoning, answer string) string {
	if reasoning == "" {
		return answer
	}
	return "<thoughts>" + reasoning + "</thoughts>\n<answer>" + answer + "</answer>"
}

// SplitThinking parses the <thoughts>/<answer> envelope. If the tags
// are absent, the whole response is treated as the answer.
func SplitThinking(text string) (thoughts, answer string) {
	const openT, closeT = "<thoughts>", "</thoughts>"
	const openA, closeA = "<answer>", "</answer>"

	ti := strings.Index(text, openT)
	tj := strings.Index(text, closeT)
	if ti == -1 || tj == -1 || tj < ti {
		return "", text
	}
	thoughts = text[ti+len(openT) : tj]

	ai := strings.Index(text, openA)
	aj := strings.LastIndex(text, closeA)
	if ai == -1 || aj == -1 || aj < ai {
		return thoughts, text[tj+len(closeT):]
	}
	answer = text[ai+len(openA) : aj]
	return thoughts, answer
}

func convertMessages(messages []entity.Message) ([]oai.ChatCompletionMessage, error) {
	out := make([]oai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		role, err := convertRole(m.Role)
		if err != nil {
			return nil, err
		}

		hasImage := m.ImageCount() > 0
		if !hasImage {
			out = append(out, oai.ChatCompletionMessage{Role: role, Content: m.Text()})
			continue
		}

		parts := make([]oai.ChatMessagePart, 0, len(m.Parts))
		for _, p := range m.Parts {
			switch v := p.(type) {
			case entity.TextPart:
				parts = append(parts, oai.ChatMessagePart{Type: oai.ChatMessagePartTypeText, Text: v.Text})
			case entity.ImagePart:
				url := "data:" + v.MIME + ";base64," + base64.StdEncoding.EncodeToString(v.Data)
				parts = append(parts, oai.ChatMessagePart{
					Type: oai.ChatMessagePartTypeImageURL,
					ImageURL: &oai.ChatMessageImageURL{
						URL:    url,
						Detail: oai.ImageURLDetail(v.Detail),
					},
				})
			}
		}
		out = append(out, oai.ChatCompletionMessage{Role: role, MultiContent: parts})
	}
	return out, nil
}

func convertRole(role entity.MessageRole) (string, error) {
	switch role {
	case entity.RoleSystem:
		return oai.ChatMessageRoleSystem, nil
	case entity.RoleUser:
		return oai.ChatMessageRoleUser, nil
	case entity.RoleAssistant:
		return oai.ChatMessageRoleAssistant, nil
	default:
		return "", fmt.Errorf("unknown message role %q", role)
	}
}
