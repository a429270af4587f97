package grounding

import (
	"context"
	"net/http"
	"strings"
	"time"

	"guiagent/internal/application/port/output"
	"guiagent/internal/domain/entity"
	"guiagent/internal/infrastructure/llm/openai"
)

// Client talks to the auxiliary grounding-model HTTP server (a FastAPI
// proxy fronting a dedicated grounding model). It is an external
// collaborator, never embedded in this process: this type is only
// ever an HTTP client for it.
type Client struct {
	baseURL    string
	httpClient *http.Client
	chat       *openai.Adapter
	boxTokens  bool
	logger     output.LoggerPort
}

type Config struct {
	BaseURL   string
	APIKey    string
	Model     string
	BoxTokens bool
	Logger    output.LoggerPort
}

func New(cfg Config) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		chat: openai.New(openai.Config{
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL + "/v1",
			Logger:  cfg.Logger,
		}),
		boxTokens: cfg.BoxTokens,
		logger:    cfg.Logger,
	}
}

var _ output.LLMPort = (*Client)(nil)

// Generate reuses the OpenAI-shaped /v1/chat/completions transport
// against the grounding server, applying AddBoxToken to outgoing
// assistant turns first when the server is configured to expect boxed
// coordinates. This makes Client itself a drop-in LLMPort, so the
// Grounder can resolve points/text through either a vendor adapter or
// the grounding server without knowing which.
func (c *Client) Generate(ctx context.Context, req output.ChatRequest) (string, error) {
	if c.boxTokens {
		req.Messages = applyBoxTokens(req.Messages)
	}
	return c.chat.Generate(ctx, req)
}

func (c *Client) GenerateWithThinking(ctx context.Context, req output.ChatRequest) (string, error) {
	if c.boxTokens {
		req.Messages = applyBoxTokens(req.Messages)
	}
	return c.chat.GenerateWithThinking(ctx, req)
}

func applyBoxTokens(messages []entity.Message) []entity.Message {
	out := make([]entity.Message, len(messages))
	for i, m := range messages {
		if m.Role != entity.RoleAssistant {
			out[i] = m
			continue
		}
		parts := make([]entity.Part, len(m.Parts))
		for j, p := range m.Parts {
			if tp, ok := p.(entity.TextPart); ok {
				parts[j] = entity.TextPart{Text: AddBoxToken(tp.Text)}
				continue
			}
			parts[j] = p
		}
		out[i] = entity.Message{Role: m.Role, Parts: parts}
	}
	return out
}

// Health polls GET /health on the grounding server. A transport
// failure is logged and returned; any other response reports whether
// the status was 200. Nothing in this module calls it.
func (c *Client) Health(ctx context.Context) (bool, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return false, err
	}
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if c.logger != nil {
			c.logger.Warn("grounding server health check failed", "error", err)
		}
		return false, err
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK, nil
}
