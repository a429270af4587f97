package output

import (
	"context"

	"guiagent/internal/domain/entity"
)

// LLMPort is the C4 multi-turn chat abstraction every vendor adapter
// implements. Generate and GenerateWithThinking both retry internally
// and return "" once retries are exhausted — callers treat an empty
// string as a format failure, never as a transport panic.
type LLMPort interface {
	Generate(ctx context.Context, req ChatRequest) (string, error)
	GenerateWithThinking(ctx context.Context, req ChatRequest) (string, error)
}

type ChatRequest struct {
	Messages    []entity.Message
	Temperature float32
	MaxTokens   *int
}
