package codeagent

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guiagent/internal/application/port/output"
)

type scriptedLLM struct {
	replies []string
	i       int
}

func (s *scriptedLLM) Generate(ctx context.Context, req output.ChatRequest) (string, error) {
	if s.i >= len(s.replies) {
		return "DONE", nil
	}
	r := s.replies[s.i]
	s.i++
	return r, nil
}

func (s *scriptedLLM) GenerateWithThinking(ctx context.Context, req output.ChatRequest) (string, error) {
	return s.Generate(ctx, req)
}

type fakeExecutor struct{}

func (fakeExecutor) Run(ctx context.Context, language, code string, timeout time.Duration) (output.ProcessResult, error) {
	return output.ProcessResult{ReturnCode: 0, Stdout: "ok"}, nil
}

func TestRun_StopsOnDoneSentinel(t *testing.T) {
	llm := &scriptedLLM{replies: []string{"```python\nprint('hi')\n```", "DONE"}}
	r := New(Config{LLM: llm, Executor: fakeExecutor{}, Budget: 5, Timeout: time.Second})

	report, err := r.Run(context.Background(), "say hi")
	require.NoError(t, err)
	assert.Equal(t, "DONE", report.CompletionReason)
	assert.Len(t, report.ExecutionHistory, 1)
}

func TestRun_ExhaustsBudget(t *testing.T) {
	llm := &scriptedLLM{replies: []string{
		"```bash\necho 1\n```",
		"```bash\necho 2\n```",
	}}
	r := New(Config{LLM: llm, Executor: fakeExecutor{}, Budget: 2, Timeout: time.Second})

	report, err := r.Run(context.Background(), "loop forever")
	require.NoError(t, err)
	assert.Equal(t, "BUDGET_EXHAUSTED_AFTER_2_STEPS", report.CompletionReason)
	assert.Equal(t, 2, report.StepsExecuted)
}
