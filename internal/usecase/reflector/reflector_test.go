package reflector

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guiagent/internal/application/port/output"
	"guiagent/internal/domain/entity"
)

type fakeLLM struct {
	response string
}

func (f *fakeLLM) Generate(ctx context.Context, req output.ChatRequest) (string, error) {
	return f.response, nil
}

func (f *fakeLLM) GenerateWithThinking(ctx context.Context, req output.ChatRequest) (string, error) {
	return f.response, nil
}

func TestReview_ClassifiesTaskComplete(t *testing.T) {
	llm := &fakeLLM{response: "<thoughts>looks done</thoughts>\n<answer>Task complete.</answer>"}
	r := New(Config{LLM: llm})

	require.NoError(t, r.Register(context.Background(), "close the dialog", entity.Observation{}))

	review, err := r.Review(context.Background(), "agent.done()", entity.Observation{})
	require.NoError(t, err)
	assert.Equal(t, VerdictComplete, review.Verdict)
	assert.Equal(t, "looks done", review.Thoughts)
}

func TestReview_ClassifiesOffPlan(t *testing.T) {
	llm := &fakeLLM{response: "The agent is off plan / cycling between the same two clicks."}
	r := New(Config{LLM: llm})
	_ = r.Register(context.Background(), "open settings", entity.Observation{})

	review, err := r.Review(context.Background(), "agent.click(description='gear icon')", entity.Observation{})
	require.NoError(t, err)
	assert.Equal(t, VerdictOffPlan, review.Verdict)
}
