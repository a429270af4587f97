package worker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guiagent/internal/application/port/output"
	"guiagent/internal/domain/entity"
)

type scriptedLLM struct {
	replies []string
	i       int
}

func (s *scriptedLLM) Generate(ctx context.Context, req output.ChatRequest) (string, error) {
	if s.i >= len(s.replies) {
		return s.replies[len(s.replies)-1], nil
	}
	r := s.replies[s.i]
	s.i++
	return r, nil
}

func (s *scriptedLLM) GenerateWithThinking(ctx context.Context, req output.ChatRequest) (string, error) {
	return s.Generate(ctx, req)
}

type fakeGrounder struct {
	compiled []entity.Primitive
}

func (f *fakeGrounder) Compile(ctx context.Context, action entity.Action, obs entity.Observation, instruction string) ([]entity.Primitive, error) {
	return f.compiled, nil
}

func (f *fakeGrounder) LastCodeAgentResult() *entity.CodeAgentReport {
	return nil
}

func TestStep_ParsesValidCallOnFirstTry(t *testing.T) {
	llm := &scriptedLLM{replies: []string{"```python\nagent.done()\n```"}}
	g := &fakeGrounder{compiled: nil}
	w := New(Config{LLM: llm, Grounder: g})

	obs := entity.Observation{Scaled: entity.Image{Data: []byte("fake"), MIME: "image/png"}}
	record, err := w.Step(context.Background(), obs, "finish the task")
	require.NoError(t, err)
	assert.Equal(t, entity.VerbDone, record.ParsedAction.Verb)
}

func TestStep_DegradesToWaitAfterRetriesExhausted(t *testing.T) {
	llm := &scriptedLLM{replies: []string{"not a call", "still not a call", "nope"}}
	g := &fakeGrounder{}
	w := New(Config{LLM: llm, Grounder: g})

	obs := entity.Observation{}
	record, err := w.Step(context.Background(), obs, "do something")
	require.NoError(t, err)
	assert.Equal(t, entity.VerbWait, record.ParsedAction.Verb)
	assert.Equal(t, degradedWaitSeconds, record.ParsedAction.Seconds)
}
