package orchestrator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guiagent/internal/domain/entity"
	"guiagent/internal/infrastructure/inputbackend"
	"guiagent/internal/infrastructure/screen"
)

type stubWorker struct {
	records []*entity.PlanRecord
	i       int
}

func (s *stubWorker) Step(ctx context.Context, obs entity.Observation, instruction string) (*entity.PlanRecord, error) {
	r := s.records[s.i]
	if s.i < len(s.records)-1 {
		s.i++
	}
	return r, nil
}

func (s *stubWorker) SetReflection(text, thoughts string) {}

func (s *stubWorker) Meta() entity.TrajectoryMeta {
	return entity.TrajectoryMeta{TurnCount: s.i}
}

func planWithVerb(verb entity.ActionVerb) *entity.PlanRecord {
	r := entity.NewPlanRecord(0)
	r.ParsedAction = entity.Action{Verb: verb}
	return &r
}

func TestExecute_TrivialSuccess(t *testing.T) {
	source := screen.NewSyntheticSource(200, 200)
	input := inputbackend.NewRecorder()
	w := &stubWorker{records: []*entity.PlanRecord{planWithVerb(entity.VerbDone)}}

	o := New(Config{ScreenSource: source, InputBackend: input, Worker: w, MaxSteps: 5})

	result, err := o.Execute(context.Background(), "close the window")
	require.NoError(t, err)
	assert.Equal(t, entity.StateSucceeded, result.FinalState)
	assert.Equal(t, 1, result.StepsTaken)
}

func TestExecute_BudgetExhausted(t *testing.T) {
	source := screen.NewSyntheticSource(200, 200)
	input := inputbackend.NewRecorder()
	click := planWithVerb(entity.VerbClick)
	w := &stubWorker{records: []*entity.PlanRecord{click}}

	o := New(Config{ScreenSource: source, InputBackend: input, Worker: w, MaxSteps: 3})

	result, err := o.Execute(context.Background(), "keep clicking")
	require.NoError(t, err)
	assert.Equal(t, entity.StateBudgetExhausted, result.FinalState)
	assert.Equal(t, 3, result.StepsTaken)
}
