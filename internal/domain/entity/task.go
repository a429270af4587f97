package entity

import "github.com/google/uuid"

// OrchestratorState is the C9 step state machine's current phase.
type OrchestratorState string

const (
	StateIdle            OrchestratorState = "idle"
	StateCapturing       OrchestratorState = "capturing"
	StatePredicting      OrchestratorState = "predicting"
	StateExecuting       OrchestratorState = "executing"
	StateSucceeded       OrchestratorState = "succeeded"
	StateFailed          OrchestratorState = "failed"
	StateBudgetExhausted OrchestratorState = "budget_exhausted"
)

// Task is the natural-language instruction the orchestrator drives
// toward completion.
type Task struct {
	ID          string
	Description string
}

// NewTask stamps a fresh correlation ID for a task.
func NewTask(description string) Task {
	return Task{ID: uuid.NewString(), Description: description}
}

// TaskResult is the terminal outcome of an orchestrator run.
type TaskResult struct {
	TaskID      string
	FinalState  OrchestratorState
	StepsTaken  int
	FinalAnswer string
	Meta        TrajectoryMeta
	Err         error
}
