package input

import (
	"context"

	"guiagent/internal/domain/entity"
)

// TaskExecutor is the orchestrator's (C9) boundary: drive one
// natural-language instruction to a terminal state.
type TaskExecutor interface {
	Execute(ctx context.Context, instruction string) (*entity.TaskResult, error)
	Pause()
	Resume()
}
