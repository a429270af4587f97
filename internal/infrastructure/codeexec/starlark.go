package codeexec

import (
	"context"
	"strings"
	"time"

	"go.starlark.net/starlark"

	"guiagent/internal/application/port/output"
)

var _ output.ProcessExecutorPort = (*StarlarkExecutor)(nil)

// StarlarkExecutor is the fallback for Code sub-agent "python"
// snippets when no python3 binary is on PATH. It cannot run arbitrary
// CPython, but Starlark's Python-like syntax covers the kind of
// short, side-effect-free snippets (string/number munging, simple
// control flow) the Code sub-agent is actually asked to run, and
// running it in-process means no interpreter install is required at
// all in a sandboxed environment. "bash" snippets are never routed
// here — see Subprocess.Run.
type StarlarkExecutor struct{}

func NewStarlarkExecutor() *StarlarkExecutor {
	return &StarlarkExecutor{}
}

func (e *StarlarkExecutor) Run(ctx context.Context, language, code string, timeout time.Duration) (output.ProcessResult, error) {
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var stdout strings.Builder
	thread := &starlark.Thread{
		Name: "code-agent-snippet",
		Print: func(_ *starlark.Thread, msg string) {
			stdout.WriteString(msg)
			stdout.WriteString("\n")
		},
	}

	done := make(chan error, 1)
	go func() {
		_, err := starlark.ExecFile(thread, "snippet.star", code, nil)
		done <- err
	}()

	select {
	case <-runCtx.Done():
		return output.ProcessResult{TimedOut: true, ReturnCode: -1, Stdout: stdout.String()}, nil
	case err := <-done:
		if err != nil {
			return output.ProcessResult{
				ReturnCode: 1,
				Stdout:     stdout.String(),
				Stderr:     err.Error(),
			}, nil
		}
		return output.ProcessResult{ReturnCode: 0, Stdout: stdout.String()}, nil
	}
}
