package codeexec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"guiagent/internal/application/port/output"
)

var _ output.ProcessExecutorPort = (*Subprocess)(nil)

// Subprocess runs a Code sub-agent snippet as a real child process,
//. language selects the interpreter: "python" tries
// python3 on PATH, falling back to the Starlark executor when it is
// absent (see starlark.go); "bash" always shells out.
type Subprocess struct {
	Fallback output.ProcessExecutorPort
}

func NewSubprocess(fallback output.ProcessExecutorPort) *Subprocess {
	return &Subprocess{Fallback: fallback}
}

func (s *Subprocess) Run(ctx context.Context, language, code string, timeout time.Duration) (output.ProcessResult, error) {
	switch language {
	case "python":
		if _, err := exec.LookPath("python3"); err != nil {
			if s.Fallback != nil {
				return s.Fallback.Run(ctx, language, code, timeout)
			}
			return output.ProcessResult{}, fmt.Errorf("python3 not found and no fallback configured: %w", err)
		}
		return s.run(ctx, "python3", []string{"-c", code}, timeout)
	case "bash":
		return s.run(ctx, "bash", []string{"-c", code}, timeout)
	default:
		return output.ProcessResult{}, fmt.Errorf("unsupported snippet language %q", language)
	}
}

func (s *Subprocess) run(ctx context.Context, name string, args []string, timeout time.Duration) (output.ProcessResult, error) {
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.Env = os.Environ()

	err := cmd.Run()

	result := output.ProcessResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		result.TimedOut = true
		result.ReturnCode = -1
		return result, nil
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ReturnCode = exitErr.ExitCode()
			return result, nil
		}
		return result, fmt.Errorf("run snippet: %w", err)
	}

	result.ReturnCode = 0
	return result, nil
}
