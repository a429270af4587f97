package codeagent

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"guiagent/internal/application/port/output"
	"guiagent/internal/domain/entity"
)

const (
	defaultBudget  = 20
	defaultTimeout = 30 * time.Second

	sentinelDone = "DONE"
	sentinelFail = "FAIL"
)

var fencedBlockPattern = regexp.MustCompile("(?s)```(python|bash)\\n?(.*?)```")

const systemPrompt = `You are a sandboxed code execution sub-agent. Given a task, write and
run small python or bash snippets to accomplish it, one step at a time.

On each turn, respond with exactly one fenced code block:

` + "```python\n<code>\n```" + `

or

` + "```bash\n<code>\n```" + `

When the task is complete, respond with the single word DONE instead of
a code block. If the task cannot be completed, respond with the single
word FAIL.`

// Runner is C6: a bounded loop that gives the underlying LLM a
// sandboxed shell/python environment to accomplish a sub-task.
type Runner struct {
	llm      output.LLMPort
	executor output.ProcessExecutorPort
	logger   output.LoggerPort
	budget   int
	timeout  time.Duration
}

type Config struct {
	LLM      output.LLMPort
	Executor output.ProcessExecutorPort
	Logger   output.LoggerPort
	Budget   int
	Timeout  time.Duration
}

func New(cfg Config) *Runner {
	budget := cfg.Budget
	if budget == 0 {
		budget = defaultBudget
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	return &Runner{
		llm:      cfg.LLM,
		executor: cfg.Executor,
		logger:   cfg.Logger,
		budget:   budget,
		timeout:  timeout,
	}
}

// Run drives the bounded loop to completion, sentinel, or budget
// exhaustion, then produces a short factual summary via a second LLM
// pass.
func (r *Runner) Run(ctx context.Context, task string) (*entity.CodeAgentReport, error) {
	conversation := []entity.Message{
		entity.NewTextMessage(entity.RoleSystem, systemPrompt),
		entity.NewTextMessage(entity.RoleUser, "Task: "+task),
	}

	history := make([]entity.CodeStepRecord, 0, r.budget)
	reason := ""
	stepsExecuted := 0

	for step := 0; step < r.budget; step++ {
		reply, err := r.llm.Generate(ctx, output.ChatRequest{Messages: conversation})
		if err != nil {
			return nil, fmt.Errorf("code agent step %d: %w", step, err)
		}
		conversation = append(conversation, entity.NewTextMessage(entity.RoleAssistant, reply))
		stepsExecuted++

		trimmed := strings.TrimSpace(reply)
		if trimmed == sentinelDone {
			reason = sentinelDone
			break
		}
		if trimmed == sentinelFail {
			reason = sentinelFail
			break
		}

		language, code, ok := extractFencedBlock(reply)
		if !ok {
			feedback := "No fenced python/bash block and no DONE/FAIL sentinel found. " +
				"Respond with exactly one fenced code block, or DONE, or FAIL."
			conversation = append(conversation, entity.NewTextMessage(entity.RoleUser, feedback))
			continue
		}

		result, runErr := r.executor.Run(ctx, language, code, r.timeout)
		record := CodeStepResult(step, language, code, result, runErr)
		history = append(history, record)

		conversation = append(conversation, entity.NewTextMessage(entity.RoleUser, formatStepResult(record)))
	}

	if reason == "" {
		reason = fmt.Sprintf("BUDGET_EXHAUSTED_AFTER_%d_STEPS", stepsExecuted)
	}

	summary, err := r.summarize(ctx, conversation)
	if err != nil {
		if r.logger != nil {
			r.logger.Warn("code agent summary pass failed", "error", err)
		}
		summary = ""
	}

	return &entity.CodeAgentReport{
		TaskInstruction:  task,
		CompletionReason: reason,
		Summary:          summary,
		ExecutionHistory: history,
		StepsExecuted:    stepsExecuted,
		Budget:           r.budget,
	}, nil
}

func (r *Runner) summarize(ctx context.Context, conversation []entity.Message) (string, error) {
	prompt := entity.NewTextMessage(entity.RoleUser,
		"Summarize what happened in this session in 2-3 factual sentences, no speculation.")
	req := output.ChatRequest{Messages: append(append([]entity.Message{}, conversation...), prompt)}
	return r.llm.Generate(ctx, req)
}

func extractFencedBlock(text string) (language, code string, ok bool) {
	matches := fencedBlockPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return "", "", false
	}
	last := matches[len(matches)-1]
	return last[1], last[2], true
}

// CodeStepResult builds the CodeStepRecord for one executed snippet,
// mapping a ProcessExecutorPort result (or a run error) onto the
// record's Status field.
func CodeStepResult(step int, language, code string, result output.ProcessResult, runErr error) entity.CodeStepRecord {
	status := "ok"
	switch {
	case runErr != nil:
		status = "error"
	case result.TimedOut:
		status = "timeout"
	case result.ReturnCode != 0:
		status = "error"
	}

	errText := result.Stderr
	if runErr != nil {
		errText = runErr.Error()
	}

	return entity.CodeStepRecord{
		StepIndex:  step,
		Language:   language,
		Code:       code,
		Status:     status,
		ReturnCode: result.ReturnCode,
		Output:     result.Stdout,
		Error:      errText,
	}
}

// formatStepResult is the fixed format names: Status,
// Return Code, Output, Error, appended as the next user turn.
func formatStepResult(r entity.CodeStepRecord) string {
	return fmt.Sprintf("Status: %s\nReturn Code: %d\nOutput: %s\nError: %s",
		r.Status, r.ReturnCode, r.Output, r.Error)
}
