package orchestrator

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"guiagent/internal/application/port/input"
	"guiagent/internal/application/port/output"
	"guiagent/internal/domain/entity"
	"guiagent/internal/infrastructure/screen"
)

const (
	defaultMaxSteps          = 15
	defaultMaxCaptureRetries = 5
	defaultCaptureRetryDelay = 500 * time.Millisecond
	defaultSettleDelay       = 500 * time.Millisecond
)

// Worker is the subset of worker.Worker the Orchestrator depends on.
type Worker interface {
	Step(ctx context.Context, obs entity.Observation, instruction string) (*entity.PlanRecord, error)
	SetReflection(text, thoughts string)
	Meta() entity.TrajectoryMeta
}

// Reflector is the subset of reflector.Reflector the Orchestrator
// depends on. Advisory only — its output never terminates the loop
// on its own.
type Reflector interface {
	Register(ctx context.Context, instruction string, obs entity.Observation) error
	Review(ctx context.Context, planText string, obs entity.Observation) (Review, error)
}

// Review mirrors reflector.Review's return shape without importing
// the reflector package's Verdict type, keeping this package's public
// surface independent of it.
type Review struct {
	Text     string
	Thoughts string
}

type Config struct {
	ScreenSource    output.ScreenSourcePort
	InputBackend    output.InputBackendPort
	Worker          Worker
	Reflector       Reflector
	Logger          output.LoggerPort
	GroundingWidth  int
	GroundingHeight int
	MaxSteps        int
}

// Orchestrator is C9: the cooperative single-threaded state machine
// that drives one task from instruction to terminal state.
type Orchestrator struct {
	screenSource    output.ScreenSourcePort
	input           output.InputBackendPort
	worker          Worker
	reflector       Reflector
	logger          output.LoggerPort
	groundingWidth  int
	groundingHeight int
	maxSteps        int

	paused atomic.Bool

	plans []entity.PlanRecord
}

var _ input.TaskExecutor = (*Orchestrator)(nil)

func New(cfg Config) *Orchestrator {
	width, height := cfg.GroundingWidth, cfg.GroundingHeight
	if width == 0 {
		width = 1000
	}
	if height == 0 {
		height = 1000
	}
	maxSteps := cfg.MaxSteps
	if maxSteps == 0 {
		maxSteps = defaultMaxSteps
	}
	return &Orchestrator{
		screenSource:    cfg.ScreenSource,
		input:           cfg.InputBackend,
		worker:          cfg.Worker,
		reflector:       cfg.Reflector,
		logger:          cfg.Logger,
		groundingWidth:  width,
		groundingHeight: height,
		maxSteps:        maxSteps,
	}
}

// Pause requests the loop suspend at the next phase boundary.
// Cooperative: the in-flight LLM call or input primitive always
// finishes first.
func (o *Orchestrator) Pause() { o.paused.Store(true) }

// Resume clears a pending pause.
func (o *Orchestrator) Resume() { o.paused.Store(false) }

// Plans returns the append-only record of every step taken this run.
func (o *Orchestrator) Plans() []entity.PlanRecord {
	return o.plans
}

// Execute drives the state machine from Capturing through Predicting
// and Executing until a terminal state (Succeeded, Failed, or
// BudgetExhausted) is reached.
func (o *Orchestrator) Execute(ctx context.Context, instruction string) (*entity.TaskResult, error) {
	task := entity.NewTask(instruction)
	state := entity.StateCapturing // Idle -> start(instruction) -> Capturing

	var obs entity.Observation
	var pendingPrimitives []entity.Primitive
	var waitSeconds float64
	stepCount := 0
	captureRetries := 0
	reflectorRegistered := false

	for {
		if err := o.waitWhilePaused(ctx); err != nil {
			return o.finish(task, entity.StateFailed, stepCount, "", err)
		}

		if stepCount >= o.maxSteps {
			state = entity.StateBudgetExhausted
		}

		switch state {
		case entity.StateCapturing:
			next, err := o.capture(ctx)
			if err != nil {
				captureRetries++
				if captureRetries > defaultMaxCaptureRetries {
					return o.finish(task, entity.StateFailed, stepCount, "", err)
				}
				if sleepErr := sleepCtx(ctx, defaultCaptureRetryDelay); sleepErr != nil {
					return o.finish(task, entity.StateFailed, stepCount, "", sleepErr)
				}
				continue
			}
			captureRetries = 0
			obs = next

			if !reflectorRegistered && o.reflector != nil {
				if err := o.reflector.Register(ctx, instruction, obs); err != nil && o.logger != nil {
					o.logger.Warn("reflector registration failed", "error", err)
				}
				reflectorRegistered = true
			}
			state = entity.StatePredicting

		case entity.StatePredicting:
			record, err := o.worker.Step(ctx, obs, instruction)
			if err != nil {
				return o.finish(task, entity.StateFailed, stepCount, "", err)
			}
			o.plans = append(o.plans, *record)
			stepCount++

			if o.reflector != nil {
				if review, err := o.reflector.Review(ctx, record.RawText, obs); err != nil {
					if o.logger != nil {
						o.logger.Warn("reflector review failed", "error", err)
					}
				} else {
					o.worker.SetReflection(review.Text, review.Thoughts)
				}
			}

			switch record.ParsedAction.Verb {
			case entity.VerbDone:
				return o.finish(task, entity.StateSucceeded, stepCount, record.RawText, nil)
			case entity.VerbFail:
				return o.finish(task, entity.StateFailed, stepCount, record.RawText, nil)
			case entity.VerbWait:
				waitSeconds = record.ParsedAction.Seconds
				state = entity.StateCapturing
			default:
				pendingPrimitives = record.CompiledPrimitives
				state = entity.StateExecuting
			}

		case entity.StateExecuting:
			if err := o.executeAll(ctx, pendingPrimitives); err != nil && o.logger != nil {
				o.logger.Warn("primitive execution failed", "error", err)
			}
			pendingPrimitives = nil
			if err := sleepCtx(ctx, defaultSettleDelay); err != nil {
				return o.finish(task, entity.StateFailed, stepCount, "", err)
			}
			state = entity.StateCapturing

		case entity.StateBudgetExhausted:
			return o.finish(task, entity.StateBudgetExhausted, stepCount, "", nil)

		default:
			return o.finish(task, entity.StateFailed, stepCount, "", fmt.Errorf("unexpected state %q", state))
		}

		if state == entity.StateCapturing && waitSeconds > 0 {
			if err := sleepCtx(ctx, time.Duration(waitSeconds*float64(time.Second))); err != nil {
				return o.finish(task, entity.StateFailed, stepCount, "", err)
			}
			waitSeconds = 0
		}
	}
}

func (o *Orchestrator) capture(ctx context.Context) (entity.Observation, error) {
	raw, err := o.screenSource.Capture(ctx)
	if err != nil {
		return entity.Observation{}, fmt.Errorf("capture: %w", err)
	}
	scaled, err := screen.Resize(raw, o.groundingWidth, o.groundingHeight)
	if err != nil {
		return entity.Observation{}, fmt.Errorf("resize: %w", err)
	}
	return entity.Observation{Raw: raw, Scaled: scaled}, nil
}

// executeAll runs primitives strictly in order. Observations are
// never reused across steps — every executed action is followed by a
// fresh Capturing phase.
func (o *Orchestrator) executeAll(ctx context.Context, primitives []entity.Primitive) error {
	for _, p := range primitives {
		if err := o.execute(ctx, p); err != nil {
			return fmt.Errorf("primitive %s: %w", p.Kind, err)
		}
	}
	return nil
}

func (o *Orchestrator) execute(ctx context.Context, p entity.Primitive) error {
	switch p.Kind {
	case entity.PrimClick:
		return o.input.Click(ctx, p.At, p.Count, p.Button)
	case entity.PrimDrag:
		return o.input.Drag(ctx, p.At, p.To, p.Duration)
	case entity.PrimTypeText:
		return o.input.TypeText(ctx, p.Text)
	case entity.PrimPressEnter:
		return o.input.PressEnter(ctx)
	case entity.PrimBackspace:
		return o.input.PressBackspace(ctx)
	case entity.PrimHotkey:
		return o.input.Hotkey(ctx, p.Keys)
	case entity.PrimKeyDown:
		return o.input.KeyDown(ctx, p.Keys[0])
	case entity.PrimKeyUp:
		return o.input.KeyUp(ctx, p.Keys[0])
	case entity.PrimPressKey:
		return o.input.PressKey(ctx, p.Keys[0])
	case entity.PrimScroll:
		return o.input.Scroll(ctx, p.At, p.Ticks, p.Horizontal)
	case entity.PrimClipboardSet:
		return o.input.ClipboardSet(ctx, p.Text)
	case entity.PrimSleep:
		return o.input.Sleep(ctx, p.Seconds)
	default:
		return fmt.Errorf("unhandled primitive kind %q", p.Kind)
	}
}

// waitWhilePaused polls the pause flag at this phase boundary.
// Cancellation is cooperative: a flag checked at each phase boundary,
// never a hard interrupt mid-primitive.
func (o *Orchestrator) waitWhilePaused(ctx context.Context) error {
	const pollInterval = 50 * time.Millisecond
	for o.paused.Load() {
		if err := sleepCtx(ctx, pollInterval); err != nil {
			return err
		}
	}
	return ctx.Err()
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

func (o *Orchestrator) finish(task entity.Task, state entity.OrchestratorState, steps int, answer string, err error) (*entity.TaskResult, error) {
	result := &entity.TaskResult{
		TaskID:      task.ID,
		FinalState:  state,
		StepsTaken:  steps,
		FinalAnswer: answer,
		Err:         err,
	}
	if o.worker != nil {
		result.Meta = o.worker.Meta()
	}
	return result, err
}
