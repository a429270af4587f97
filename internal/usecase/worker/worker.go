package worker

import (
	"context"
	"fmt"
	"strings"

	"guiagent/internal/application/port/output"
	"guiagent/internal/domain/entity"
	"guiagent/internal/infrastructure/prompts"
	"guiagent/internal/parser"
	"guiagent/internal/usecase/grounder"
)

const maxFormatRetries = 3

// degradedWaitSeconds is the Wait action substituted in when the
// Worker exhausts its format-validation retries — after which the
// step must still produce something the Orchestrator can act on.
const degradedWaitSeconds = 1.333

// Grounder is the subset of grounder.Grounder the Worker depends on.
type Grounder interface {
	Compile(ctx context.Context, action entity.Action, obs entity.Observation, currentInstruction string) ([]entity.Primitive, error)
	LastCodeAgentResult() *entity.CodeAgentReport
}

var _ Grounder = (*grounder.Grounder)(nil)

type Config struct {
	LLM                 output.LLMPort
	Grounder            Grounder
	Knowledge           *entity.KnowledgeBuffer
	Logger              output.LoggerPort
	Checkers            []parser.FormatChecker
	LongContext         bool
	MaxImages           int
	MaxTrajectoryLength int
}

// Worker is C7: the plan generator. It owns the Worker-side
// Conversation and, each step, produces a PlanRecord: the raw model
// text, the extracted call, the parsed Action, and the Primitives the
// Grounder compiled from it.
type Worker struct {
	llm       output.LLMPort
	grounder  Grounder
	knowledge *entity.KnowledgeBuffer
	logger    output.LoggerPort
	checkers  []parser.FormatChecker

	longContext         bool
	maxImages           int
	maxTrajectoryLength int

	conversation []entity.Message
	turnCount    int

	// reflectionText/reflectionThoughts are set by the Orchestrator
	// between steps from the Reflector's latest verdict; consumed and
	// spliced into the next user turn.
	reflectionText     string
	reflectionThoughts string
}

func New(cfg Config) *Worker {
	checkers := cfg.Checkers
	if checkers == nil {
		checkers = []parser.FormatChecker{parser.CheckExactlyOneCall, parser.CheckParses}
	}
	maxImages := cfg.MaxImages
	if maxImages == 0 {
		maxImages = 8
	}
	maxTrajectoryLength := cfg.MaxTrajectoryLength
	if maxTrajectoryLength == 0 {
		maxTrajectoryLength = 10
	}
	return &Worker{
		llm:                 cfg.LLM,
		grounder:            cfg.Grounder,
		knowledge:           cfg.Knowledge,
		logger:              cfg.Logger,
		checkers:            checkers,
		longContext:         cfg.LongContext,
		maxImages:           maxImages,
		maxTrajectoryLength: maxTrajectoryLength,
	}
}

// SetReflection is called by the Orchestrator with the Reflector's
// latest verdict, ahead of the next Step call.
func (w *Worker) SetReflection(text, thoughts string) {
	w.reflectionText = text
	w.reflectionThoughts = thoughts
}

// Meta snapshots the Worker's turn/flush bookkeeping as of the most
// recent Step call.
func (w *Worker) Meta() entity.TrajectoryMeta {
	return entity.TrajectoryMeta{
		TurnCount:           w.turnCount,
		MaxTrajectoryLength: w.maxTrajectoryLength,
		MaxImages:           w.maxImages,
	}
}

// Step runs one full Worker turn.
func (w *Worker) Step(ctx context.Context, obs entity.Observation, instruction string) (*entity.PlanRecord, error) {
	if w.turnCount == 0 {
		systemText, err := prompts.Generate(prompts.WorkerSystemTemplate, prompts.PromptData{Instruction: instruction})
		if err != nil {
			return nil, fmt.Errorf("render worker system prompt: %w", err)
		}
		w.conversation = append(w.conversation, entity.NewTextMessage(entity.RoleSystem, systemText))
	}

	userMsg := w.buildUserMessage(obs)
	w.conversation = append(w.conversation, userMsg)

	record := entity.NewPlanRecord(w.turnCount)
	record.ReflectionText = w.reflectionText
	record.ReflectionThoughts = w.reflectionThoughts

	action, rawText, extractedCode, err := w.generateValidAction(ctx)
	if err != nil {
		return nil, err
	}

	record.RawText = rawText
	record.ExtractedCode = extractedCode
	record.ParsedAction = action

	primitives, err := w.grounder.Compile(ctx, action, obs, instruction)
	if err != nil {
		return nil, fmt.Errorf("compile action: %w", err)
	}
	record.CompiledPrimitives = primitives

	w.conversation = append(w.conversation, entity.NewTextMessage(entity.RoleAssistant, rawText))
	w.turnCount++
	w.flushTrajectory()

	return &record, nil
}

// generateValidAction runs the format-validation retry loop: generate,
// run every checker in order, and on the first failure append the
// failed assistant turn plus a user turn with the feedback, making at
// most maxFormatRetries attempts in all. After the last attempt it degrades
// to a Wait action rather than propagating an error, so the
// Orchestrator always has something to execute.
func (w *Worker) generateValidAction(ctx context.Context) (entity.Action, string, string, error) {
	working := append([]entity.Message{}, w.conversation...)

	for attempt := 0; attempt < maxFormatRetries; attempt++ {
		reply, err := w.llm.Generate(ctx, output.ChatRequest{Messages: working})
		if err != nil {
			return entity.Action{}, "", "", fmt.Errorf("worker generate: %w", err)
		}

		ok, feedback := true, ""
		for _, check := range w.checkers {
			if ok, feedback = check(reply); !ok {
				break
			}
		}

		if ok {
			action, extractedCode, err := parser.ExtractAction(reply)
			if err != nil {
				// A checker passed but extraction still failed: treat as
				// one more retry rather than a hard error.
				working = append(working,
					entity.NewTextMessage(entity.RoleAssistant, reply),
					entity.NewTextMessage(entity.RoleUser, err.Error()))
				continue
			}
			return action, reply, extractedCode, nil
		}

		if w.logger != nil {
			w.logger.Warn("worker format check failed", "attempt", attempt, "feedback", feedback)
		}
		working = append(working,
			entity.NewTextMessage(entity.RoleAssistant, reply),
			entity.NewTextMessage(entity.RoleUser, feedback))
	}

	degraded := entity.DefaultAction(entity.VerbWait)
	degraded.Seconds = degradedWaitSeconds
	return degraded, "agent.wait(seconds=1.333)", "agent.wait(seconds=1.333)", nil
}

func (w *Worker) buildUserMessage(obs entity.Observation) entity.Message {
	var sections []string

	if w.reflectionText != "" {
		sections = append(sections, "Reflection: "+w.reflectionText)
	}
	if w.knowledge != nil && w.knowledge.Len() > 0 {
		sections = append(sections, "Knowledge so far:\n"+strings.Join(w.knowledge.All(), "\n"))
	}
	if report := w.grounder.LastCodeAgentResult(); report != nil {
		sections = append(sections, fmt.Sprintf(
			"Code sub-agent report (%s): %s", report.CompletionReason, report.Summary))
	}

	text := strings.Join(sections, "\n\n")
	parts := []entity.Part{entity.TextPart{Text: text}}
	if len(obs.Scaled.Data) > 0 {
		parts = append(parts, entity.ImagePart{Data: obs.Scaled.Data, MIME: obs.Scaled.MIME, Detail: "high"})
	}
	return entity.Message{Role: entity.RoleUser, Parts: parts}
}

func (w *Worker) flushTrajectory() {
	if w.longContext {
		w.conversation = FlushLongContext(w.conversation, w.maxImages)
		return
	}
	maxLen := tightenedTrajectoryLength(w.conversation, w.maxTrajectoryLength)
	if maxLen != w.maxTrajectoryLength && w.logger != nil {
		w.logger.Warn("trajectory over soft token budget, flushing harder", "turn", w.turnCount)
	}
	w.conversation = FlushShortContext(w.conversation, 2*maxLen+1)
}
