package reflector

import (
	"context"
	"fmt"
	"strings"

	"guiagent/internal/application/port/output"
	"guiagent/internal/domain/entity"
	"guiagent/internal/infrastructure/prompts"
	"guiagent/internal/usecase/worker"
)

// Verdict is one of the three outcomes names.
type Verdict string

const (
	VerdictOnPlan   Verdict = "on_plan"
	VerdictOffPlan  Verdict = "off_plan"
	VerdictComplete Verdict = "task_complete"
)

// Review is the Reflector's advisory output for one step. It never
// terminates the loop itself — only the Worker's own Done/Fail does
// that — but its Text is spliced into the next Worker prompt.
type Review struct {
	Verdict  Verdict
	Text     string
	Thoughts string
}

type Config struct {
	LLM                 output.LLMPort
	Logger              output.LoggerPort
	LongContext         bool
	MaxImages           int
	MaxTrajectoryLength int
}

// Reflector is C8: an advisory critic that watches the Worker's plans
// against the live screenshot and flags drift or cycling, without
// ever prescribing a concrete action.
type Reflector struct {
	llm                 output.LLMPort
	logger              output.LoggerPort
	longContext         bool
	maxImages           int
	maxTrajectoryLength int

	conversation []entity.Message
	turnCount    int
}

func New(cfg Config) *Reflector {
	maxLen := cfg.MaxTrajectoryLength
	if maxLen == 0 {
		maxLen = 10
	}
	maxImages := cfg.MaxImages
	if maxImages == 0 {
		maxImages = 8
	}
	return &Reflector{
		llm:                 cfg.LLM,
		logger:              cfg.Logger,
		longContext:         cfg.LongContext,
		maxImages:           maxImages,
		maxTrajectoryLength: maxLen,
	}
}

// Register is turn 0: the task goes into the system prompt, and the
// initial screenshot is the first user turn. No review is produced
// yet — there is no plan to react to.
func (r *Reflector) Register(ctx context.Context, instruction string, obs entity.Observation) error {
	systemText, err := prompts.Generate(prompts.ReflectorSystemTemplate, prompts.PromptData{Instruction: instruction})
	if err != nil {
		return fmt.Errorf("render reflector system prompt: %w", err)
	}
	r.conversation = append(r.conversation, entity.NewTextMessage(entity.RoleSystem, systemText))

	parts := []entity.Part{entity.TextPart{Text: "Initial screenshot."}}
	if len(obs.Scaled.Data) > 0 {
		parts = append(parts, entity.ImagePart{Data: obs.Scaled.Data, MIME: obs.Scaled.MIME})
	}
	r.conversation = append(r.conversation, entity.Message{Role: entity.RoleUser, Parts: parts})
	r.turnCount++
	return nil
}

// Review consumes the Worker's latest plan text plus the latest
// screenshot and returns one of the three verdicts.
func (r *Reflector) Review(ctx context.Context, planText string, obs entity.Observation) (Review, error) {
	parts := []entity.Part{entity.TextPart{Text: "Worker's latest plan:\n" + planText}}
	if len(obs.Scaled.Data) > 0 {
		parts = append(parts, entity.ImagePart{Data: obs.Scaled.Data, MIME: obs.Scaled.MIME})
	}
	r.conversation = append(r.conversation, entity.Message{Role: entity.RoleUser, Parts: parts})

	reply, err := r.llm.GenerateWithThinking(ctx, output.ChatRequest{Messages: r.conversation})
	if err != nil {
		return Review{}, fmt.Errorf("reflector generate: %w", err)
	}
	r.conversation = append(r.conversation, entity.NewTextMessage(entity.RoleAssistant, reply))
	r.turnCount++
	r.flush()

	thoughts, answer := splitThinking(reply)
	return Review{
		Verdict:  classify(answer),
		Text:     answer,
		Thoughts: thoughts,
	}, nil
}

func classify(answer string) Verdict {
	lower := strings.ToLower(answer)
	switch {
	case strings.Contains(lower, "task complete") || strings.Contains(lower, "task_complete"):
		return VerdictComplete
	case strings.Contains(lower, "off plan") || strings.Contains(lower, "cycling") || strings.Contains(lower, "off_plan"):
		return VerdictOffPlan
	default:
		return VerdictOnPlan
	}
}

func (r *Reflector) flush() {
	if r.longContext {
		r.conversation = worker.FlushLongContext(r.conversation, r.maxImages)
		return
	}
	r.conversation = worker.FlushShortContext(r.conversation, r.maxTrajectoryLength+1)
}

// splitThinking parses the <thoughts>/<answer> envelope LLMPort
// adapters use for generate_with_thinking . Falls back to
// treating the whole text as the answer when the tags are absent.
func splitThinking(text string) (thoughts, answer string) {
	const openT, closeT = "<thoughts>", "</thoughts>"
	const openA, closeA = "<answer>", "</answer>"

	ti := strings.Index(text, openT)
	tj := strings.Index(text, closeT)
	if ti == -1 || tj == -1 || tj < ti {
		return "", text
	}
	thoughts = text[ti+len(openT) : tj]

	ai := strings.Index(text, openA)
	aj := strings.LastIndex(text, closeA)
	if ai == -1 || aj == -1 || aj < ai {
		return thoughts, text[tj+len(closeT):]
	}
	answer = text[ai+len(openA) : aj]
	return thoughts, answer
}
