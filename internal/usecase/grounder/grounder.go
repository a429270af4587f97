package grounder

import (
	"context"
	"fmt"

	"guiagent/internal/application/port/output"
	"guiagent/internal/domain/entity"
	"guiagent/internal/infrastructure/screen"
)

// CodeAgentRunner is the Code sub-agent surface the Grounder invokes
// for CallCodeAgent. Defined here rather than imported
// from internal/usecase/codeagent to avoid a dependency cycle — the
// concrete codeagent.Runner satisfies it.
type CodeAgentRunner interface {
	Run(ctx context.Context, task string) (*entity.CodeAgentReport, error)
}

// Config wires the Grounder's collaborators. GroundingWidth/Height is
// the grounding model's declared canvas, default 1000x1000 — must be
// honored exactly against the model's actual prompting or clicks miss.
type Config struct {
	LLM             output.LLMPort
	OCR             output.TextLocatorPort
	Platform        output.PlatformStrategyPort
	Spreadsheet     output.SpreadsheetDriverPort
	CodeAgent       CodeAgentRunner
	Knowledge       *entity.KnowledgeBuffer
	Logger          output.LoggerPort
	GroundingWidth  int
	GroundingHeight int
}

// Grounder is C5: resolves natural-language descriptions and text
// phrases to screen coordinates, and compiles the Worker's Actions
// into ordered Primitive sequences for the Orchestrator to execute.
type Grounder struct {
	llm         output.LLMPort
	ocr         output.TextLocatorPort
	platform    output.PlatformStrategyPort
	spreadsheet output.SpreadsheetDriverPort
	codeAgent   CodeAgentRunner
	knowledge   *entity.KnowledgeBuffer
	logger      output.LoggerPort

	groundingWidth, groundingHeight int

	// lastCodeAgentResult is the most recent Code sub-agent report,
	// surfaced into the Worker's next prompt.
	lastCodeAgentResult *entity.CodeAgentReport
}

func New(cfg Config) *Grounder {
	width, height := cfg.GroundingWidth, cfg.GroundingHeight
	if width == 0 {
		width = 1000
	}
	if height == 0 {
		height = 1000
	}
	return &Grounder{
		llm:             cfg.LLM,
		ocr:             cfg.OCR,
		platform:        cfg.Platform,
		spreadsheet:     cfg.Spreadsheet,
		codeAgent:       cfg.CodeAgent,
		knowledge:       cfg.Knowledge,
		logger:          cfg.Logger,
		groundingWidth:  width,
		groundingHeight: height,
	}
}

// LastCodeAgentResult returns the report from the most recent
// CallCodeAgent compilation, or nil if none has run yet.
func (g *Grounder) LastCodeAgentResult() *entity.CodeAgentReport {
	return g.lastCodeAgentResult
}

const resolvePointPrompt = `Locate the UI element described below on the attached screenshot.
Respond with exactly two integers, the x and y coordinates of the
element's center on a %dx%d canvas spanning the whole screenshot, in that
order, and nothing else.

Description: %s`

// ResolvePoint sends a grounding-space screenshot plus a constrained
// prompt to the grounding model, parses the first two integers from
// the response, and rescales from grounding space to screen space by
// screen_dim / grounding_dim.
func (g *Grounder) ResolvePoint(ctx context.Context, description string, obs entity.Observation) (entity.Point, error) {
	req := output.ChatRequest{
		Messages: []entity.Message{
			{
				Role: entity.RoleUser,
				Parts: []entity.Part{
					entity.TextPart{Text: fmt.Sprintf(resolvePointPrompt, g.groundingWidth, g.groundingHeight, description)},
					entity.ImagePart{Data: obs.Scaled.Data, MIME: obs.Scaled.MIME},
				},
			},
		},
		Temperature: 0,
	}

	text, err := g.llm.Generate(ctx, req)
	if err != nil {
		return entity.Point{}, fmt.Errorf("resolve_point: %w", err)
	}

	x, y, ok := firstTwoInts(text)
	if !ok {
		return entity.Point{}, fmt.Errorf("resolve_point: no coordinate pair in response %q", text)
	}

	scaleX := float64(obs.Raw.Width) / float64(g.groundingWidth)
	scaleY := float64(obs.Raw.Height) / float64(g.groundingHeight)
	return entity.Point{
		X: int(float64(x) * scaleX),
		Y: int(float64(y) * scaleY),
	}, nil
}

// Alignment is the closed set resolve_text accepts.
type Alignment string

const (
	AlignStart  Alignment = "start"
	AlignEnd    Alignment = "end"
	AlignCenter Alignment = "center"
)

const resolveTextPrompt = `Below is a table of on-screen text elements, one per line, as "id<TAB>text".
Find the element whose text best matches the phrase given, and respond
with a short justification followed by the element's id as the last
integer in your response.

Phrase: %s

Elements:
%s`

// ResolveText runs OCR, sends (phrase, table, screenshot) to the
// text-locator LLM, parses the last integer as a word id, and returns
// the left-mid / right-mid / center of that word's box.
// No rescaling: OCR runs against the raw capture, so returned
// coordinates are already in screen space.
func (g *Grounder) ResolveText(ctx context.Context, phrase string, alignment Alignment, obs entity.Observation) (entity.Point, error) {
	elements, err := g.ocr.OCR(ctx, obs.Raw)
	if err != nil {
		return entity.Point{}, fmt.Errorf("resolve_text: ocr: %w", err)
	}
	if len(elements) == 0 {
		return entity.Point{}, fmt.Errorf("resolve_text: no OCR elements")
	}

	table := screen.RenderOcrTable(elements)
	req := output.ChatRequest{
		Messages: []entity.Message{
			{
				Role: entity.RoleUser,
				Parts: []entity.Part{
					entity.TextPart{Text: fmt.Sprintf(resolveTextPrompt, phrase, table)},
					entity.ImagePart{Data: obs.Raw.Data, MIME: obs.Raw.MIME},
				},
			},
		},
		Temperature: 0,
	}

	text, err := g.llm.Generate(ctx, req)
	if err != nil {
		return entity.Point{}, fmt.Errorf("resolve_text: %w", err)
	}

	id, ok := lastInt(text)
	if !ok {
		return entity.Point{}, fmt.Errorf("resolve_text: no element id in response %q", text)
	}

	var match *entity.OcrElement
	for i := range elements {
		if elements[i].ID == id {
			match = &elements[i]
			break
		}
	}
	if match == nil {
		return entity.Point{}, fmt.Errorf("resolve_text: element id %d not found", id)
	}

	switch alignment {
	case AlignStart:
		return match.BBox.LeftMid(), nil
	case AlignEnd:
		return match.BBox.RightMid(), nil
	default:
		return match.BBox.Center(), nil
	}
}
