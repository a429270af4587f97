package grounder

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guiagent/internal/application/port/output"
	"guiagent/internal/domain/entity"
)

type fakeLLM struct {
	response string
}

func (f *fakeLLM) Generate(ctx context.Context, req output.ChatRequest) (string, error) {
	return f.response, nil
}

func (f *fakeLLM) GenerateWithThinking(ctx context.Context, req output.ChatRequest) (string, error) {
	return f.response, nil
}

func TestResolvePoint_RescalesGroundingToScreen(t *testing.T) {
	llm := &fakeLLM{response: "The element is at 500, 500."}
	g := New(Config{LLM: llm, GroundingWidth: 1000, GroundingHeight: 1000})

	obs := entity.Observation{
		Raw:    entity.Image{Width: 1920, Height: 1080},
		Scaled: entity.Image{Width: 1000, Height: 1000},
	}

	point, err := g.ResolvePoint(context.Background(), "the button", obs)
	require.NoError(t, err)

	assert.LessOrEqual(t, abs(point.X-960), 1)
	assert.LessOrEqual(t, abs(point.Y-540), 1)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

type fakeOCR struct {
	elements []entity.OcrElement
}

func (f *fakeOCR) OCR(ctx context.Context, img entity.Image) ([]entity.OcrElement, error) {
	return f.elements, nil
}

func TestResolveText_ReturnsBoxAlignment(t *testing.T) {
	llm := &fakeLLM{response: "The best match is element 3."}
	ocr := &fakeOCR{elements: []entity.OcrElement{
		{ID: 1, Text: "Cancel", BBox: entity.BBox{Left: 10, Top: 10, Width: 40, Height: 10}},
		{ID: 3, Text: "Submit", BBox: entity.BBox{Left: 100, Top: 200, Width: 60, Height: 20}},
	}}
	g := New(Config{LLM: llm, OCR: ocr})

	obs := entity.Observation{Raw: entity.Image{Width: 1920, Height: 1080}}

	point, err := g.ResolveText(context.Background(), "Submit", AlignCenter, obs)
	require.NoError(t, err)

	want := entity.BBox{Left: 100, Top: 200, Width: 60, Height: 20}.Center()
	assert.Equal(t, want, point)
}
