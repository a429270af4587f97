package screen

import (
	"context"

	"guiagent/internal/application/port/output"
	"guiagent/internal/domain/entity"
)

var _ output.TextLocatorPort = (*FixtureLocator)(nil)

// FixtureLocator is the reference TextLocatorPort. A real OCR engine
// is an external collaborator; this implementation
// returns a caller-supplied, pre-boxed word list, letting Elements be
// swapped per test or per run without standing up a vision pipeline.
type FixtureLocator struct {
	Elements []entity.OcrElement
}

func NewFixtureLocator(elements []entity.OcrElement) *FixtureLocator {
	return &FixtureLocator{Elements: elements}
}

func (f *FixtureLocator) OCR(ctx context.Context, img entity.Image) ([]entity.OcrElement, error) {
	return f.Elements, nil
}
