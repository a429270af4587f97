package output

import (
	"context"

	"guiagent/internal/domain/entity"
)

// ScreenSourcePort is C3's capture half: a bitmap of the primary
// display. Resizing into grounding space is a pure function
// (internal/infrastructure/screen.Resize), not part of this port.
type ScreenSourcePort interface {
	Capture(ctx context.Context) (entity.Image, error)
}

// TextLocatorPort is C3's OCR half: boxed words, left-to-right then
// top-to-bottom, duplicate texts distinguished only by ID.
type TextLocatorPort interface {
	OCR(ctx context.Context, img entity.Image) ([]entity.OcrElement, error)
}
