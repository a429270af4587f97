package screen

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"

	"guiagent/internal/application/port/output"
	"guiagent/internal/domain/entity"
)

var _ output.ScreenSourcePort = (*SyntheticSource)(nil)

// SyntheticSource is the reference ScreenSourcePort. Real screenshot
// capture is an OS-specific external collaborator; this
// implementation renders a flat-color placeholder bitmap of the
// configured display size so the rest of the pipeline — resize,
// grounding, orchestrator state machine — exercises real code against
// a real (if featureless) image rather than a mock.
type SyntheticSource struct {
	Width, Height int
	Fill          color.Color
}

func NewSyntheticSource(width, height int) *SyntheticSource {
	return &SyntheticSource{Width: width, Height: height, Fill: color.White}
}

func (s *SyntheticSource) Capture(ctx context.Context) (entity.Image, error) {
	img := image.NewRGBA(image.Rect(0, 0, s.Width, s.Height))
	fill := s.Fill
	if fill == nil {
		fill = color.White
	}
	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			img.Set(x, y, fill)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return entity.Image{}, err
	}

	return entity.Image{
		Data:   buf.Bytes(),
		MIME:   "image/png",
		Width:  s.Width,
		Height: s.Height,
	}, nil
}
