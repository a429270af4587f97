package screen

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"

	"guiagent/internal/domain/entity"
)

// Resize maintains aspect ratio and never upsamples.
// Used to produce the grounding-space copy of a screenshot (default
// 1000x1000 canvas) alongside the untouched raw capture.
func Resize(img entity.Image, maxW, maxH int) (entity.Image, error) {
	decoded, _, err := image.Decode(bytes.NewReader(img.Data))
	if err != nil {
		return entity.Image{}, fmt.Errorf("decode image: %w", err)
	}

	bounds := decoded.Bounds()
	srcW, srcH := bounds.Dx(), bounds.Dy()
	if srcW <= maxW && srcH <= maxH {
		return img, nil
	}

	scale := minFloat(float64(maxW)/float64(srcW), float64(maxH)/float64(srcH))
	targetW := int(float64(srcW) * scale)
	targetH := int(float64(srcH) * scale)

	resized := imaging.Resize(decoded, targetW, targetH, imaging.Lanczos)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: 85}); err != nil {
		return entity.Image{}, fmt.Errorf("encode resized image: %w", err)
	}

	return entity.Image{
		Data:   buf.Bytes(),
		MIME:   "image/jpeg",
		Width:  targetW,
		Height: targetH,
	}, nil
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
