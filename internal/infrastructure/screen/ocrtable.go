package screen

import (
	"fmt"
	"strings"

	"guiagent/internal/domain/entity"
)

const allowedTrim = " .!?;:-+"

// cleanText strips leading/trailing characters that are neither
// alphabetic nor in allowedTrim.
func cleanText(s string) string {
	isKeep := func(r rune) bool {
		return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || strings.ContainsRune(allowedTrim, r)
	}
	return strings.TrimFunc(s, func(r rune) bool { return !isKeep(r) })
}

// RenderOcrTable produces the two-column "id\tcleaned-text" table
// consumed by the text-locator LLM.
func RenderOcrTable(elements []entity.OcrElement) string {
	var b strings.Builder
	for _, el := range elements {
		fmt.Fprintf(&b, "%d\t%s\n", el.ID, cleanText(el.Text))
	}
	return b.String()
}
