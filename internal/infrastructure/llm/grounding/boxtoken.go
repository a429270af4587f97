package grounding

import (
	"regexp"
	"strings"
)

var boxCoordPattern = regexp.MustCompile(`(start_box|end_box)='\((\d+),\s*(\d+)\)'`)

// AddBoxToken mirrors the grounding server's own request-shaping
// transform: when a model turn already uses `start_box='(x,y)'` /
// `end_box='(x,y)'` syntax, it wraps the coordinate pair in
// <|box_start|>/<|box_end|> so the backend model sees boxed
// coordinates. Applied only to assistant turns, only when the text
// contains both "Action: " and "start_box=".
func AddBoxToken(text string) string {
	if !strings.Contains(text, "Action: ") || !strings.Contains(text, "start_box=") {
		return text
	}

	segments := strings.SplitN(text, "Action: ", 2)
	prefix := segments[0] + "Action: "
	actions := strings.Split(segments[1], "Action: ")

	processed := make([]string, 0, len(actions))
	for _, action := range actions {
		action = strings.TrimSpace(action)
		processed = append(processed, boxCoordPattern.ReplaceAllString(action, "$1='<|box_start|>($2,$3)<|box_end|>'"))
	}
	return prefix + strings.Join(processed, "\n\n")
}
