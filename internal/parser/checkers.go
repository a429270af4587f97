package parser

import (
	"fmt"

	"guiagent/internal/domain/entity"
)

// FormatChecker is one link in the Worker's ordered validation chain.
// It returns ok plus, on failure, feedback text to append as the next
// retry's user turn.
type FormatChecker func(modelOutput string) (ok bool, feedback string)

// CheckExactlyOneCall is the first mandatory checker: the response
// must contain a fenced code block with exactly one agent.<verb>(...)
// call in it.
func CheckExactlyOneCall(modelOutput string) (bool, string) {
	code, ok := ParseCodeBlock(modelOutput)
	if !ok {
		return false, "Your response must contain exactly one fenced code block with a single agent.<verb>(...) call inside it."
	}
	calls := ExtractCalls(code)
	if len(calls) == 0 {
		return false, "No agent.<verb>(...) call found in the code block. Emit exactly one call."
	}
	if len(calls) > 1 {
		return false, fmt.Sprintf("Found %d agent calls; emit exactly one per turn.", len(calls))
	}
	return true, ""
}

// CheckParses is the second mandatory checker: the single call must
// parse into a typed Action drawn from the allowed verb set.
func CheckParses(modelOutput string) (bool, string) {
	_, _, err := ExtractAction(modelOutput)
	if err != nil {
		if pe, ok := err.(*ParseError); ok {
			return false, pe.Feedback()
		}
		return false, err.Error()
	}
	return true, ""
}

// ExtractAction runs the full C1 pipeline: last fenced block, the
// single call within it, and the typed Action it parses to. It also
// returns the extracted call text, since PlanRecord.ExtractedCode
// wants it.
func ExtractAction(modelOutput string) (entity.Action, string, error) {
	code, ok := ParseCodeBlock(modelOutput)
	if !ok {
		return entity.Action{}, "", errMalformedCall("no fenced code block found")
	}
	calls := ExtractCalls(code)
	if len(calls) != 1 {
		return entity.Action{}, "", errMalformedCall(fmt.Sprintf("expected exactly one agent call, found %d", len(calls)))
	}
	action, err := ParseCall(calls[0])
	if err != nil {
		return entity.Action{}, calls[0], err
	}
	return action, calls[0], nil
}
