package parser

import (
	"testing"

	"guiagent/internal/domain/entity"
)

func TestParseCodeBlock_ReturnsLastBlock(t *testing.T) {
	input := "first:\n```python\nagent.wait(1.0)\n```\nsecond:\n```python\nagent.done()\n```\n"

	code, ok := ParseCodeBlock(input)
	if !ok {
		t.Fatal("expected a fenced block to be found")
	}
	if code != "agent.done()\n" {
		t.Fatalf("expected the last block's body, got %q", code)
	}
}

func TestExtractCalls_BalancedParens(t *testing.T) {
	code := `agent.click(description="click the (nested) button")`

	calls := ExtractCalls(code)
	if len(calls) != 1 {
		t.Fatalf("expected exactly one call, got %d: %v", len(calls), calls)
	}
	if calls[0] != code {
		t.Fatalf("expected the full call text, got %q", calls[0])
	}
}

func TestExtractCalls_StringLiteralsOpaqueToParens(t *testing.T) {
	code := `agent.type(text="close (this) and then )) more") then agent.done()`

	calls := ExtractCalls(code)
	if len(calls) != 2 {
		t.Fatalf("expected two calls, got %d: %v", len(calls), calls)
	}
	if calls[0] != `agent.type(text="close (this) and then )) more")` {
		t.Fatalf("unexpected first call: %q", calls[0])
	}
	if calls[1] != "agent.done()" {
		t.Fatalf("unexpected second call: %q", calls[1])
	}
}

func TestParseCall_UnknownVerb(t *testing.T) {
	_, err := ParseCall("agent.teleport(description='x')")
	if err == nil {
		t.Fatal("expected an error for an unknown verb")
	}
	pe, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if pe.Kind != "UnknownVerb" {
		t.Fatalf("expected UnknownVerb, got %s", pe.Kind)
	}
	if pe.Feedback() == "" {
		t.Fatal("expected non-empty feedback")
	}
}

func TestParseCall_ClickDefaultsRoundTrip(t *testing.T) {
	withDefaults, err := ParseCall(`agent.click(description="the button", num_clicks=1, button="left", hold_keys=[])`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	withoutDefaults, err := ParseCall(`agent.click(description="the button")`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if withDefaults.Description != withoutDefaults.Description ||
		withDefaults.NumClicks != withoutDefaults.NumClicks ||
		withDefaults.Button != withoutDefaults.Button ||
		len(withDefaults.HoldKeys) != len(withoutDefaults.HoldKeys) {
		t.Fatalf("expected explicit defaults to round-trip to the same action: %+v vs %+v", withDefaults, withoutDefaults)
	}
}

func TestParseCall_PositionalAndKeywordMixed(t *testing.T) {
	a, err := ParseCall(`agent.type("the search box", "hello world", enter=True)`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Description != "the search box" || a.Text != "hello world" || !a.Enter {
		t.Fatalf("unexpected action: %+v", a)
	}
}

func TestParseCall_CamelCaseAlias(t *testing.T) {
	a, err := ParseCall(`agent.drag_and_drop(startDesc="a", endDesc="b")`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.StartDesc != "a" || a.EndDesc != "b" {
		t.Fatalf("unexpected action: %+v", a)
	}
}

func TestParseCall_MissingRequired(t *testing.T) {
	_, err := ParseCall(`agent.scroll(description="the pane")`)
	pe, ok := err.(*ParseError)
	if !ok || pe.Kind != "MissingRequired" {
		t.Fatalf("expected MissingRequired, got %v", err)
	}
}

func TestParseCall_HotkeyNonEmpty(t *testing.T) {
	_, err := ParseCall(`agent.hotkey(keys=[])`)
	if err == nil {
		t.Fatal("expected an error for empty hotkey keys")
	}
}

func TestParseCall_SetCellValues(t *testing.T) {
	a, err := ParseCall(`agent.set_cell_values(values={"A1": 3, "B2": "total"}, app="LibreOffice Calc", sheet="Sheet1")`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.App != "LibreOffice Calc" || a.Sheet != "Sheet1" {
		t.Fatalf("unexpected action: %+v", a)
	}
	if a.Values["A1"] != int64(3) || a.Values["B2"] != "total" {
		t.Fatalf("unexpected values map: %+v", a.Values)
	}
}

func TestParseCall_SetCellValues_RejectsEmptyMap(t *testing.T) {
	_, err := ParseCall(`agent.set_cell_values(values={}, app="LibreOffice Calc", sheet="Sheet1")`)
	pe, ok := err.(*ParseError)
	if !ok || pe.Kind != "BadArgument" {
		t.Fatalf("expected BadArgument for an empty map, got %v", err)
	}
}

func TestParseCall_SetCellValues_MissingValues(t *testing.T) {
	_, err := ParseCall(`agent.set_cell_values(app="LibreOffice Calc", sheet="Sheet1")`)
	pe, ok := err.(*ParseError)
	if !ok || pe.Kind != "MissingRequired" {
		t.Fatalf("expected MissingRequired, got %v", err)
	}
}

func TestCheckExactlyOneCall_MissingFence(t *testing.T) {
	ok, feedback := CheckExactlyOneCall("agent.done()")
	if ok {
		t.Fatal("expected failure without a fenced block")
	}
	if feedback == "" {
		t.Fatal("expected non-empty feedback")
	}
}

func TestExtractAction_Click(t *testing.T) {
	input := "```python\nagent.click(\"the submit button\")\n```"
	action, code, err := ExtractAction(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if action.Verb != entity.VerbClick || action.Description != "the submit button" {
		t.Fatalf("unexpected action: %+v", action)
	}
	if code == "" {
		t.Fatal("expected non-empty extracted code")
	}
}
