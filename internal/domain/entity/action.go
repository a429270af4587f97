package entity

// ActionVerb is the closed set of agent verbs a model turn must parse
// into. Nothing outside this set reaches the Grounder.
type ActionVerb string

const (
	VerbClick              ActionVerb = "click"
	VerbType               ActionVerb = "type"
	VerbScroll             ActionVerb = "scroll"
	VerbDragAndDrop        ActionVerb = "drag_and_drop"
	VerbHighlightTextSpan  ActionVerb = "highlight_text_span"
	VerbHotkey             ActionVerb = "hotkey"
	VerbHoldAndPress       ActionVerb = "hold_and_press"
	VerbWait               ActionVerb = "wait"
	VerbDone               ActionVerb = "done"
	VerbFail               ActionVerb = "fail"
	VerbCallCodeAgent      ActionVerb = "call_code_agent"
	VerbSwitchApplications ActionVerb = "switch_applications"
	VerbOpen               ActionVerb = "open"
	VerbSaveToKnowledge    ActionVerb = "save_to_knowledge"
	VerbSetCellValues      ActionVerb = "set_cell_values"
)

// MouseButton is the closed set the parser accepts for Button fields.
type MouseButton string

const (
	ButtonLeft   MouseButton = "left"
	ButtonRight  MouseButton = "right"
	ButtonMiddle MouseButton = "middle"
)

// Action is the typed sum-type every parsed model turn resolves to.
// Exactly one verb's fields are meaningful per value; Verb selects
// which. This is the safe replacement for evaluating model output as
// code: the parser only ever produces values of this type.
type Action struct {
	Verb ActionVerb

	// Click
	Description string
	NumClicks   int
	Button      MouseButton
	HoldKeys    []string

	// Type
	Text      string
	Overwrite bool
	Enter     bool

	// Scroll
	Clicks     int
	Horizontal bool

	// DragAndDrop
	StartDesc string
	EndDesc   string

	// HighlightTextSpan
	StartPhrase string
	EndPhrase   string

	// Hotkey / HoldAndPress
	Keys      []string
	PressKeys []string

	// Wait
	Seconds float64

	// CallCodeAgent
	Task *string

	// SwitchApplications / Open
	AppCode        string
	AppOrFilename  string

	// SaveToKnowledge
	Notes []string

	// SetCellValues
	Values map[string]any
	App    string
	Sheet  string
}

// DefaultAction fills in each verb's documented defaults. The parser
// calls this before binding arguments so an omitted optional field
// round-trips to the same value as writing the default out
// explicitly.
func DefaultAction(verb ActionVerb) Action {
	a := Action{Verb: verb}
	switch verb {
	case VerbClick:
		a.NumClicks = 1
		a.Button = ButtonLeft
		a.HoldKeys = nil
	case VerbType:
		a.Overwrite = false
		a.Enter = false
	case VerbScroll:
		a.Horizontal = false
	case VerbDragAndDrop:
		a.HoldKeys = nil
	case VerbHighlightTextSpan:
		a.Button = ButtonLeft
	}
	return a
}

// IsTerminal reports whether the action ends the orchestrator loop
// outright (Done/Fail), per the C9 state table.
func (a Action) IsTerminal() bool {
	return a.Verb == VerbDone || a.Verb == VerbFail
}
