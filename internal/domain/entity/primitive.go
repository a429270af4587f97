package entity

// PrimitiveKind is the closed set of low-level input commands the
// InputBackend port executes. The Grounder is the only producer of
// these; the InputBackend is the only consumer.
type PrimitiveKind string

const (
	PrimClick        PrimitiveKind = "click"
	PrimDrag         PrimitiveKind = "drag"
	PrimTypeText     PrimitiveKind = "type_text"
	PrimPressEnter   PrimitiveKind = "press_enter"
	PrimBackspace    PrimitiveKind = "press_backspace"
	PrimHotkey       PrimitiveKind = "hotkey"
	PrimKeyDown      PrimitiveKind = "key_down"
	PrimKeyUp        PrimitiveKind = "key_up"
	PrimPressKey     PrimitiveKind = "press_key"
	PrimScroll       PrimitiveKind = "scroll"
	PrimClipboardSet PrimitiveKind = "clipboard_set"
	PrimSleep        PrimitiveKind = "sleep"
)

// Point is a screen-space coordinate in pixels.
type Point struct {
	X, Y int
}

// Primitive is one low-level input command compiled from an Action by
// the Grounder. Only the fields relevant to Kind are populated.
type Primitive struct {
	Kind PrimitiveKind

	// click / drag endpoints
	At  Point
	To  Point

	Count    int
	Button   MouseButton
	Duration float64 // seconds, drag

	Text string // type_text / clipboard_set

	Keys []string // hotkey / key_down / key_up / press_key

	Ticks      int // scroll
	Horizontal bool

	Seconds float64 // sleep
}

func Click(at Point, count int, button MouseButton) Primitive {
	return Primitive{Kind: PrimClick, At: at, Count: count, Button: button}
}

func Drag(from, to Point, duration float64, button MouseButton) Primitive {
	return Primitive{Kind: PrimDrag, At: from, To: to, Duration: duration, Button: button}
}

func TypeText(text string) Primitive {
	return Primitive{Kind: PrimTypeText, Text: text}
}

func PressEnter() Primitive { return Primitive{Kind: PrimPressEnter} }

func PressBackspace() Primitive { return Primitive{Kind: PrimBackspace} }

func Hotkey(keys ...string) Primitive {
	return Primitive{Kind: PrimHotkey, Keys: keys}
}

func KeyDown(key string) Primitive { return Primitive{Kind: PrimKeyDown, Keys: []string{key}} }

func KeyUp(key string) Primitive { return Primitive{Kind: PrimKeyUp, Keys: []string{key}} }

func PressKey(key string) Primitive { return Primitive{Kind: PrimPressKey, Keys: []string{key}} }

func Scroll(at Point, ticks int, horizontal bool) Primitive {
	return Primitive{Kind: PrimScroll, At: at, Ticks: ticks, Horizontal: horizontal}
}

func ClipboardSet(text string) Primitive {
	return Primitive{Kind: PrimClipboardSet, Text: text}
}

func Sleep(seconds float64) Primitive {
	return Primitive{Kind: PrimSleep, Seconds: seconds}
}
