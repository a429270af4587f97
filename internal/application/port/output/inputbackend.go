package output

import (
	"context"

	"guiagent/internal/domain/entity"
)

// InputBackendPort is C2: the only component that touches the host's
// input subsystem. Primitives are best-effort and idempotent over a
// single invocation — they never raise on "element not present"
// because, at this layer, there is no notion of an element, only
// coordinates.
type InputBackendPort interface {
	Click(ctx context.Context, at entity.Point, count int, button entity.MouseButton) error
	Drag(ctx context.Context, from, to entity.Point, duration float64) error
	TypeText(ctx context.Context, text string) error
	PressEnter(ctx context.Context) error
	PressBackspace(ctx context.Context) error

	// Hotkey presses modifiers in order, a small settle delay, then
	// the regular keys, another settle delay, then releases regulars
	// in reverse order followed by modifiers in reverse order. This
	// exact ordering is what makes chords like cmd+space deterministic
	// across backends.
	Hotkey(ctx context.Context, keys []string) error
	KeyDown(ctx context.Context, key string) error
	KeyUp(ctx context.Context, key string) error
	PressKey(ctx context.Context, key string) error

	Scroll(ctx context.Context, at entity.Point, ticks int, horizontal bool) error
	ClipboardSet(ctx context.Context, text string) error
	Sleep(ctx context.Context, seconds float64) error
}
