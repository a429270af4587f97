package inputbackend

import (
	"context"
	"fmt"
	"time"

	"guiagent/internal/application/port/output"
	"guiagent/internal/domain/entity"
)

var _ output.InputBackendPort = (*Recorder)(nil)

// defaultModifiers is the fixed set of key names treated as modifiers
// when partitioning a Hotkey call. Everything not in this set is a
// "regular" key.
var defaultModifiers = map[string]bool{
	"cmd": true, "command": true, "ctrl": true, "control": true,
	"alt": true, "option": true, "shift": true, "win": true, "meta": true,
}

// Recorder is the reference InputBackendPort. Real input synthesis is
// an OS-specific external collaborator; this implementation appends a
// string per input event to Events (one per primitive, except Hotkey,
// which records a down and an up per key), in call order, so the orchestrator's
// primitive sequencing — in particular the Hotkey
// down/settle/press/release ordering — is exercised and assertable
// without touching the OS.
type Recorder struct {
	Events      []string
	Modifiers   map[string]bool
	SettleDelay time.Duration
}

func NewRecorder() *Recorder {
	return &Recorder{Modifiers: defaultModifiers, SettleDelay: 5 * time.Millisecond}
}

func (r *Recorder) record(format string, args ...any) {
	r.Events = append(r.Events, fmt.Sprintf(format, args...))
}

func (r *Recorder) settle(ctx context.Context) error {
	if r.SettleDelay == 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(r.SettleDelay):
		return nil
	}
}

func (r *Recorder) Click(ctx context.Context, at entity.Point, count int, button entity.MouseButton) error {
	r.record("click:%d,%d:count=%d:button=%s", at.X, at.Y, count, button)
	return nil
}

func (r *Recorder) Drag(ctx context.Context, from, to entity.Point, duration float64) error {
	r.record("drag:%d,%d->%d,%d:duration=%v", from.X, from.Y, to.X, to.Y, duration)
	return nil
}

func (r *Recorder) TypeText(ctx context.Context, text string) error {
	r.record("type_text:%s", text)
	return nil
}

func (r *Recorder) PressEnter(ctx context.Context) error {
	r.record("press_enter")
	return nil
}

func (r *Recorder) PressBackspace(ctx context.Context) error {
	r.record("press_backspace")
	return nil
}

// Hotkey follows a fixed ordering: modifiers down in given order,
// settle, regulars down in given order, settle, regulars up in
// reverse order, modifiers up in reverse order. Omitting the
// regular-key press and sending only modifier events is a real class
// of input-synthesis bug — this sequencing guards against it.
func (r *Recorder) Hotkey(ctx context.Context, keys []string) error {
	var modifiers, regulars []string
	for _, k := range keys {
		if r.isModifier(k) {
			modifiers = append(modifiers, k)
		} else {
			regulars = append(regulars, k)
		}
	}

	for _, k := range modifiers {
		r.record("down:%s", k)
	}
	if err := r.settle(ctx); err != nil {
		return err
	}
	for _, k := range regulars {
		r.record("down:%s", k)
	}
	if err := r.settle(ctx); err != nil {
		return err
	}
	for i := len(regulars) - 1; i >= 0; i-- {
		r.record("up:%s", regulars[i])
	}
	for i := len(modifiers) - 1; i >= 0; i-- {
		r.record("up:%s", modifiers[i])
	}
	return nil
}

func (r *Recorder) isModifier(key string) bool {
	set := r.Modifiers
	if set == nil {
		set = defaultModifiers
	}
	return set[key]
}

func (r *Recorder) KeyDown(ctx context.Context, key string) error {
	r.record("down:%s", key)
	return nil
}

func (r *Recorder) KeyUp(ctx context.Context, key string) error {
	r.record("up:%s", key)
	return nil
}

func (r *Recorder) PressKey(ctx context.Context, key string) error {
	r.record("press:%s", key)
	return nil
}

func (r *Recorder) Scroll(ctx context.Context, at entity.Point, ticks int, horizontal bool) error {
	r.record("scroll:%d,%d:ticks=%d:horizontal=%v", at.X, at.Y, ticks, horizontal)
	return nil
}

func (r *Recorder) ClipboardSet(ctx context.Context, text string) error {
	r.record("clipboard_set:%s", text)
	return nil
}

func (r *Recorder) Sleep(ctx context.Context, seconds float64) error {
	r.record("sleep:%v", seconds)
	return nil
}
