package inputbackend

import (
	"context"
	"reflect"
	"testing"
)

func TestHotkey_CmdSpace(t *testing.T) {
	r := NewRecorder()
	r.SettleDelay = 0

	if err := r.Hotkey(context.Background(), []string{"cmd", "space"}); err != nil {
		t.Fatalf("Hotkey failed: %v", err)
	}

	want := []string{"down:cmd", "down:space", "up:space", "up:cmd"}
	if !reflect.DeepEqual(r.Events, want) {
		t.Errorf("got %v, want %v", r.Events, want)
	}
}

func TestHotkey_CtrlShiftT(t *testing.T) {
	r := NewRecorder()
	r.SettleDelay = 0

	if err := r.Hotkey(context.Background(), []string{"ctrl", "shift", "t"}); err != nil {
		t.Fatalf("Hotkey failed: %v", err)
	}

	want := []string{"down:ctrl", "down:shift", "down:t", "up:t", "up:shift", "up:ctrl"}
	if !reflect.DeepEqual(r.Events, want) {
		t.Errorf("got %v, want %v", r.Events, want)
	}
}
