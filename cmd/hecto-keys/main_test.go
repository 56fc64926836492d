package main

import (
	"testing"

	"github.com/lixenwraith/hecto/keymap"
	"github.com/lixenwraith/hecto/terminal"
)

func TestFormatKeyEvent(t *testing.T) {
	tests := []struct {
		name   string
		ev     terminal.Event
		action keymap.Action
		want   string
	}{
		{
			name:   "bound chord",
			ev:     terminal.Event{Type: terminal.EventKey, Key: terminal.KeyRune, Rune: 'q', Modifiers: terminal.ModCtrl},
			action: keymap.ActionQuit,
			want:   "KEY: ctrl+q -> quit",
		},
		{
			name: "unbound rune",
			ev:   terminal.Event{Type: terminal.EventKey, Key: terminal.KeyRune, Rune: 'a'},
			want: "KEY: a",
		},
		{
			name: "release",
			ev:   terminal.Event{Type: terminal.EventKey, Key: terminal.KeyUp, Action: terminal.KeyRelease},
			want: "KEY: up [release]",
		},
		{
			name:   "ctrl home",
			ev:     terminal.Event{Type: terminal.EventKey, Key: terminal.KeyHome, Modifiers: terminal.ModCtrl},
			action: keymap.ActionFrameStart,
			want:   "KEY: ctrl+home -> frame_start",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatKeyEvent(tt.ev, tt.action); got != tt.want {
				t.Errorf("formatKeyEvent() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInspectorLogIsBounded(t *testing.T) {
	ins := &inspector{keys: keymap.DefaultKeyTable()}
	for i := 0; i < maxLog+5; i++ {
		ins.add("entry")
	}
	if len(ins.log) != maxLog {
		t.Errorf("log length = %d, want %d", len(ins.log), maxLog)
	}
}
