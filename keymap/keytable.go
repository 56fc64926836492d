package keymap

import "github.com/lixenwraith/hecto/terminal"

// KeyTable maps key chords to editor actions
type KeyTable struct {
	Bindings map[Chord]Action
}

// DefaultKeyTable returns the default key bindings
func DefaultKeyTable() *KeyTable {
	return &KeyTable{
		Bindings: map[Chord]Action{
			{Key: terminal.KeyRune, Rune: 'q', Mods: terminal.ModCtrl}: ActionQuit,

			{Key: terminal.KeyUp}:    ActionUp,
			{Key: terminal.KeyDown}:  ActionDown,
			{Key: terminal.KeyLeft}:  ActionLeft,
			{Key: terminal.KeyRight}: ActionRight,

			{Key: terminal.KeyPageUp}:   ActionPageUp,
			{Key: terminal.KeyPageDown}: ActionPageDown,
			{Key: terminal.KeyHome}:     ActionLineStart,
			{Key: terminal.KeyEnd}:      ActionLineEnd,

			{Key: terminal.KeyHome, Mods: terminal.ModCtrl}: ActionFrameStart,
			{Key: terminal.KeyEnd, Mods: terminal.ModCtrl}:  ActionFrameEnd,
		},
	}
}

// Resolve returns the action bound to a key event, ActionNone if unbound
// Only key presses resolve; repeat and release always map to ActionNone
func (kt *KeyTable) Resolve(ev terminal.Event) Action {
	if !ev.IsPress() {
		return ActionNone
	}
	return kt.Bindings[ChordOf(ev)]
}

// Clone returns a deep copy of the KeyTable with an independent map
func (kt *KeyTable) Clone() *KeyTable {
	c := make(map[Chord]Action, len(kt.Bindings))
	for k, v := range kt.Bindings {
		c[k] = v
	}
	return &KeyTable{Bindings: c}
}
