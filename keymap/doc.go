// Package keymap resolves key events to editor actions.
//
// Bindings are keyed by Chord (key, rune and modifiers). The default table
// binds Ctrl+Q to quit, the arrows to single-step motions, Page Up/Down to
// vertical snaps, Home/End to line snaps and Ctrl+Home/Ctrl+End to the frame
// corners. Config overrides are parsed with LoadKeyConfig and layered over the
// defaults with MergeKeyTable; binding a chord to "none" removes it.
package keymap
