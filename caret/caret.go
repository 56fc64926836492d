// Package caret holds the logical text-insertion position tracked by the editor.
//
// The caret is distinct from the terminal's hardware cursor, which is moved to
// match it on every refresh.
package caret

// Position is a zero-based cell coordinate
// The zero value is the top-left corner
type Position struct {
	Column int
	Row    int
}

// Origin is the top-left cell
var Origin = Position{}
