package terminal

import (
	"github.com/charmbracelet/x/ansi"
)

// Kitty keyboard flags requested when event reporting is enabled
// Disambiguation keeps Ctrl+letter distinct, event types add repeat/release
const kittyFlags = ansi.KittyDisambiguateEscapeCodes | ansi.KittyReportEventTypes

// appendCommand appends the escape-sequence form of c to dst
func appendCommand(dst []byte, c Command) []byte {
	switch c.Kind {
	case CmdClearAll:
		return append(dst, ansi.EraseEntireScreen...)
	case CmdClearLine:
		return append(dst, ansi.EraseEntireLine...)
	case CmdMoveTo:
		// CUP is 1-indexed
		return append(dst, ansi.CursorPosition(c.Position.Column+1, c.Position.Row+1)...)
	case CmdPrint:
		return append(dst, c.Text...)
	case CmdHideCaret:
		return append(dst, ansi.HideCursor...)
	case CmdShowCaret:
		return append(dst, ansi.ShowCursor...)
	}
	return dst
}

// encodeCommands renders a batch into dst, reusing its capacity
func encodeCommands(dst []byte, cmds []Command) []byte {
	dst = dst[:0]
	for _, c := range cmds {
		dst = appendCommand(dst, c)
	}
	return dst
}
