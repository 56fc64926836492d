package terminal

import (
	"fmt"

	"github.com/lixenwraith/hecto/caret"
)

// CommandKind identifies a deferred terminal operation
type CommandKind uint8

const (
	CmdClearAll CommandKind = iota
	CmdClearLine
	CmdMoveTo
	CmdPrint
	CmdHideCaret
	CmdShowCaret
)

var commandNames = [...]string{
	CmdClearAll:  "clear-all",
	CmdClearLine: "clear-line",
	CmdMoveTo:    "move-to",
	CmdPrint:     "print",
	CmdHideCaret: "hide-caret",
	CmdShowCaret: "show-caret",
}

func (k CommandKind) String() string {
	if int(k) < len(commandNames) {
		return commandNames[k]
	}
	return fmt.Sprintf("CommandKind(%d)", k)
}

// Command is a single queued render instruction
// Position is used by CmdMoveTo, Text by CmdPrint
type Command struct {
	Kind     CommandKind
	Position caret.Position
	Text     string
}

func (c Command) String() string {
	switch c.Kind {
	case CmdMoveTo:
		return fmt.Sprintf("move-to(%d,%d)", c.Position.Column, c.Position.Row)
	case CmdPrint:
		return fmt.Sprintf("print(%q)", c.Text)
	default:
		return c.Kind.String()
	}
}

// Buffer holds commands between queueing and Execute
// Commands are write-only until drained
type Buffer struct {
	cmds []Command
}

// Queue appends a command
func (b *Buffer) Queue(c Command) {
	b.cmds = append(b.cmds, c)
}

// Len returns the number of queued commands
func (b *Buffer) Len() int {
	return len(b.cmds)
}

// Pending returns a copy of the queued commands without consuming them
func (b *Buffer) Pending() []Command {
	out := make([]Command, len(b.cmds))
	copy(out, b.cmds)
	return out
}

// Drain returns the queued commands and empties the buffer
// The returned slice is only valid until the next Queue
func (b *Buffer) Drain() []Command {
	cmds := b.cmds
	b.cmds = b.cmds[:0]
	return cmds
}
