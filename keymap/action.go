package keymap

import "sort"

// Action is the editor operation a key chord resolves to
type Action uint8

const (
	ActionNone Action = iota

	// System
	ActionQuit // Ctrl+Q

	// Single-step caret motions
	ActionUp
	ActionDown
	ActionLeft
	ActionRight

	// Snapping motions
	ActionPageUp     // row to top
	ActionPageDown   // row to bottom
	ActionLineStart  // Home
	ActionLineEnd    // End
	ActionFrameStart // Ctrl+Home, top-left
	ActionFrameEnd   // Ctrl+End, bottom-right
)

// actionRegistry maps canonical action names to actions
// Used by the config loader to resolve YAML action strings to bindings
var actionRegistry = map[string]Action{
	// Unbind sentinel
	"none": ActionNone,

	"quit": ActionQuit,

	"up":    ActionUp,
	"down":  ActionDown,
	"left":  ActionLeft,
	"right": ActionRight,

	"page_up":     ActionPageUp,
	"page_down":   ActionPageDown,
	"line_start":  ActionLineStart,
	"line_end":    ActionLineEnd,
	"frame_start": ActionFrameStart,
	"frame_end":   ActionFrameEnd,
}

var actionNames map[Action]string

func init() {
	actionNames = make(map[Action]string, len(actionRegistry))
	for name, a := range actionRegistry {
		actionNames[a] = name
	}
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}

// ActionByName resolves a canonical action name
// Returns ActionNone and false if name is unknown
func ActionByName(name string) (Action, bool) {
	a, ok := actionRegistry[name]
	return a, ok
}

// ActionNames returns all registered action names, sorted
func ActionNames() []string {
	names := make([]string, 0, len(actionRegistry))
	for name := range actionRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
