package keymap

import (
	"fmt"
	"strings"
)

// LoadKeyConfig parses chord → action name pairs into a sparse override KeyTable
// Entries bound to "none" are kept as ActionNone so MergeKeyTable can unbind them
// Returns error on unknown action names or invalid chords
func LoadKeyConfig(raw map[string]string) (*KeyTable, error) {
	kt := &KeyTable{Bindings: make(map[Chord]Action, len(raw))}

	for chordStr, actionName := range raw {
		c, err := ParseChord(chordStr)
		if err != nil {
			return nil, fmt.Errorf("keys: %w", err)
		}

		a, err := resolveAction(actionName)
		if err != nil {
			return nil, fmt.Errorf("keys: chord %q: %w", chordStr, err)
		}

		if prev, dup := kt.Bindings[c]; dup && prev != a {
			return nil, fmt.Errorf("keys: chord %q bound twice (%s, %s)", c, prev, a)
		}
		kt.Bindings[c] = a
	}

	return kt, nil
}

// resolveAction converts an action name string to an Action
func resolveAction(name string) (Action, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	a, ok := ActionByName(name)
	if !ok {
		return ActionNone, fmt.Errorf("unknown action: %q (valid: %s)", name, strings.Join(ActionNames(), ", "))
	}
	return a, nil
}

// MergeKeyTable returns a new KeyTable with base values overridden by override
// Override entries with ActionNone ("none" action) delete the chord from the result
func MergeKeyTable(base, override *KeyTable) *KeyTable {
	result := base.Clone()
	if override == nil {
		return result
	}

	for k, v := range override.Bindings {
		if v == ActionNone {
			delete(result.Bindings, k)
		} else {
			result.Bindings[k] = v
		}
	}
	return result
}
