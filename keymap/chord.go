package keymap

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/lixenwraith/hecto/terminal"
)

// Chord is a key plus the modifiers held with it
// Rune is set only when Key is terminal.KeyRune
type Chord struct {
	Key  terminal.Key
	Rune rune
	Mods terminal.Modifier
}

// Rune aliases for keys that can't be written as a bare character in a chord
var runeAliases = map[string]rune{
	"space":     ' ',
	"plus":      '+',
	"backslash": '\\',
}

// Modifier prefixes accepted in chord strings
var modifierNames = map[string]terminal.Modifier{
	"ctrl":    terminal.ModCtrl,
	"control": terminal.ModCtrl,
	"alt":     terminal.ModAlt,
	"meta":    terminal.ModAlt,
	"shift":   terminal.ModShift,
}

// ChordOf extracts the chord of a key event
func ChordOf(ev terminal.Event) Chord {
	c := Chord{Key: ev.Key, Mods: ev.Modifiers}
	if ev.Key == terminal.KeyRune {
		c.Rune = ev.Rune
		if c.Mods&terminal.ModCtrl != 0 {
			// Ctrl+letter is case-insensitive on legacy terminals
			c.Rune = unicode.ToLower(c.Rune)
		}
	}
	return c
}

// ParseChord parses strings like "ctrl+q", "up", "ctrl+home" or "alt+space"
func ParseChord(s string) (Chord, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Chord{}, fmt.Errorf("empty chord")
	}

	parts := strings.Split(s, "+")
	// A trailing "+" means the plus key itself, e.g. "ctrl++"
	if strings.HasSuffix(s, "++") {
		parts = append(parts[:len(parts)-2], "+")
	}

	var c Chord
	for _, mod := range parts[:len(parts)-1] {
		m, ok := modifierNames[strings.ToLower(mod)]
		if !ok {
			return Chord{}, fmt.Errorf("chord %q: unknown modifier %q", s, mod)
		}
		c.Mods |= m
	}

	name := parts[len(parts)-1]
	if k, ok := terminal.KeyByName(strings.ToLower(name)); ok {
		c.Key = k
		return c, nil
	}

	r, err := resolveRune(name)
	if err != nil {
		return Chord{}, fmt.Errorf("chord %q: %w", s, err)
	}
	c.Key = terminal.KeyRune
	c.Rune = r
	if c.Mods&terminal.ModCtrl != 0 {
		c.Rune = unicode.ToLower(r)
	}
	return c, nil
}

// resolveRune converts a chord key string to a rune
// Accepts single characters and named aliases
func resolveRune(s string) (rune, error) {
	// Named alias
	if r, ok := runeAliases[strings.ToLower(s)]; ok {
		return r, nil
	}

	// Single character
	runes := []rune(s)
	if len(runes) == 1 {
		return runes[0], nil
	}

	return 0, fmt.Errorf("invalid key: %q (expected key name, single character or alias)", s)
}

// String returns the canonical chord form accepted by ParseChord
func (c Chord) String() string {
	var b strings.Builder
	if c.Mods&terminal.ModCtrl != 0 {
		b.WriteString("ctrl+")
	}
	if c.Mods&terminal.ModAlt != 0 {
		b.WriteString("alt+")
	}
	if c.Mods&terminal.ModShift != 0 {
		b.WriteString("shift+")
	}

	if c.Key != terminal.KeyRune {
		b.WriteString(terminal.KeyName(c.Key))
		return b.String()
	}

	for alias, r := range runeAliases {
		if r == c.Rune {
			b.WriteString(alias)
			return b.String()
		}
	}
	b.WriteRune(c.Rune)
	return b.String()
}
