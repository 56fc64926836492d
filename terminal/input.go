package terminal

import (
	"unicode/utf8"
)

// maxSequenceLen bounds the scan for a CSI terminator before the bytes are discarded
const maxSequenceLen = 32

// decoder assembles raw stdin bytes into events
// Partial sequences stay buffered until more bytes arrive or a poll times out
type decoder struct {
	// Persistent buffer for stream assembly, not fixed size to avoid corrupting partial UTF-8 at boundary
	buf []byte
}

// feed appends freshly read bytes
func (d *decoder) feed(data []byte) {
	d.buf = append(d.buf, data...)
}

// pending reports whether undecoded bytes remain
func (d *decoder) pending() bool {
	return len(d.buf) > 0
}

// next returns the next complete event, swallowing unknown sequences on the way
func (d *decoder) next() (Event, bool) {
	for len(d.buf) > 0 {
		consumed, ev, ok := parseEvent(d.buf)
		if consumed == 0 {
			// Incomplete sequence, wait for more data
			return Event{}, false
		}
		d.consume(consumed)
		if ok {
			return ev, true
		}
	}
	return Event{}, false
}

// expire resolves a stalled partial sequence after a poll timeout
// A lone ESC is the Escape key, a bare ESC [ or ESC O is Alt+[ or Alt+O;
// any other fragment is discarded
func (d *decoder) expire() (Event, bool) {
	buf := d.buf
	d.buf = d.buf[:0]

	switch {
	case len(buf) == 1 && buf[0] == 0x1b:
		return keyEvent(KeyEscape, ModNone), true
	case len(buf) == 2 && buf[0] == 0x1b && (buf[1] == '[' || buf[1] == 'O'):
		return runeEvent(rune(buf[1]), ModAlt), true
	}
	return Event{}, false
}

func (d *decoder) consume(n int) {
	if n >= len(d.buf) {
		d.buf = d.buf[:0]
		return
	}
	copy(d.buf, d.buf[n:])
	d.buf = d.buf[:len(d.buf)-n]
}

func keyEvent(k Key, mod Modifier) Event {
	return Event{Type: EventKey, Key: k, Modifiers: mod}
}

func runeEvent(r rune, mod Modifier) Event {
	return Event{Type: EventKey, Key: KeyRune, Rune: r, Modifiers: mod}
}

// parseEvent decodes one event from the head of data
// Returns consumed=0 when data holds an incomplete sequence, ok=false for swallowed input
func parseEvent(data []byte) (consumed int, ev Event, ok bool) {
	b := data[0]

	switch {
	case b == 0x1b:
		// Need at least 2 bytes to determine sequence type
		if len(data) < 2 {
			return 0, Event{}, false
		}
		return parseEscape(data)

	case b >= 0x20 && b < 0x7f:
		// Fast path: printable ASCII
		return 1, runeEvent(rune(b), ModNone), true

	case b == 0x7f:
		return 1, keyEvent(KeyBackspace, ModNone), true

	case b < 0x20:
		return 1, controlEvent(b), true
	}

	// UTF-8 multibyte
	if !utf8.FullRune(data) {
		return 0, Event{}, false
	}
	r, size := utf8.DecodeRune(data)
	if r == utf8.RuneError && size == 1 {
		// Invalid start byte, skip
		return 1, Event{}, false
	}
	return size, runeEvent(r, ModNone), true
}

// controlEvent maps C0 control bytes to keys
// Ctrl+letter is normalized to the lowercase letter with ModCtrl
func controlEvent(b byte) Event {
	switch b {
	case 0x00: // Ctrl+Space or Ctrl+@
		return runeEvent(' ', ModCtrl)
	case 0x08: // Ctrl+H or Backspace
		return keyEvent(KeyBackspace, ModNone)
	case 0x09:
		return keyEvent(KeyTab, ModNone)
	case 0x0a, 0x0d: // LF, CR
		return keyEvent(KeyEnter, ModNone)
	case 0x1b:
		return keyEvent(KeyEscape, ModNone)
	case 0x1c:
		return runeEvent('\\', ModCtrl)
	case 0x1d:
		return runeEvent(']', ModCtrl)
	case 0x1e:
		return runeEvent('^', ModCtrl)
	case 0x1f:
		return runeEvent('_', ModCtrl)
	}
	return runeEvent(rune('a'+b-1), ModCtrl)
}

// parseEscape parses a sequence starting with ESC; data holds at least 2 bytes
func parseEscape(data []byte) (int, Event, bool) {
	switch next := data[1]; {
	case next == 0x1b:
		// ESC ESC -> Alt+Escape
		return 2, keyEvent(KeyEscape, ModAlt), true
	case next == '[':
		return parseCSI(data)
	case next == 'O':
		return parseSS3(data)
	case next < 0x20:
		// Alt+Control character
		ev := controlEvent(next)
		ev.Modifiers |= ModAlt
		return 2, ev, true
	case next < 0x7f:
		// Alt+printable
		return 2, runeEvent(rune(next), ModAlt), true
	case next == 0x7f:
		return 2, keyEvent(KeyBackspace, ModAlt), true
	}

	// ESC followed by non-ASCII: standalone Escape, the rest decodes on its own
	return 1, keyEvent(KeyEscape, ModNone), true
}

// parseCSI parses ESC [ params final
// Unknown but well-formed sequences are consumed and swallowed
func parseCSI(data []byte) (int, Event, bool) {
	if len(data) < 3 {
		return 0, Event{}, false
	}

	end := 2
	for ; end < len(data); end++ {
		b := data[end]
		if b >= 0x40 && b <= 0x7e {
			break
		}
		if b < 0x20 || b > 0x3f {
			// Not CSI syntax, drop what was scanned
			return end, Event{}, false
		}
		if end >= maxSequenceLen {
			return end, Event{}, false
		}
	}
	if end >= len(data) {
		// No terminator yet
		return 0, Event{}, false
	}

	consumed := end + 1
	final := data[end]
	code, mod, action, ok := parseCSIParams(data[2:end])
	if !ok {
		return consumed, Event{}, false
	}

	var ev Event
	switch final {
	case 'u':
		ev, ok = kittyEvent(code)
	case '~':
		var k Key
		k, ok = csiTildeKeys[code]
		ev = keyEvent(k, ModNone)
	default:
		var k Key
		k, ok = csiFinalKeys[final]
		ev = keyEvent(k, ModNone)
		if final == 'Z' {
			ev.Modifiers = ModShift
		}
	}
	if !ok {
		return consumed, Event{}, false
	}

	ev.Modifiers |= mod
	ev.Action = action
	return consumed, ev, true
}

// kittyEvent maps a kitty keyboard protocol codepoint to an event
func kittyEvent(code int) (Event, bool) {
	if k, ok := kittyCodepointKeys[code]; ok {
		return keyEvent(k, ModNone), true
	}
	// Private use area holds kitty functional keys not handled here
	if code < 0x20 || (code >= 0xe000 && code <= 0xf8ff) || code > utf8.MaxRune {
		return Event{}, false
	}
	return runeEvent(rune(code), ModNone), true
}

// parseCSIParams extracts "code[:alt...];mod[:event][;text]"
// Empty fields take xterm defaults (code 1, modifier 1, event 1)
func parseCSIParams(params []byte) (code int, mod Modifier, action KeyAction, ok bool) {
	field, sub := 0, 0
	val, seen := 0, false
	code, modParam, eventParam := 1, 1, 1

	store := func() {
		if !seen {
			return
		}
		switch {
		case field == 0 && sub == 0:
			code = val
		case field == 1 && sub == 0:
			modParam = val
		case field == 1 && sub == 1:
			eventParam = val
		}
	}

	for _, b := range params {
		switch {
		case b >= '0' && b <= '9':
			val = val*10 + int(b-'0')
			seen = true
			if val > 0x10ffff {
				return 0, 0, 0, false
			}
		case b == ':':
			store()
			sub++
			val, seen = 0, false
		case b == ';':
			store()
			field++
			sub = 0
			val, seen = 0, false
		default:
			// Private markers (<, =, >, ?) belong to replies and mouse reports
			return 0, 0, 0, false
		}
	}
	store()

	if modParam > 1 {
		mod = Modifier(modParam-1) & (ModShift | ModAlt | ModCtrl)
	}

	switch eventParam {
	case 2:
		action = KeyRepeat
	case 3:
		action = KeyRelease
	default:
		action = KeyPress
	}
	return code, mod, action, true
}

// parseSS3 parses ESC O X, returns length even for unknown sequences
func parseSS3(data []byte) (int, Event, bool) {
	if len(data) < 3 {
		return 0, Event{}, false
	}
	if k, ok := ss3Keys[data[2]]; ok {
		return 3, keyEvent(k, ModNone), true
	}
	// Unknown SS3 - consume to prevent garbage
	return 3, Event{}, false
}
