// Command hecto-keys shows how the terminal reports each key and which
// editor action it is bound to. Useful when writing the keys: section of
// a config file.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/pflag"

	"github.com/lixenwraith/hecto/caret"
	"github.com/lixenwraith/hecto/config"
	"github.com/lixenwraith/hecto/keymap"
	"github.com/lixenwraith/hecto/terminal"
)

const maxLog = 10

func main() {
	fs := pflag.NewFlagSet("hecto-keys", pflag.ContinueOnError)
	configPath := fs.StringP("config", "c", "", "path to YAML config file")
	kitty := fs.Bool("kitty", false, "request kitty keyboard reporting (press/repeat/release)")
	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "hecto-keys: %v\n", err)
		os.Exit(1)
	}
	keys, err := cfg.KeyTable()
	if err != nil {
		fmt.Fprintf(os.Stderr, "hecto-keys: %v\n", err)
		os.Exit(1)
	}

	var opts []terminal.Option
	if *kitty || cfg.Terminal.KittyKeyboard {
		opts = append(opts, terminal.WithKittyKeyboard())
	}
	term := terminal.New(opts...)

	ins := &inspector{keys: keys}
	if err := terminal.Run(term, func() error { return ins.loop(term) }); err != nil {
		fmt.Fprintf(os.Stderr, "hecto-keys: %v\n", err)
		os.Exit(1)
	}
}

// inspector keeps the most recent events for display
type inspector struct {
	keys *keymap.KeyTable
	log  []string
}

func (ins *inspector) add(s string) {
	if len(ins.log) >= maxLog {
		copy(ins.log, ins.log[1:])
		ins.log = ins.log[:maxLog-1]
	}
	ins.log = append(ins.log, s)
}

func (ins *inspector) loop(d terminal.Driver) error {
	for {
		if err := ins.render(d); err != nil {
			return err
		}

		ev, err := d.ReadEvent()
		if err != nil {
			return err
		}

		switch ev.Type {
		case terminal.EventKey:
			action := ins.keys.Resolve(ev)
			ins.add(formatKeyEvent(ev, action))
			if action == keymap.ActionQuit {
				return nil
			}
		case terminal.EventResize:
			ins.add(fmt.Sprintf("RESIZE: %dx%d", ev.Width, ev.Height))
		}
	}
}

func (ins *inspector) render(d terminal.Driver) error {
	size, err := d.Size()
	if err != nil {
		return err
	}

	d.HideCaret()
	d.ClearScreen()
	d.MoveCaretTo(caret.Origin)
	d.Print(clip("hecto-keys: press keys, the quit binding exits", size.Width))
	for i, entry := range ins.log {
		row := 2 + i
		if row >= size.Height {
			break
		}
		d.MoveCaretTo(caret.Position{Column: 1, Row: row})
		d.Print(clip(entry, size.Width-1))
	}
	return d.Execute()
}

// formatKeyEvent renders one event as "KEY: <chord> [<event type>] -> <action>"
func formatKeyEvent(ev terminal.Event, action keymap.Action) string {
	chord := keymap.ChordOf(ev)
	name := chord.String()
	if ev.Key == terminal.KeyRune && (ev.Rune < 0x20 || ev.Rune == 0x7f) {
		name = fmt.Sprintf("U+%04X", ev.Rune)
	}

	s := "KEY: " + name
	switch ev.Action {
	case terminal.KeyRepeat:
		s += " [repeat]"
	case terminal.KeyRelease:
		s += " [release]"
	}
	if action != keymap.ActionNone {
		s += " -> " + action.String()
	}
	return s
}

func clip(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "")
}
