package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/spf13/pflag"

	"github.com/lixenwraith/hecto/bell"
	"github.com/lixenwraith/hecto/bell/tone"
	"github.com/lixenwraith/hecto/config"
	"github.com/lixenwraith/hecto/editor"
	"github.com/lixenwraith/hecto/terminal"
)

const (
	logDir      = "logs"
	logFileName = "hecto.log"
	maxLogSize  = 10 * 1024 * 1024
)

func main() {
	// Panic Recovery: ensure terminal is reset even if the editor crashes
	defer func() {
		if r := recover(); r != nil {
			terminal.EmergencyReset(os.Stdout)

			// Use \r\n in case the tty is still raw
			fmt.Fprintf(os.Stderr, "\r\n\x1b[31mHECTO CRASHED: %v\x1b[0m\r\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
			os.Exit(1)
		}
	}()

	os.Exit(run(os.Args[1:], os.Stderr))
}

// run is the testable body of main; it returns the process exit code
func run(args []string, stderr io.Writer) int {
	fs := pflag.NewFlagSet("hecto", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.StringP("config", "c", "", "path to YAML config file")
	debugLog := fs.Bool("debug", false, "write debug log to "+filepath.Join(logDir, logFileName))
	backend := fs.String("backend", "", "terminal backend: ansi, tcell (overrides config)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}

	if logFile := setupLogging(*debugLog); logFile != nil {
		defer logFile.Close()
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "hecto: %v\n", err)
		return 1
	}
	if *backend != "" {
		cfg.Terminal.Backend = *backend
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(stderr, "hecto: %v\n", err)
			return 1
		}
	}

	keys, err := cfg.KeyTable()
	if err != nil {
		fmt.Fprintf(stderr, "hecto: %v\n", err)
		return 1
	}

	driver, err := newDriver(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "hecto: %v\n", err)
		return 1
	}

	b, err := newBell(cfg, driver)
	if err != nil {
		// Audio is optional; the editor stays usable without it
		fmt.Fprintf(stderr, "hecto: %v (continuing without bell)\n", err)
		b = bell.Nop{}
	}
	if c, ok := b.(io.Closer); ok {
		defer c.Close()
	}

	log.Printf("hecto: backend=%s bell=%s kitty=%t", cfg.Terminal.Backend, cfg.BellMode(), cfg.Terminal.KittyKeyboard)

	ed := editor.New(driver,
		editor.WithKeyTable(keys),
		editor.WithBell(b),
		editor.WithView(cfg.ViewOptions()),
		editor.WithFarewell(cfg.View.Farewell),
	)

	// Terminal is restored by the time Run returns, so stderr is safe
	if err := ed.Run(); err != nil {
		log.Printf("hecto: %v", err)
		fmt.Fprintf(stderr, "hecto: %v\n", err)
		return 1
	}
	return 0
}

// newDriver builds the terminal driver selected by cfg
func newDriver(cfg *config.Config) (terminal.Driver, error) {
	switch cfg.Terminal.Backend {
	case config.BackendTcell:
		s, err := terminal.NewTcell()
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		var opts []terminal.Option
		if cfg.Terminal.KittyKeyboard {
			opts = append(opts, terminal.WithKittyKeyboard())
		}
		return terminal.New(opts...), nil
	}
}

// newBell builds the boundary feedback selected by cfg
func newBell(cfg *config.Config, p bell.Printer) (bell.Bell, error) {
	mode := cfg.BellMode()
	if mode == bell.ModeTone {
		t, err := tone.New(cfg.Bell.Volume)
		if err != nil {
			return nil, err
		}
		return t, nil
	}
	return bell.New(mode, p)
}

// setupLogging routes the standard logger to logs/hecto.log in debug mode
// Output is discarded otherwise; stdout and stderr belong to the terminal
func setupLogging(debug bool) *os.File {
	if !debug {
		log.SetOutput(io.Discard)
		return nil
	}

	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.SetOutput(io.Discard)
		return nil
	}

	logPath := filepath.Join(logDir, logFileName)
	if info, err := os.Stat(logPath); err == nil && info.Size() > maxLogSize {
		rotated := filepath.Join(logDir, fmt.Sprintf("hecto-%s.log", time.Now().Format("20060102-150405")))
		if err := os.Rename(logPath, rotated); err != nil {
			os.Remove(logPath)
		}
	}

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		log.SetOutput(io.Discard)
		return nil
	}

	log.SetOutput(f)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	return f
}
