// Package view draws the static frame: placeholder rows, a centered banner
// and an optional greeting line.
package view

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/lixenwraith/hecto/terminal"
)

const (
	DefaultBanner      = "hecto editor -- version 0.1.0"
	DefaultPlaceholder = "~"
)

// Surface is the part of the terminal driver the renderer draws through
type Surface interface {
	ClearLine()
	Print(text string)
	Size() (terminal.Size, error)
}

// Options configures frame content
// An empty Greeting disables the greeting row
type Options struct {
	Banner      string
	Greeting    string
	Placeholder string
}

// Renderer writes one full frame per Render call and keeps no state between calls
type Renderer struct {
	surface Surface
	opts    Options
}

// New creates a renderer; empty Banner and Placeholder fall back to the defaults
func New(s Surface, opts Options) *Renderer {
	if opts.Banner == "" {
		opts.Banner = DefaultBanner
	}
	if opts.Placeholder == "" {
		opts.Placeholder = DefaultPlaceholder
	}
	return &Renderer{surface: s, opts: opts}
}

// Render queues every row of the viewport starting at the current write position
// Rows are separated by CR LF; the last row has no terminator
func (r *Renderer) Render() error {
	size, err := r.surface.Size()
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	bannerRow := BannerRow(size.Height)
	for row := 0; row < size.Height; row++ {
		r.surface.ClearLine()
		r.surface.Print(r.rowText(row, bannerRow, size.Width))
		if row+1 < size.Height {
			r.surface.Print("\r\n")
		}
	}
	return nil
}

func (r *Renderer) rowText(row, bannerRow, width int) string {
	switch {
	case row == bannerRow:
		return BannerLine(r.opts.Placeholder, r.opts.Banner, width)
	case row == 0 && r.opts.Greeting != "":
		return fit(r.opts.Greeting, width)
	default:
		return fit(r.opts.Placeholder, width)
	}
}

// BannerRow returns the row the banner is drawn on for a viewport height
func BannerRow(height int) int {
	return height / 3
}

// BannerPadding returns the spaces between the marker and text of width textWidth
// Never negative; narrow viewports degrade to truncation
func BannerPadding(textWidth, width int) int {
	return max((width-textWidth)/2-1, 0)
}

// BannerLine centers text behind a marker and truncates the line to width cells
func BannerLine(marker, text string, width int) string {
	padding := BannerPadding(runewidth.StringWidth(text), width)
	return fit(marker+strings.Repeat(" ", padding)+text, width)
}

// fit truncates s to at most width display cells
func fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "")
}
