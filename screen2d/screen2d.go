// Copyright 2017 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package screen2d implements a character display that outputs to terminal
// (stdout) using ANSI color codes.
//
// Useful while you are waiting for your HD44780 panel to come by mail, or to
// mirror a simulated one.
package screen2d

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"io"
	"strings"

	fcolor "github.com/fatih/color"
	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"periph.io/x/conn/v3"

	"github.com/GermanBionicSystems/batmon/battery"
)

// Opts represents the options available for this display.
type Opts struct {
	Rows int
	Cols int
	// Palette maps the status swatch to the terminal colors. Defaults to
	// ansi256.Default.
	Palette *ansi256.Palette
	// W defaults to a colorable stdout.
	W io.Writer
	// NoColor disables every escape code except cursor movement.
	NoColor bool

	_ struct{}
}

// Dev is a character display emulator that outputs to the console.
type Dev struct {
	w       io.Writer
	rows    int
	cols    int
	palette ansi256.Palette
	noColor bool

	cells  [][]byte
	row    int
	col    int
	status battery.Status
	known  bool
	drawn  bool
	buf    bytes.Buffer
}

// statusColors is the swatch color of each status.
var statusColors = map[battery.Status]color.NRGBA{
	battery.Critical: {0xff, 0x00, 0x00, 0xff},
	battery.Low:      {0xff, 0xa0, 0x00, 0xff},
	battery.OK:       {0xff, 0xff, 0x00, 0xff},
	battery.Good:     {0x00, 0xd0, 0x00, 0xff},
	battery.Charging: {0x00, 0x80, 0xff, 0xff},
	battery.High:     {0xc0, 0x00, 0xff, 0xff},
}

// statusText is the text attribute of each status.
var statusText = map[battery.Status]fcolor.Attribute{
	battery.Critical: fcolor.FgHiRed,
	battery.Low:      fcolor.FgYellow,
	battery.OK:       fcolor.FgHiYellow,
	battery.Good:     fcolor.FgGreen,
	battery.Charging: fcolor.FgCyan,
	battery.High:     fcolor.FgMagenta,
}

// New returns a Dev that displays at the console.
func New(opts *Opts) (*Dev, error) {
	if opts.Rows < 1 || opts.Cols < 1 {
		return nil, errors.New("screen2d: rows and cols must be positive")
	}
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	w := opts.W
	if w == nil {
		w = colorable.NewColorableStdout()
	}
	d := &Dev{
		w:       w,
		rows:    opts.Rows,
		cols:    opts.Cols,
		palette: *p,
		noColor: opts.NoColor,
		cells:   make([][]byte, opts.Rows),
	}
	for i := range d.cells {
		d.cells[i] = bytes.Repeat([]byte{' '}, opts.Cols)
	}
	return d, nil
}

func (d *Dev) String() string {
	return "Screen2D"
}

// Halt implements conn.Resource.
//
// It resets the terminal attributes so the console is not left colored.
func (d *Dev) Halt() error {
	_, err := d.w.Write([]byte("\033[0m\n"))
	return err
}

// SetCursor moves the cursor to row, col (1 based).
func (d *Dev) SetCursor(row, col int) error {
	if row < 1 || row > d.rows || col < 1 || col > d.cols {
		return fmt.Errorf("screen2d: cursor (%d,%d) out of range", row, col)
	}
	d.row, d.col = row-1, col-1
	return nil
}

// WriteString writes text at the cursor and refreshes the console. Text past
// the end of the row is dropped.
func (d *Dev) WriteString(text string) (int, error) {
	n := 0
	for i := 0; i < len(text) && d.col < d.cols; i++ {
		d.cells[d.row][d.col] = text[i]
		d.col++
		n++
	}
	return n, d.refresh()
}

// Clear blanks the display.
func (d *Dev) Clear() error {
	for _, r := range d.cells {
		for i := range r {
			r[i] = ' '
		}
	}
	d.row, d.col = 0, 0
	return d.refresh()
}

// SetStatus colors the display after s.
func (d *Dev) SetStatus(s battery.Status) error {
	d.status, d.known = s, true
	return d.refresh()
}

// Text returns the rows joined by newlines.
func (d *Dev) Text() string {
	rows := make([]string, len(d.cells))
	for i, r := range d.cells {
		rows[i] = string(r)
	}
	return strings.Join(rows, "\n")
}

func (d *Dev) refresh() error {
	// This code is designed to minimize the amount of memory allocated per call.
	d.buf.Reset()
	if d.drawn {
		// Go back over the previous frame.
		fmt.Fprintf(&d.buf, "\033[%dA", d.rows+2)
	}
	border := "+" + strings.Repeat("-", d.cols) + "+"
	_, _ = d.buf.WriteString("\r" + border + "\n")
	text := fcolor.New(fcolor.FgHiWhite)
	if d.known {
		text = fcolor.New(statusText[d.status])
	}
	if d.noColor {
		text.DisableColor()
	} else {
		text.EnableColor()
	}
	for i, r := range d.cells {
		_, _ = d.buf.WriteString("|")
		_, _ = text.Fprint(&d.buf, string(r))
		_, _ = d.buf.WriteString("|")
		if i == 0 && d.known {
			_, _ = d.buf.WriteString(" ")
			if d.noColor {
				_, _ = d.buf.WriteString(d.status.String())
			} else {
				_, _ = io.WriteString(&d.buf, d.palette.Block(statusColors[d.status]))
				_, _ = d.buf.WriteString("\033[0m")
			}
		}
		_, _ = d.buf.WriteString("\033[K\n")
	}
	_, _ = d.buf.WriteString(border + "\n")
	d.drawn = true
	_, err := d.buf.WriteTo(d.w)
	return err
}

var _ conn.Resource = &Dev{}
var _ fmt.Stringer = &Dev{}
