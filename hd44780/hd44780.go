// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package hd44780 drives a Hitachi HD-44780 compatible character LCD over a
// bit-banged 4-bit parallel bus.
//
// Only the upper four data lines (D4-D7), register select (RS) and enable (E)
// are used. R/W must be tied low; the busy flag is never read so every
// operation waits a fixed time instead.
//
// # Command framing
//
// SendCommand puts a single nibble on the bus per call. The controller, once
// switched to 4-bit mode, assembles consecutive nibbles into one instruction,
// so callers that need a full 8-bit instruction issue two SendCommand calls
// (high nibble first). SetCursor and Clear do exactly that.
//
// # Datasheet
//
// https://www.sparkfun.com/datasheets/LCD/HD44780.pdf
package hd44780

import (
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"

	"github.com/GermanBionicSystems/batmon/delay"
)

type writeMode bool

const (
	modeCommand writeMode = false
	modeData    writeMode = true
)

const (
	// delayCommand is how long E is held high for a command nibble. The
	// slowest instructions (clear, home) need 1.52ms; 4ms leaves margin.
	delayCommand = 4 * time.Millisecond
	// delayLatch is how long E is held high for each nibble of a character.
	delayLatch = 2 * time.Millisecond
	// Stabilization waits between the three "function set" reset nibbles.
	delayReset1 = 5 * time.Millisecond
	delayReset2 = 11 * time.Millisecond
)

const (
	// DDRAM base addresses, including the "set DDRAM address" bit.
	row1Base byte = 0x80
	row2Base byte = 0xc0
)

// Power-on instruction nibbles, sent after the reset triple.
var startup = []byte{
	0x02,       // enter 4-bit mode
	0x02, 0x08, // function set: 4-bit, 2 lines
	0x00, 0x0c, // display on, cursor off
	0x00, 0x06, // entry mode: increment, no shift
}

// ErrOutOfRange is returned by SetCursor for a position the display doesn't
// have.
var ErrOutOfRange = errors.New("hd44780: cursor position out of range")

// Lines are the GPIO lines wired to the display. Backlight is optional.
type Lines struct {
	D4, D5, D6, D7 gpio.PinOut
	RS             gpio.PinOut
	E              gpio.PinOut
	Backlight      gpio.PinOut
}

// Opts holds the display geometry and the delay source.
type Opts struct {
	Rows int
	Cols int
	// Sleeper implements the pulse and reset waits. Defaults to delay.Real.
	Sleeper delay.Sleeper
}

// DefaultOpts is a 2x16 panel using real delays.
var DefaultOpts = Opts{Rows: 2, Cols: 16}

// Dev is an initialized HD44780 display.
//
// Implements conn.Resource, display.TextDisplay and display.DisplayBacklight.
type Dev struct {
	data      [4]gpio.PinOut
	rs        gpio.PinOut
	e         gpio.PinOut
	backlight *Backlight
	sleep     delay.Sleeper
	rows      int
	cols      int
	on        bool
	cursor    bool
	blink     bool
}

// New validates the lines, runs the power-on sequence and returns a display
// ready for use.
//
// The lines must already be configured as outputs. The power-on sequence runs
// exactly once per Dev; create a single Dev per physical display.
func New(l *Lines, opts *Opts) (*Dev, error) {
	if l == nil {
		return nil, errors.New("hd44780: lines are required")
	}
	if opts == nil {
		opts = &DefaultOpts
	}
	for i, p := range []gpio.PinOut{l.D4, l.D5, l.D6, l.D7, l.RS, l.E} {
		if p == nil {
			return nil, fmt.Errorf("hd44780: line %s is not connected", lineNames[i])
		}
	}
	if opts.Rows < 1 || opts.Rows > 2 {
		return nil, fmt.Errorf("hd44780: %d rows not supported", opts.Rows)
	}
	if opts.Cols < 1 || opts.Cols > 40 {
		return nil, fmt.Errorf("hd44780: %d columns not supported", opts.Cols)
	}
	d := &Dev{
		data:  [4]gpio.PinOut{l.D4, l.D5, l.D6, l.D7},
		rs:    l.RS,
		e:     l.E,
		sleep: delay.Or(opts.Sleeper),
		rows:  opts.Rows,
		cols:  opts.Cols,
	}
	if l.Backlight != nil {
		d.backlight = NewBacklight(l.Backlight)
	}
	if err := d.init(); err != nil {
		return nil, err
	}
	return d, nil
}

var lineNames = []string{"D4", "D5", "D6", "D7", "RS", "E"}

// SetNibble writes the low 4 bits of value onto D4-D7, bit 0 on D4.
func (d *Dev) SetNibble(value byte) error {
	for i, p := range d.data {
		if err := p.Out(gpio.Level(value&(1<<uint(i)) != 0)); err != nil {
			return fmt.Errorf("hd44780: %s: %w", lineNames[i], err)
		}
	}
	return nil
}

// SendCommand sends the low nibble of cmd with RS low and holds E high for
// 4ms.
func (d *Dev) SendCommand(cmd byte) error {
	if err := d.mode(modeCommand); err != nil {
		return err
	}
	return d.pulse(cmd, delayCommand)
}

// WriteChar sends one character, upper nibble first.
func (d *Dev) WriteChar(c byte) error {
	if err := d.mode(modeData); err != nil {
		return err
	}
	if err := d.pulse(c>>4, delayLatch); err != nil {
		return err
	}
	return d.pulse(c&0x0f, delayLatch)
}

// Write writes p at the current cursor position. It doesn't truncate; text
// past the end of a row follows the controller's address wraparound.
func (d *Dev) Write(p []byte) (n int, err error) {
	for _, c := range p {
		if err = d.WriteChar(c); err != nil {
			return
		}
		n++
	}
	return
}

// WriteString writes text at the current cursor position.
func (d *Dev) WriteString(text string) (int, error) {
	return d.Write([]byte(text))
}

// SetCursor moves the cursor to row (1 or 2) and col (1 based).
func (d *Dev) SetCursor(row, col int) error {
	addr, err := d.address(row, col)
	if err != nil {
		return err
	}
	return d.instruction(addr)
}

// Clear blanks the display and returns the cursor home.
func (d *Dev) Clear() error {
	return d.instruction(0x01)
}

// Rows returns the number of rows of the display.
func (d *Dev) Rows() int {
	return d.rows
}

// Cols returns the number of columns of the display.
func (d *Dev) Cols() int {
	return d.cols
}

func (d *Dev) String() string {
	return fmt.Sprintf("HD44780{%s, %s, %s, %s, RS=%s, E=%s} - Rows: %d, Cols: %d",
		d.data[0], d.data[1], d.data[2], d.data[3], d.rs, d.e, d.rows, d.cols)
}

// Halt clears the display and turns the backlight off.
func (d *Dev) Halt() error {
	err := d.Clear()
	if d.backlight != nil {
		if berr := d.backlight.Backlight(0); err == nil {
			err = berr
		}
	}
	return err
}

// address computes the DDRAM address instruction for a cursor position.
func (d *Dev) address(row, col int) (byte, error) {
	if row < 1 || row > d.rows || col < 1 || col > d.cols {
		return 0, fmt.Errorf("%w: (%d,%d) on %dx%d", ErrOutOfRange, row, col, d.rows, d.cols)
	}
	base := row1Base
	if row == 2 {
		base = row2Base
	}
	return base + byte(col-1), nil
}

// init runs the documented power-on sequence for 4-bit operation.
func (d *Dev) init() error {
	if err := d.e.Out(gpio.Low); err != nil {
		return fmt.Errorf("hd44780: E: %w", err)
	}
	if err := d.SetNibble(0x00); err != nil {
		return err
	}
	// Three "function set, 8-bit" nibbles get the controller's attention
	// whatever state it is in.
	if err := d.SendCommand(0x03); err != nil {
		return err
	}
	d.sleep.Sleep(delayReset1)
	if err := d.SendCommand(0x03); err != nil {
		return err
	}
	d.sleep.Sleep(delayReset2)
	if err := d.SendCommand(0x03); err != nil {
		return err
	}
	for _, c := range startup {
		if err := d.SendCommand(c); err != nil {
			return err
		}
	}
	d.on = true
	if d.backlight != nil {
		return d.backlight.Backlight(0xff)
	}
	return nil
}

// instruction sends a full 8-bit instruction as two command nibbles.
func (d *Dev) instruction(b byte) error {
	if err := d.SendCommand(b >> 4); err != nil {
		return err
	}
	return d.SendCommand(b & 0x0f)
}

func (d *Dev) mode(m writeMode) error {
	if err := d.rs.Out(gpio.Level(m)); err != nil {
		return fmt.Errorf("hd44780: RS: %w", err)
	}
	return nil
}

// pulse puts value on the bus and latches it with an E pulse held for hold.
func (d *Dev) pulse(value byte, hold time.Duration) error {
	if err := d.SetNibble(value); err != nil {
		return err
	}
	if err := d.e.Out(gpio.High); err != nil {
		return fmt.Errorf("hd44780: E: %w", err)
	}
	d.sleep.Sleep(hold)
	if err := d.e.Out(gpio.Low); err != nil {
		return fmt.Errorf("hd44780: E: %w", err)
	}
	return nil
}

var _ conn.Resource = &Dev{}
var _ display.TextDisplay = &Dev{}
var _ display.DisplayBacklight = &Dev{}
