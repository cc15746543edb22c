// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780

import (
	"fmt"

	"periph.io/x/conn/v3/display"
)

// AutoScroll is not supported; the entry mode is fixed to increment without
// shift. Returns display.ErrNotImplemented.
func (d *Dev) AutoScroll(enabled bool) error {
	return fmt.Errorf("hd44780: %w", display.ErrNotImplemented)
}

// Cursor sets the cursor mode. The controller has an underline cursor and a
// blinking block; CursorBlock and CursorBlink both select the latter.
func (d *Dev) Cursor(modes ...display.CursorMode) error {
	cursor, blink := d.cursor, d.blink
	for _, mode := range modes {
		switch mode {
		case display.CursorOff:
			cursor, blink = false, false
		case display.CursorUnderline:
			cursor = true
		case display.CursorBlock, display.CursorBlink:
			blink = true
		default:
			return fmt.Errorf("hd44780: unexpected cursor mode %d: %w", mode, display.ErrInvalidCommand)
		}
	}
	if err := d.instruction(displayControl(d.on, cursor, blink)); err != nil {
		return err
	}
	d.cursor, d.blink = cursor, blink
	return nil
}

// Display turns the display on or off. DDRAM is kept while off.
func (d *Dev) Display(on bool) error {
	if err := d.instruction(displayControl(on, d.cursor, d.blink)); err != nil {
		return err
	}
	d.on = on
	return nil
}

// Home returns the cursor to the top left position.
func (d *Dev) Home() error {
	return d.instruction(0x02)
}

// MinCol returns 1; columns are 1 based.
func (d *Dev) MinCol() int {
	return 1
}

// MinRow returns 1; rows are 1 based.
func (d *Dev) MinRow() int {
	return 1
}

// Move shifts the cursor one position forward or backward. Up and Down
// return display.ErrNotImplemented.
func (d *Dev) Move(dir display.CursorDirection) error {
	switch dir {
	case display.Backward:
		return d.instruction(0x10)
	case display.Forward:
		return d.instruction(0x14)
	case display.Up, display.Down:
		return fmt.Errorf("hd44780: %w", display.ErrNotImplemented)
	default:
		return fmt.Errorf("hd44780: unexpected direction %d: %w", dir, display.ErrInvalidCommand)
	}
}

// MoveTo is SetCursor.
func (d *Dev) MoveTo(row, col int) error {
	return d.SetCursor(row, col)
}

// Backlight turns the backlight on for any non-zero intensity. It returns
// display.ErrNotImplemented when no backlight line is wired.
func (d *Dev) Backlight(intensity display.Intensity) error {
	if d.backlight == nil {
		return fmt.Errorf("hd44780: %w", display.ErrNotImplemented)
	}
	return d.backlight.Backlight(intensity)
}

func displayControl(on, cursor, blink bool) byte {
	v := byte(0x08)
	if on {
		v |= 0x04
	}
	if cursor {
		v |= 0x02
	}
	if blink {
		v |= 0x01
	}
	return v
}
