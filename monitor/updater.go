// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package monitor

import (
	"errors"
	"fmt"
	"math"

	"github.com/GermanBionicSystems/batmon/battery"
)

// Hysteresis is the voltage change, in volts, needed to redraw the voltage
// line.
const Hysteresis = 0.1

const (
	voltageRow = 1
	statusRow  = 2
)

// Display is the part of a character display the Updater needs.
// *hd44780.Dev implements it.
type Display interface {
	SetCursor(row, col int) error
	WriteString(text string) (int, error)
}

// Redraw is a set of display lines.
type Redraw uint8

const (
	VoltageLine Redraw = 1 << iota
	StatusLine

	None Redraw = 0
)

func (r Redraw) String() string {
	switch r {
	case None:
		return "none"
	case VoltageLine:
		return "voltage"
	case StatusLine:
		return "status"
	case VoltageLine | StatusLine:
		return "voltage+status"
	}
	return fmt.Sprintf("Redraw(%d)", uint8(r))
}

// Updater redraws the two display lines when their content changed enough.
type Updater struct {
	d     Display
	state *DisplayState
}

// NewUpdater returns an Updater drawing on d and tracking it in state.
func NewUpdater(d Display, state *DisplayState) *Updater {
	if state == nil {
		state = &DisplayState{}
	}
	return &Updater{d: d, state: state}
}

// State returns the tracked display state.
func (u *Updater) State() *DisplayState {
	return u.state
}

// Update shows v. The voltage line is redrawn when it moved by more than
// Hysteresis, the status line whenever the status changed. The two decisions
// are independent. It returns the lines that were redrawn.
//
// The voltage line is written padded to the full row so a shorter reading
// leaves nothing of the previous one behind.
//
// On error the state of the failed line is left untouched so the line is
// redrawn on the next call. Errors from both lines are joined.
func (u *Updater) Update(v float64) (Redraw, error) {
	var r Redraw
	var verr, serr error
	if last, ok := u.state.LastVoltage(); !ok || math.Abs(v-last) > Hysteresis {
		if verr = u.draw(voltageRow, battery.VoltageLine(v)); verr == nil {
			u.state.voltage, u.state.hasVoltage = v, true
			r |= VoltageLine
		}
	}
	status := battery.Classify(v)
	if last, ok := u.state.LastStatus(); !ok || last != status {
		if serr = u.draw(statusRow, status.Label()); serr == nil {
			u.state.status, u.state.hasStatus = status, true
			r |= StatusLine
		}
	}
	return r, errors.Join(verr, serr)
}

func (u *Updater) draw(row int, text string) error {
	if err := u.d.SetCursor(row, 1); err != nil {
		return fmt.Errorf("monitor: line %d: %w", row, err)
	}
	if _, err := u.d.WriteString(text); err != nil {
		return fmt.Errorf("monitor: line %d: %w", row, err)
	}
	return nil
}
