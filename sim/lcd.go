// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sim

import (
	"strings"
	"sync"

	"periph.io/x/conn/v3/gpio"

	"github.com/GermanBionicSystems/batmon/hd44780"
)

const (
	ddramSize  = 0x80
	lineLen    = 0x28
	line2Start = 0x40
)

// LCD models an HD44780 controller wired in 4-bit mode to simulated pins.
//
// Data and RS are sampled on the falling edge of E. The controller powers up
// in 8-bit mode, where each transfer carries D7-D4 as the upper nibble, and
// switches to 4-bit mode on a "function set" with DL=0. In 4-bit mode two
// transfers form one byte, high nibble first.
type LCD struct {
	D4, D5, D6, D7 *Pin
	RS, E          *Pin
	Backlight      *Pin

	mu        sync.Mutex
	rows      int
	cols      int
	lastE     gpio.Level
	fourBit   bool
	pending   bool
	high      byte
	twoLine   bool
	displayOn bool
	cursor    bool
	blink     bool
	decrement bool
	addr      byte
	ddram     [ddramSize]byte
	instr     []byte
	writes    int
}

// NewLCD returns a powered-up rows x cols panel and its pins.
func NewLCD(rows, cols int) *LCD {
	l := &LCD{
		D4:        NewPin("D4", 4),
		D5:        NewPin("D5", 5),
		D6:        NewPin("D6", 6),
		D7:        NewPin("D7", 7),
		RS:        NewPin("RS", 2),
		E:         NewPin("E", 3),
		Backlight: NewPin("BL", 1),
		rows:      rows,
		cols:      cols,
	}
	l.fill()
	l.E.onOut = l.enable
	return l
}

// Lines returns the pins in the form hd44780.New expects.
func (l *LCD) Lines() *hd44780.Lines {
	return &hd44780.Lines{
		D4: l.D4, D5: l.D5, D6: l.D6, D7: l.D7,
		RS: l.RS, E: l.E,
		Backlight: l.Backlight,
	}
}

// Line returns the visible text of row (1 based).
func (l *LCD) Line(row int) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.line(row)
}

// Text returns all visible rows joined by newlines.
func (l *LCD) Text() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	rows := make([]string, l.rows)
	for i := range rows {
		rows[i] = l.line(i + 1)
	}
	return strings.Join(rows, "\n")
}

// Instructions returns every instruction byte executed so far.
func (l *LCD) Instructions() []byte {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]byte(nil), l.instr...)
}

// DataWrites returns how many characters were written to DDRAM.
func (l *LCD) DataWrites() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.writes
}

// DisplayOn reports whether the display was turned on.
func (l *LCD) DisplayOn() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.displayOn
}

// Cursor reports whether the underline cursor and the blinking block are on.
func (l *LCD) Cursor() (underline, blink bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cursor, l.blink
}

// FourBit reports whether the controller is in 4-bit interface mode.
func (l *LCD) FourBit() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.fourBit
}

// Address returns the DDRAM address counter.
func (l *LCD) Address() byte {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.addr
}

// Rows returns the number of visible rows.
func (l *LCD) Rows() int {
	return l.rows
}

// Cols returns the number of visible columns.
func (l *LCD) Cols() int {
	return l.cols
}

func (l *LCD) line(row int) string {
	if row < 1 || row > l.rows {
		return ""
	}
	base := 0
	if row == 2 {
		base = line2Start
	}
	return string(l.ddram[base : base+l.cols])
}

func (l *LCD) fill() {
	for i := range l.ddram {
		l.ddram[i] = ' '
	}
}

// enable is called on every write to E.
func (l *LCD) enable(level gpio.Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	falling := l.lastE == gpio.High && level == gpio.Low
	l.lastE = level
	if !falling {
		return
	}
	var nibble byte
	for i, p := range []*Pin{l.D4, l.D5, l.D6, l.D7} {
		if p.Read() == gpio.High {
			nibble |= 1 << uint(i)
		}
	}
	rs := l.RS.Read() == gpio.High
	if !l.fourBit {
		l.execute(rs, nibble<<4)
		return
	}
	if !l.pending {
		l.high = nibble
		l.pending = true
		return
	}
	l.pending = false
	l.execute(rs, l.high<<4|nibble)
}

func (l *LCD) execute(rs bool, v byte) {
	if rs {
		l.ddram[l.addr] = v
		l.writes++
		l.advance()
		return
	}
	l.instr = append(l.instr, v)
	switch {
	case v&0x80 != 0:
		l.addr = v & 0x7f
	case v&0x40 != 0:
		// CGRAM address; custom glyphs are not modeled.
	case v&0x20 != 0:
		l.fourBit = v&0x10 == 0
		l.twoLine = v&0x08 != 0
	case v&0x10 != 0:
		// Display shift (S/C=1) is not modeled.
		if v&0x08 == 0 {
			l.step(v&0x04 == 0)
		}
	case v&0x08 != 0:
		l.displayOn = v&0x04 != 0
		l.cursor = v&0x02 != 0
		l.blink = v&0x01 != 0
	case v&0x04 != 0:
		l.decrement = v&0x02 == 0
	case v&0x02 != 0:
		l.addr = 0
	case v&0x01 != 0:
		l.fill()
		l.addr = 0
		l.decrement = false
	}
}

// advance moves the address counter after a data write.
func (l *LCD) advance() {
	l.step(l.decrement)
}

// step moves the address counter by one the way the controller does,
// skipping the gap between the two lines in 2-line mode.
func (l *LCD) step(back bool) {
	if !l.twoLine {
		if back {
			l.addr = (l.addr + 0x4f) % 0x50
		} else {
			l.addr = (l.addr + 1) % 0x50
		}
		return
	}
	if back {
		switch l.addr {
		case 0x00:
			l.addr = line2Start + lineLen - 1
		case line2Start:
			l.addr = lineLen - 1
		default:
			l.addr--
		}
		return
	}
	l.addr++
	switch l.addr {
	case lineLen:
		l.addr = line2Start
	case line2Start + lineLen:
		l.addr = 0
	}
}
