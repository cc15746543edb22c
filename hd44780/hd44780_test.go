// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/display/displaytest"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"

	"github.com/GermanBionicSystems/batmon/delay/delaytest"
	"github.com/GermanBionicSystems/batmon/hd44780"
	"github.com/GermanBionicSystems/batmon/sim"
)

const (
	testRows = 2
	testCols = 16
)

func getLCD(t *testing.T) (*hd44780.Dev, *sim.LCD, *delaytest.Recorder) {
	t.Helper()
	panel := sim.NewLCD(testRows, testCols)
	rec := &delaytest.Recorder{}
	dev, err := hd44780.New(panel.Lines(), &hd44780.Opts{Rows: testRows, Cols: testCols, Sleeper: rec})
	if err != nil {
		t.Fatal(err)
	}
	return dev, panel, rec
}

func TestInit(t *testing.T) {
	dev, panel, rec := getLCD(t)
	s := dev.String()
	t.Log(s)
	if len(s) == 0 {
		t.Error("dev.String()")
	}
	// The 8-bit reset triple, the switch to 4-bit, then the paired nibbles.
	want := []byte{0x30, 0x30, 0x30, 0x20, 0x28, 0x0c, 0x06}
	if diff := cmp.Diff(want, panel.Instructions()); diff != "" {
		t.Errorf("instructions (-want +got):\n%s", diff)
	}
	if !panel.FourBit() {
		t.Error("controller not in 4-bit mode")
	}
	if !panel.DisplayOn() {
		t.Error("display not turned on")
	}
	if panel.Backlight.Read() != gpio.High {
		t.Error("backlight not turned on")
	}
	// Every command nibble holds E for 4ms, plus the 5ms and 11ms reset waits.
	if n := rec.Count(4 * time.Millisecond); n != 10 {
		t.Errorf("expected 10 command pulses, got %d", n)
	}
	if rec.Count(5*time.Millisecond) != 1 || rec.Count(11*time.Millisecond) != 1 {
		t.Errorf("missing reset waits: %v", rec.Delays)
	}
	if got := rec.Total(); got != 56*time.Millisecond {
		t.Errorf("init took %s, expected 56ms", got)
	}
	if dev.Rows() != testRows || dev.Cols() != testCols {
		t.Errorf("unexpected geometry %dx%d", dev.Rows(), dev.Cols())
	}
}

func TestSetNibble(t *testing.T) {
	dev, panel, _ := getLCD(t)
	pins := []*sim.Pin{panel.D4, panel.D5, panel.D6, panel.D7}
	for v := byte(0); v < 0x20; v++ {
		if err := dev.SetNibble(v); err != nil {
			t.Fatal(err)
		}
		for i, p := range pins {
			want := gpio.Level(v&(1<<uint(i)) != 0)
			if got := p.Read(); got != want {
				t.Errorf("SetNibble(%#x): %s = %s, expected %s", v, p.Name(), got, want)
			}
		}
	}
}

func TestSendCommand(t *testing.T) {
	dev, panel, rec := getLCD(t)
	rec.Reset()
	if err := dev.SendCommand(0x00); err != nil {
		t.Fatal(err)
	}
	if err := dev.SendCommand(0x01); err != nil {
		t.Fatal(err)
	}
	if panel.RS.Read() != gpio.Low {
		t.Error("RS should be low for commands")
	}
	if panel.E.Read() != gpio.Low {
		t.Error("E left high")
	}
	ins := panel.Instructions()
	if last := ins[len(ins)-1]; last != 0x01 {
		t.Errorf("expected clear instruction, got %#x", last)
	}
	if diff := cmp.Diff([]time.Duration{4 * time.Millisecond, 4 * time.Millisecond}, rec.Delays); diff != "" {
		t.Errorf("delays (-want +got):\n%s", diff)
	}
}

func TestSetCursor(t *testing.T) {
	dev, panel, _ := getLCD(t)
	for _, tc := range []struct {
		row, col int
		addr     byte
	}{
		{1, 1, 0x80},
		{2, 1, 0xc0},
		{1, 16, 0x8f},
		{2, 5, 0xc4},
	} {
		if err := dev.SetCursor(tc.row, tc.col); err != nil {
			t.Fatal(err)
		}
		ins := panel.Instructions()
		if got := ins[len(ins)-1]; got != tc.addr {
			t.Errorf("SetCursor(%d,%d) sent %#x, expected %#x", tc.row, tc.col, got, tc.addr)
		}
		if got := panel.Address(); got != tc.addr&0x7f {
			t.Errorf("SetCursor(%d,%d) address counter %#x", tc.row, tc.col, got)
		}
	}
	for _, pos := range [][2]int{{0, 1}, {3, 1}, {1, 0}, {1, 17}, {-1, -1}} {
		err := dev.SetCursor(pos[0], pos[1])
		if !errors.Is(err, hd44780.ErrOutOfRange) {
			t.Errorf("SetCursor(%d,%d) = %v, expected ErrOutOfRange", pos[0], pos[1], err)
		}
	}
}

func TestWriteString(t *testing.T) {
	dev, panel, rec := getLCD(t)
	rec.Reset()
	n, err := dev.WriteString("Battery: 12.7V")
	if err != nil {
		t.Fatal(err)
	}
	if n != 14 {
		t.Errorf("wrote %d characters, expected 14", n)
	}
	if panel.RS.Read() != gpio.High {
		t.Error("RS should be high for data")
	}
	if got := panel.Line(1); got != "Battery: 12.7V  " {
		t.Errorf("line 1 = %q", got)
	}
	// Two 2ms latch pulses per character.
	if got := rec.Count(2 * time.Millisecond); got != 28 {
		t.Errorf("expected 28 latch pulses, got %d", got)
	}

	if err := dev.SetCursor(2, 1); err != nil {
		t.Fatal(err)
	}
	if _, err := dev.WriteString("Status: GOOD    "); err != nil {
		t.Fatal(err)
	}
	if got := panel.Text(); got != "Battery: 12.7V  \nStatus: GOOD    " {
		t.Errorf("unexpected panel:\n%s", got)
	}
	if panel.DataWrites() != 30 {
		t.Errorf("expected 30 data writes, got %d", panel.DataWrites())
	}
}

func TestWriteWraps(t *testing.T) {
	dev, panel, _ := getLCD(t)
	if err := dev.SetCursor(1, 1); err != nil {
		t.Fatal(err)
	}
	// 40 characters fill the first DDRAM line, the next go to line 2.
	if _, err := dev.WriteString(strings.Repeat("a", 40) + "bc"); err != nil {
		t.Fatal(err)
	}
	if got := panel.Line(2); got != "bc              " {
		t.Errorf("line 2 = %q", got)
	}
}

func TestClear(t *testing.T) {
	dev, panel, _ := getLCD(t)
	_, _ = dev.WriteString("garbage")
	if err := dev.Clear(); err != nil {
		t.Fatal(err)
	}
	if got := panel.Text(); strings.TrimSpace(got) != "" {
		t.Errorf("panel not cleared: %q", got)
	}
	if panel.Address() != 0 {
		t.Errorf("cursor not home: %#x", panel.Address())
	}
}

func TestHalt(t *testing.T) {
	dev, panel, _ := getLCD(t)
	_, _ = dev.WriteString("bye")
	if err := dev.Halt(); err != nil {
		t.Fatal(err)
	}
	if panel.Backlight.Read() != gpio.Low {
		t.Error("backlight still on")
	}
	if strings.TrimSpace(panel.Line(1)) != "" {
		t.Error("display not cleared")
	}
}

func TestNew_errors(t *testing.T) {
	if _, err := hd44780.New(nil, nil); err == nil {
		t.Error("expected error on nil lines")
	}
	panel := sim.NewLCD(2, 16)
	l := panel.Lines()
	l.E = nil
	if _, err := hd44780.New(l, &hd44780.Opts{Rows: 2, Cols: 16, Sleeper: &delaytest.Recorder{}}); err == nil {
		t.Error("expected error on missing E")
	}
	for _, o := range []hd44780.Opts{{Rows: 0, Cols: 16}, {Rows: 4, Cols: 20}, {Rows: 2, Cols: 0}, {Rows: 2, Cols: 41}} {
		o.Sleeper = &delaytest.Recorder{}
		if _, err := hd44780.New(panel.Lines(), &o); err == nil {
			t.Errorf("expected error for %dx%d", o.Rows, o.Cols)
		}
	}
}

func TestNew_pinFailure(t *testing.T) {
	panel := sim.NewLCD(2, 16)
	panel.D6.Err = errors.New("bus fault")
	_, err := hd44780.New(panel.Lines(), &hd44780.Opts{Rows: 2, Cols: 16, Sleeper: &delaytest.Recorder{}})
	if err == nil || !strings.Contains(err.Error(), "D6") {
		t.Errorf("expected D6 failure, got %v", err)
	}
}

func TestGPIOTestPins(t *testing.T) {
	// Plain gpiotest pins work too; they only keep the last level.
	pins := make([]*gpiotest.Pin, 6)
	for i := range pins {
		pins[i] = &gpiotest.Pin{N: "GPIO", Num: i}
	}
	l := &hd44780.Lines{D4: pins[0], D5: pins[1], D6: pins[2], D7: pins[3], RS: pins[4], E: pins[5]}
	dev, err := hd44780.New(l, &hd44780.Opts{Rows: 2, Cols: 16, Sleeper: &delaytest.Recorder{}})
	if err != nil {
		t.Fatal(err)
	}
	if err := dev.WriteChar('A'); err != nil {
		t.Fatal(err)
	}
	// 'A' is 0x41: the last nibble on the bus is 0x1.
	if pins[0].Read() != gpio.High || pins[1].Read() != gpio.Low || pins[4].Read() != gpio.High {
		t.Error("unexpected bus state after WriteChar")
	}
	if err := dev.Halt(); err != nil {
		t.Error(err)
	}
}

func TestTextDisplay(t *testing.T) {
	dev, panel, _ := getLCD(t)
	for _, err := range displaytest.TestTextDisplay(dev, false) {
		if !errors.Is(err, display.ErrNotImplemented) {
			t.Error(err)
		}
	}
	if got := panel.Line(1); got != "Set dev on      " {
		t.Errorf("line 1 = %q", got)
	}
	if !panel.DisplayOn() {
		t.Error("display left off")
	}
}

func TestMove(t *testing.T) {
	dev, panel, _ := getLCD(t)
	if _, err := dev.WriteString("ab"); err != nil {
		t.Fatal(err)
	}
	if err := dev.Move(display.Backward); err != nil {
		t.Fatal(err)
	}
	if _, err := dev.WriteString("X"); err != nil {
		t.Fatal(err)
	}
	if err := dev.Move(display.Forward); err != nil {
		t.Fatal(err)
	}
	if _, err := dev.WriteString("Y"); err != nil {
		t.Fatal(err)
	}
	if got := panel.Line(1); got != "aX Y            " {
		t.Errorf("line 1 = %q", got)
	}
	ins := panel.Instructions()
	if diff := cmp.Diff([]byte{0x10, 0x14}, []byte{ins[len(ins)-2], ins[len(ins)-1]}); diff != "" {
		t.Errorf("shift instructions (-want +got):\n%s", diff)
	}
	if err := dev.Move(display.Up); !errors.Is(err, display.ErrNotImplemented) {
		t.Errorf("Move(Up) = %v", err)
	}
	if err := dev.Move(display.Down + 1); !errors.Is(err, display.ErrInvalidCommand) {
		t.Errorf("Move(invalid) = %v", err)
	}
}

func TestCursor(t *testing.T) {
	dev, panel, _ := getLCD(t)
	for _, tc := range []struct {
		modes            []display.CursorMode
		underline, blink bool
	}{
		{[]display.CursorMode{display.CursorUnderline}, true, false},
		{[]display.CursorMode{display.CursorBlink}, true, true},
		{[]display.CursorMode{display.CursorOff}, false, false},
		{[]display.CursorMode{display.CursorOff, display.CursorBlock}, false, true},
	} {
		if err := dev.Cursor(tc.modes...); err != nil {
			t.Fatal(err)
		}
		u, b := panel.Cursor()
		if u != tc.underline || b != tc.blink {
			t.Errorf("Cursor(%v): underline=%t blink=%t", tc.modes, u, b)
		}
	}
	if err := dev.Cursor(display.CursorBlink + 1); !errors.Is(err, display.ErrInvalidCommand) {
		t.Errorf("Cursor(invalid) = %v", err)
	}
	if u, b := panel.Cursor(); u || !b {
		t.Error("invalid mode changed the cursor")
	}
}

func TestDisplay(t *testing.T) {
	dev, panel, _ := getLCD(t)
	_ = dev.Cursor(display.CursorUnderline)
	if err := dev.Display(false); err != nil {
		t.Fatal(err)
	}
	if panel.DisplayOn() {
		t.Error("display still on")
	}
	if u, _ := panel.Cursor(); !u {
		t.Error("Display(false) dropped the cursor mode")
	}
	if err := dev.Display(true); err != nil {
		t.Fatal(err)
	}
	if !panel.DisplayOn() {
		t.Error("display still off")
	}
}

func TestHome(t *testing.T) {
	dev, panel, _ := getLCD(t)
	_ = dev.MoveTo(2, 5)
	if err := dev.Home(); err != nil {
		t.Fatal(err)
	}
	if panel.Address() != 0 {
		t.Errorf("cursor not home: %#x", panel.Address())
	}
	if dev.MinRow() != 1 || dev.MinCol() != 1 {
		t.Error("positions are 1 based")
	}
	if err := dev.AutoScroll(true); !errors.Is(err, display.ErrNotImplemented) {
		t.Errorf("AutoScroll() = %v", err)
	}
}

func TestBacklight(t *testing.T) {
	dev, panel, _ := getLCD(t)
	if err := dev.Backlight(0); err != nil {
		t.Fatal(err)
	}
	if panel.Backlight.Read() != gpio.Low {
		t.Error("backlight still on")
	}
	if err := dev.Backlight(1); err != nil {
		t.Fatal(err)
	}
	if panel.Backlight.Read() != gpio.High {
		t.Error("backlight still off")
	}

	l := panel.Lines()
	l.Backlight = nil
	noBL, err := hd44780.New(l, &hd44780.Opts{Rows: 2, Cols: 16, Sleeper: &delaytest.Recorder{}})
	if err != nil {
		t.Fatal(err)
	}
	if err := noBL.Backlight(1); !errors.Is(err, display.ErrNotImplemented) {
		t.Errorf("Backlight() without a line = %v", err)
	}

	panel.Backlight.Err = errors.New("stuck")
	if err := hd44780.NewBacklight(panel.Backlight).Backlight(1); err == nil {
		t.Error("expected backlight error")
	}
}
