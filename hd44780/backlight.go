// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780

import (
	"fmt"

	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
)

// Backlight switches a monochrome backlight with a single GPIO line. Any
// non-zero intensity turns it on.
//
// Implements display.DisplayBacklight.
type Backlight struct {
	pin gpio.PinOut
}

// NewBacklight returns a Backlight driving pin.
func NewBacklight(pin gpio.PinOut) *Backlight {
	return &Backlight{pin: pin}
}

// Backlight turns the backlight on or off.
func (bl *Backlight) Backlight(intensity display.Intensity) error {
	if err := bl.pin.Out(gpio.Level(intensity > 0)); err != nil {
		return fmt.Errorf("hd44780: backlight: %w", err)
	}
	return nil
}

var _ display.DisplayBacklight = &Backlight{}
