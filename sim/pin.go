// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sim

import (
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

// Pin is an output line that tells its owner about every level written to it.
type Pin struct {
	gpiotest.Pin
	// Err, when set, is returned by Out and the level is not changed.
	Err error

	onOut func(gpio.Level)
}

// NewPin returns a low Pin named name.
func NewPin(name string, num int) *Pin {
	return &Pin{Pin: gpiotest.Pin{N: name, Num: num, Fn: "Out"}}
}

// Out implements gpio.PinOut.
func (p *Pin) Out(l gpio.Level) error {
	if p.Err != nil {
		return p.Err
	}
	if err := p.Pin.Out(l); err != nil {
		return err
	}
	if p.onOut != nil {
		p.onOut(l)
	}
	return nil
}

var _ gpio.PinOut = &Pin{}
