// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package adc

import (
	"errors"
	"fmt"
	"math"

	"periph.io/x/conn/v3/analog"
	"periph.io/x/conn/v3/physic"
)

// PinPeripheral presents an analog.PinADC as a Peripheral.
//
// Conversions are synchronous: StartConversion reads the pin and Converting
// always reports false. When the pin reports potentials, the sample is
// requantized against Reference as a 10-bit converter would see it. Otherwise
// the pin's raw range is rescaled to 10 bits.
type PinPeripheral struct {
	pin       analog.PinADC
	cfg       Config
	last      RawSample
	started   bool
	scaled    bool
	min, span int64
}

// NewPinPeripheral returns a Peripheral reading p.
func NewPinPeripheral(p analog.PinADC) *PinPeripheral {
	lo, hi := p.Range()
	return &PinPeripheral{
		pin:    p,
		scaled: hi.V > lo.V,
		min:    int64(lo.Raw),
		span:   int64(hi.Raw) - int64(lo.Raw),
	}
}

// Configure implements Peripheral. Only the justification is honored; the
// channel is fixed by the pin.
func (pp *PinPeripheral) Configure(c Config) error {
	if !pp.scaled && pp.span <= 0 {
		return fmt.Errorf("adc: %s reports an empty range", pp.pin)
	}
	pp.cfg = c
	return nil
}

// StartConversion implements Peripheral.
func (pp *PinPeripheral) StartConversion() error {
	s, err := pp.pin.Read()
	if err != nil {
		return err
	}
	var v int64
	if pp.scaled {
		v = int64(math.Round(float64(s.V) / float64(physic.Volt) / Reference * steps))
	} else {
		v = (int64(s.Raw) - pp.min) * int64(MaxRaw) / pp.span
	}
	switch {
	case v < 0:
		v = 0
	case v > int64(MaxRaw):
		v = int64(MaxRaw)
	}
	pp.last = RawSample(v)
	pp.started = true
	return nil
}

// Converting implements Peripheral.
func (pp *PinPeripheral) Converting() (bool, error) {
	return false, nil
}

// Result implements Peripheral.
func (pp *PinPeripheral) Result() (byte, byte, error) {
	if !pp.started {
		return 0, 0, errors.New("adc: no conversion started")
	}
	high, low := pp.cfg.Split(pp.last)
	return high, low, nil
}

func (pp *PinPeripheral) String() string {
	return pp.pin.String()
}

var _ Peripheral = &PinPeripheral{}
