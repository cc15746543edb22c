// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sim

import (
	"errors"
	"math"
	"sync"

	"github.com/GermanBionicSystems/batmon/adc"
)

// ADC models the converter peripheral.
//
// A conversion started with StartConversion reports busy for Polls calls to
// Converting, then latches the current raw value into the result registers.
type ADC struct {
	// Polls is the number of Converting calls that report busy.
	Polls int
	// Stuck makes every conversion run forever.
	Stuck bool

	mu          sync.Mutex
	raw         adc.RawSample
	cfg         adc.Config
	adcon0      byte
	adcon1      byte
	configured  bool
	busy        bool
	remaining   int
	high, low   byte
	conversions int
}

// ErrNotConfigured is returned when a conversion is started before Configure.
var ErrNotConfigured = errors.New("sim: adc not configured")

// SetRaw sets the value the next conversions produce.
func (a *ADC) SetRaw(raw adc.RawSample) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if raw > adc.MaxRaw {
		raw = adc.MaxRaw
	}
	a.raw = raw
}

// SetBatteryVoltage sets the next conversions to the value a battery at v
// volts produces through the divider.
func (a *ADC) SetBatteryVoltage(v float64) {
	a.SetRaw(RawFor(v))
}

// SetStuck makes conversions hang, or lets them complete again.
func (a *ADC) SetStuck(stuck bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Stuck = stuck
}

// RawFor returns the conversion result for a battery voltage, clamped to the
// converter range.
func RawFor(v float64) adc.RawSample {
	r := math.Round(v / adc.Divider / adc.Reference * 1024)
	switch {
	case r < 0:
		return 0
	case r > float64(adc.MaxRaw):
		return adc.MaxRaw
	}
	return adc.RawSample(r)
}

// Configure implements adc.Peripheral.
func (a *ADC) Configure(c adc.Config) error {
	if err := c.Validate(); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cfg = c
	a.adcon0, a.adcon1 = c.Registers()
	a.configured = true
	return nil
}

// StartConversion implements adc.Peripheral.
func (a *ADC) StartConversion() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.configured {
		return ErrNotConfigured
	}
	a.busy = true
	a.remaining = a.Polls
	a.conversions++
	return nil
}

// Converting implements adc.Peripheral.
func (a *ADC) Converting() (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.busy || a.Stuck {
		return a.busy, nil
	}
	if a.remaining > 0 {
		a.remaining--
		return true, nil
	}
	a.busy = false
	a.high, a.low = a.cfg.Split(a.raw)
	return false, nil
}

// Result implements adc.Peripheral.
func (a *ADC) Result() (byte, byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.high, a.low, nil
}

// Registers returns the ADCON0 and ADCON1 values written by Configure.
func (a *ADC) Registers() (adcon0, adcon1 byte) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.adcon0, a.adcon1
}

// Conversions returns how many conversions were started.
func (a *ADC) Conversions() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.conversions
}

func (a *ADC) String() string {
	return "sim.ADC"
}

var _ adc.Peripheral = &ADC{}
