// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package adc

import "fmt"

// ClockDivisor selects the conversion clock, as the 3-bit ADCS code of a
// PIC16F87xA (ADCS2 in ADCON1, ADCS1:ADCS0 in ADCON0).
type ClockDivisor uint8

const (
	Fosc2  ClockDivisor = 0
	Fosc8  ClockDivisor = 1
	Fosc32 ClockDivisor = 2
	// FRC is the internal RC oscillator.
	FRC     ClockDivisor = 3
	Fosc4   ClockDivisor = 4
	Fosc16  ClockDivisor = 5
	Fosc64  ClockDivisor = 6
	maxADCS ClockDivisor = Fosc64
)

const (
	// PortAN0Supply makes AN0 the only analog pin and uses VDD/VSS as
	// references (PCFG=1110).
	PortAN0Supply byte = 0x0e

	adon byte = 0x01
	adfm byte = 0x80
)

// Config selects the channel, conversion clock, reference and result
// justification.
type Config struct {
	Channel int
	Clock   ClockDivisor
	// PortConfig is the PCFG field; it selects both the analog pins and the
	// voltage references.
	PortConfig byte
	// LeftJustified stores the top 8 bits in the high result register.
	LeftJustified bool
}

// DefaultConfig samples AN0 with a Fosc/32 clock against the supply rails,
// right justified.
var DefaultConfig = Config{Channel: 0, Clock: Fosc32, PortConfig: PortAN0Supply}

// Validate returns an error if the configuration can't be encoded.
func (c *Config) Validate() error {
	if c.Channel < 0 || c.Channel > 7 {
		return fmt.Errorf("adc: channel %d out of range [0, 7]", c.Channel)
	}
	if c.Clock > maxADCS {
		return fmt.Errorf("adc: invalid clock divisor %d", c.Clock)
	}
	if c.PortConfig > 0x0f {
		return fmt.Errorf("adc: invalid port configuration %#x", c.PortConfig)
	}
	return nil
}

// Registers encodes the configuration as the ADCON0 and ADCON1 control
// bytes, with the converter turned on.
func (c *Config) Registers() (adcon0, adcon1 byte) {
	adcon0 = byte(c.Clock&0x03)<<6 | byte(c.Channel&0x07)<<3 | adon
	adcon1 = byte(c.Clock>>2&0x01)<<6 | c.PortConfig&0x0f
	if !c.LeftJustified {
		adcon1 |= adfm
	}
	return
}

// Split returns the high and low result registers holding raw.
func (c *Config) Split(raw RawSample) (high, low byte) {
	raw &= MaxRaw
	if c.LeftJustified {
		return byte(raw >> 2), byte(raw&0x03) << 6
	}
	return byte(raw >> 8), byte(raw)
}

// Join combines the result registers into a sample.
func (c *Config) Join(high, low byte) RawSample {
	if c.LeftJustified {
		return RawSample(high)<<2 | RawSample(low>>6)
	}
	return (RawSample(high)<<8 + RawSample(low)) & MaxRaw
}
