// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package adc

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"periph.io/x/conn/v3/analog"
	"periph.io/x/conn/v3/physic"
)

// IIOPin is a voltage channel exposed by the Linux industrial I/O subsystem,
// e.g. /sys/bus/iio/devices/iio:device0/in_voltage0_raw.
//
// Implements analog.PinADC.
type IIOPin struct {
	dir     string
	channel int
	max     int32
	// scale is millivolts per LSB, 0 when the driver doesn't publish one.
	scale float64
}

// NewIIOPin opens channel of the IIO device at dir. bits is the converter
// resolution.
func NewIIOPin(dir string, channel int, bits uint) (*IIOPin, error) {
	if bits == 0 || bits > 24 {
		return nil, fmt.Errorf("adc: unsupported resolution %d bits", bits)
	}
	p := &IIOPin{dir: dir, channel: channel, max: int32(1)<<bits - 1}
	if _, err := os.Stat(p.rawPath()); err != nil {
		return nil, fmt.Errorf("adc: %w", err)
	}
	for _, name := range []string{fmt.Sprintf("in_voltage%d_scale", channel), "in_voltage_scale"} {
		b, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		if p.scale, err = strconv.ParseFloat(strings.TrimSpace(string(b)), 64); err != nil {
			return nil, fmt.Errorf("adc: %s: %w", name, err)
		}
		break
	}
	return p, nil
}

// Read implements analog.PinADC.
func (p *IIOPin) Read() (analog.Sample, error) {
	b, err := os.ReadFile(p.rawPath())
	if err != nil {
		return analog.Sample{}, fmt.Errorf("adc: %w", err)
	}
	raw, err := strconv.ParseInt(strings.TrimSpace(string(b)), 10, 32)
	if err != nil {
		return analog.Sample{}, fmt.Errorf("adc: %s: %w", p.rawPath(), err)
	}
	return p.sample(int32(raw)), nil
}

// Range implements analog.PinADC.
func (p *IIOPin) Range() (analog.Sample, analog.Sample) {
	return p.sample(0), p.sample(p.max)
}

// Name implements pin.Pin.
func (p *IIOPin) Name() string {
	return fmt.Sprintf("in_voltage%d", p.channel)
}

// Number implements pin.Pin.
func (p *IIOPin) Number() int {
	return p.channel
}

// Function implements pin.Pin.
func (p *IIOPin) Function() string {
	return "ADC"
}

func (p *IIOPin) String() string {
	return fmt.Sprintf("IIO(%s/%s)", p.dir, p.Name())
}

// Halt implements conn.Resource.
func (p *IIOPin) Halt() error {
	return nil
}

func (p *IIOPin) rawPath() string {
	return filepath.Join(p.dir, fmt.Sprintf("in_voltage%d_raw", p.channel))
}

func (p *IIOPin) sample(raw int32) analog.Sample {
	return analog.Sample{
		V:   physic.ElectricPotential(float64(raw) * p.scale * float64(physic.MilliVolt)),
		Raw: raw,
	}
}

var _ analog.PinADC = &IIOPin{}
