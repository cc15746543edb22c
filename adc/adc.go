// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package adc samples a battery voltage through a 10-bit successive
// approximation ADC behind a 4:1 resistor divider.
//
// The converter itself is reached through the Peripheral interface, which
// mirrors the control and result registers of a PIC16F87xA style ADC:
// configure, set GO, poll until the conversion is done, read ADRESH:ADRESL.
// NewPinPeripheral adapts any periph.io analog.PinADC to it, and IIOPin reads
// a Linux industrial I/O channel.
package adc

import (
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3/analog"
	"periph.io/x/conn/v3/physic"

	"github.com/GermanBionicSystems/batmon/delay"
)

// RawSample is one 10-bit conversion result in [0, MaxRaw].
type RawSample uint16

// MaxRaw is the largest value a conversion produces.
const MaxRaw RawSample = 1023

const (
	// Reference is the converter's positive reference.
	Reference = 5.0
	// Divider is the ratio of the battery resistor divider.
	Divider = 4.0
	// steps is the number of quantization steps of a 10-bit converter.
	steps = 1024.0
)

// SettleTime is how long New waits after configuring the converter.
const SettleTime = 20 * time.Millisecond

// ErrConversionTimeout is returned by ReadRaw when Opts.Timeout is set and the
// converter didn't finish in time.
var ErrConversionTimeout = errors.New("adc: conversion timed out")

// Peripheral is the register level interface of the converter.
type Peripheral interface {
	// Configure selects the channel, clock and references and powers the
	// converter on.
	Configure(c Config) error
	// StartConversion sets the GO bit.
	StartConversion() error
	// Converting reports whether the GO bit is still set.
	Converting() (bool, error)
	// Result returns the ADRESH and ADRESL result registers.
	Result() (high, low byte, err error)
}

// Opts holds the sampler configuration.
type Opts struct {
	Config Config
	// Settle overrides SettleTime when positive.
	Settle time.Duration
	// Timeout bounds the wait for a conversion to finish. Zero waits
	// forever: if the converter never completes, ReadRaw never returns.
	Timeout time.Duration
	// PollInterval, when positive, sleeps between two polls of the GO bit.
	PollInterval time.Duration
	Sleeper      delay.Sleeper
}

// DefaultOpts samples AN0 with no timeout.
var DefaultOpts = Opts{Config: DefaultConfig}

// Sampler reads the battery voltage.
//
// Implements analog.PinADC.
type Sampler struct {
	p     Peripheral
	cfg   Config
	opts  Opts
	sleep delay.Sleeper
}

// New configures the converter and waits for it to settle.
func New(p Peripheral, opts *Opts) (*Sampler, error) {
	if p == nil {
		return nil, errors.New("adc: peripheral is required")
	}
	if opts == nil {
		opts = &DefaultOpts
	}
	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}
	if opts.Timeout < 0 || opts.PollInterval < 0 {
		return nil, errors.New("adc: negative durations are not allowed")
	}
	s := &Sampler{p: p, cfg: opts.Config, opts: *opts, sleep: delay.Or(opts.Sleeper)}
	if err := p.Configure(s.cfg); err != nil {
		return nil, fmt.Errorf("adc: configure: %w", err)
	}
	settle := SettleTime
	if opts.Settle > 0 {
		settle = opts.Settle
	}
	s.sleep.Sleep(settle)
	return s, nil
}

// ReadRaw runs one conversion and returns its result.
func (s *Sampler) ReadRaw() (RawSample, error) {
	if err := s.p.StartConversion(); err != nil {
		return 0, fmt.Errorf("adc: start: %w", err)
	}
	if err := s.wait(); err != nil {
		return 0, err
	}
	high, low, err := s.p.Result()
	if err != nil {
		return 0, fmt.Errorf("adc: result: %w", err)
	}
	return s.cfg.Join(high, low), nil
}

// ReadVoltage runs one conversion and returns the battery voltage.
func (s *Sampler) ReadVoltage() (float64, error) {
	raw, err := s.ReadRaw()
	if err != nil {
		return 0, err
	}
	return ToVoltage(raw), nil
}

// Read implements analog.PinADC. V is the battery potential, ahead of the
// divider.
func (s *Sampler) Read() (analog.Sample, error) {
	raw, err := s.ReadRaw()
	if err != nil {
		return analog.Sample{}, err
	}
	return sample(raw), nil
}

// Range implements analog.PinADC.
func (s *Sampler) Range() (analog.Sample, analog.Sample) {
	return sample(0), sample(MaxRaw)
}

// Name implements pin.Pin.
func (s *Sampler) Name() string {
	return fmt.Sprintf("AN%d", s.cfg.Channel)
}

// Number implements pin.Pin.
func (s *Sampler) Number() int {
	return s.cfg.Channel
}

// Function implements pin.Pin.
func (s *Sampler) Function() string {
	return "ADC"
}

func (s *Sampler) String() string {
	return fmt.Sprintf("Battery(%s)", s.Name())
}

// Halt implements conn.Resource. It is a no-op; conversions are synchronous.
func (s *Sampler) Halt() error {
	return nil
}

// wait polls the GO bit until the conversion is done.
func (s *Sampler) wait() error {
	var deadline time.Time
	if s.opts.Timeout > 0 {
		deadline = time.Now().Add(s.opts.Timeout)
	}
	for {
		busy, err := s.p.Converting()
		if err != nil {
			return fmt.Errorf("adc: poll: %w", err)
		}
		if !busy {
			return nil
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			return ErrConversionTimeout
		}
		if s.opts.PollInterval > 0 {
			s.sleep.Sleep(s.opts.PollInterval)
		}
	}
}

// ToVoltage converts a raw sample into the battery voltage.
func ToVoltage(raw RawSample) float64 {
	return float64(raw) * Reference / steps * Divider
}

func sample(raw RawSample) analog.Sample {
	return analog.Sample{
		V:   physic.ElectricPotential(ToVoltage(raw) * float64(physic.Volt)),
		Raw: int32(raw),
	}
}

var _ analog.PinADC = &Sampler{}
