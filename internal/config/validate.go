// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package config

import (
	pkgerrors "github.com/pkg/errors"
)

// Validate checks configuration correctness.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return pkgerrors.New("config is nil")
	}

	// ---- LCD ----
	if cfg.LCD.Rows != 2 {
		return pkgerrors.Errorf("lcd.rows: %d not supported, the monitor needs 2 rows", cfg.LCD.Rows)
	}
	if cfg.LCD.Cols < 16 || cfg.LCD.Cols > 40 {
		return pkgerrors.Errorf("lcd.cols: %d out of range [16, 40]", cfg.LCD.Cols)
	}
	p := cfg.LCD.Pins
	seen := make(map[string]string)
	for _, pin := range []struct{ key, name string }{
		{"d4", p.D4}, {"d5", p.D5}, {"d6", p.D6}, {"d7", p.D7},
		{"rs", p.RS}, {"e", p.E}, {"backlight", p.Backlight},
	} {
		if pin.name == "" {
			if pin.key == "backlight" {
				continue
			}
			return pkgerrors.Errorf("lcd.pins.%s is required", pin.key)
		}
		if prev, ok := seen[pin.name]; ok {
			return pkgerrors.Errorf("lcd.pins: %s used for both %s and %s", pin.name, prev, pin.key)
		}
		seen[pin.name] = pin.key
	}

	// ---- ADC ----
	switch cfg.ADC.Backend {
	case BackendSim:
	case BackendIIO:
		if cfg.ADC.IIODevice == "" {
			return pkgerrors.New("adc.iio_device is required for the iio backend")
		}
		if cfg.ADC.Bits == 0 || cfg.ADC.Bits > 24 {
			return pkgerrors.Errorf("adc.bits: %d out of range [1, 24]", cfg.ADC.Bits)
		}
	default:
		return pkgerrors.Errorf("adc.backend: unknown backend %q", cfg.ADC.Backend)
	}
	if cfg.ADC.Channel < 0 {
		return pkgerrors.Errorf("adc.channel: %d is negative", cfg.ADC.Channel)
	}
	if cfg.ADC.TimeoutMs < 0 {
		return pkgerrors.Errorf("adc.timeout_ms: %d is negative", cfg.ADC.TimeoutMs)
	}

	// ---- MONITOR ----
	if cfg.Monitor.PeriodMs <= 0 {
		return pkgerrors.Errorf("monitor.period_ms: %d must be positive", cfg.Monitor.PeriodMs)
	}
	if cfg.Monitor.WelcomeMs < 0 {
		return pkgerrors.Errorf("monitor.welcome_ms: %d is negative", cfg.Monitor.WelcomeMs)
	}

	// ---- SIM ----
	if cfg.Sim.Voltage < 0 {
		return pkgerrors.Errorf("sim.voltage: %v is negative", cfg.Sim.Voltage)
	}
	return nil
}
