// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package config loads the batmon YAML configuration.
package config

import (
	"os"
	"time"

	pkgerrors "github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the whole configuration file.
type Config struct {
	LCD     LCDConfig     `yaml:"lcd"`
	ADC     ADCConfig     `yaml:"adc"`
	Monitor MonitorConfig `yaml:"monitor"`
	Sim     SimConfig     `yaml:"sim"`
}

// ---- LCD ----

type LCDConfig struct {
	Rows int      `yaml:"rows"`
	Cols int      `yaml:"cols"`
	Pins PinNames `yaml:"pins"`
}

// PinNames are gpioreg names, e.g. "GPIO23". Backlight is optional.
type PinNames struct {
	D4        string `yaml:"d4"`
	D5        string `yaml:"d5"`
	D6        string `yaml:"d6"`
	D7        string `yaml:"d7"`
	RS        string `yaml:"rs"`
	E         string `yaml:"e"`
	Backlight string `yaml:"backlight"`
}

// ---- ADC ----

const (
	BackendSim = "sim"
	BackendIIO = "iio"
)

type ADCConfig struct {
	Backend string `yaml:"backend"`
	// IIODevice is the sysfs directory of the IIO device.
	IIODevice string `yaml:"iio_device"`
	Channel   int    `yaml:"channel"`
	Bits      uint   `yaml:"bits"`
	// TimeoutMs bounds a conversion; 0 waits forever.
	TimeoutMs int `yaml:"timeout_ms"`
}

// ---- MONITOR ----

type MonitorConfig struct {
	PeriodMs  int `yaml:"period_ms"`
	WelcomeMs int `yaml:"welcome_ms"`
}

// ---- SIM ----

type SimConfig struct {
	// Voltage is the simulated battery voltage.
	Voltage float64 `yaml:"voltage"`
	// Snapshot, if set, is a PNG file rewritten on every redraw.
	Snapshot string `yaml:"snapshot"`
	// Terminal mirrors the simulated panel on stdout.
	Terminal bool `yaml:"terminal"`
}

// Default returns the configuration used when no file is given: a 16x2
// panel on the Raspberry Pi header and the simulated ADC.
func Default() *Config {
	return &Config{
		LCD: LCDConfig{
			Rows: 2,
			Cols: 16,
			Pins: PinNames{D4: "GPIO23", D5: "GPIO24", D6: "GPIO25", D7: "GPIO8", RS: "GPIO7", E: "GPIO12"},
		},
		ADC: ADCConfig{
			Backend:   BackendSim,
			IIODevice: "/sys/bus/iio/devices/iio:device0",
			Bits:      12,
		},
		Monitor: MonitorConfig{PeriodMs: 1000, WelcomeMs: 3000},
		Sim:     SimConfig{Voltage: 12.7, Terminal: true},
	}
}

// Load reads path over the defaults.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to read config %s", path)
	}
	cfg := Default()
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to parse config %s", path)
	}
	return cfg, nil
}

// Period returns the monitor period.
func (c *Config) Period() time.Duration {
	return time.Duration(c.Monitor.PeriodMs) * time.Millisecond
}

// Welcome returns how long the welcome banner is shown.
func (c *Config) Welcome() time.Duration {
	return time.Duration(c.Monitor.WelcomeMs) * time.Millisecond
}

// Timeout returns the conversion timeout, 0 for none.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.ADC.TimeoutMs) * time.Millisecond
}
