// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := Validate(cfg); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Period() != time.Second || cfg.Welcome() != 3*time.Second || cfg.Timeout() != 0 {
		t.Errorf("unexpected durations %s %s %s", cfg.Period(), cfg.Welcome(), cfg.Timeout())
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batmon.yaml")
	data := `
lcd:
  pins:
    backlight: GPIO18
adc:
  backend: iio
  channel: 2
  timeout_ms: 50
monitor:
  period_ms: 500
sim:
  voltage: 13.9
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := Validate(cfg); err != nil {
		t.Fatal(err)
	}
	// Unset keys keep their defaults.
	if cfg.LCD.Pins.D4 != "GPIO23" || cfg.LCD.Pins.Backlight != "GPIO18" {
		t.Errorf("unexpected pins %+v", cfg.LCD.Pins)
	}
	if cfg.ADC.Backend != BackendIIO || cfg.ADC.Channel != 2 || cfg.Timeout() != 50*time.Millisecond {
		t.Errorf("unexpected adc %+v", cfg.ADC)
	}
	if cfg.Period() != 500*time.Millisecond || cfg.Welcome() != 3*time.Second {
		t.Errorf("unexpected monitor %+v", cfg.Monitor)
	}
	if cfg.Sim.Voltage != 13.9 {
		t.Errorf("unexpected sim %+v", cfg.Sim)
	}
}

func TestLoad_errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error on missing file")
	}
	path := filepath.Join(t.TempDir(), "bad.yaml")
	_ = os.WriteFile(path, []byte("lcd: [oops"), 0o644)
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "failed to parse") {
		t.Errorf("expected parse error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	for _, tc := range []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"nil", nil, "config is nil"},
		{"rows", func(c *Config) { c.LCD.Rows = 4 }, "lcd.rows"},
		{"cols", func(c *Config) { c.LCD.Cols = 8 }, "lcd.cols"},
		{"missing pin", func(c *Config) { c.LCD.Pins.E = "" }, "lcd.pins.e is required"},
		{"duplicate pin", func(c *Config) { c.LCD.Pins.Backlight = "GPIO23" }, "used for both d4 and backlight"},
		{"backend", func(c *Config) { c.ADC.Backend = "spi" }, "unknown backend"},
		{"iio device", func(c *Config) { c.ADC.Backend = BackendIIO; c.ADC.IIODevice = "" }, "iio_device"},
		{"iio bits", func(c *Config) { c.ADC.Backend = BackendIIO; c.ADC.Bits = 0 }, "adc.bits"},
		{"channel", func(c *Config) { c.ADC.Channel = -1 }, "adc.channel"},
		{"timeout", func(c *Config) { c.ADC.TimeoutMs = -1 }, "timeout_ms"},
		{"period", func(c *Config) { c.Monitor.PeriodMs = 0 }, "period_ms"},
		{"welcome", func(c *Config) { c.Monitor.WelcomeMs = -5 }, "welcome_ms"},
		{"voltage", func(c *Config) { c.Sim.Voltage = -1 }, "sim.voltage"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var cfg *Config
			if tc.mutate != nil {
				cfg = Default()
				tc.mutate(cfg)
			}
			err := Validate(cfg)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Errorf("Validate() = %v, expected %q", err, tc.want)
			}
		})
	}
}
