// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/GermanBionicSystems/batmon/adc"
	"github.com/GermanBionicSystems/batmon/delay"
	"github.com/GermanBionicSystems/batmon/hd44780"
	"github.com/GermanBionicSystems/batmon/internal/config"
	"github.com/GermanBionicSystems/batmon/sim"
)

// board is the display and the sampler, on hardware or simulated.
type board struct {
	lcd     *hd44780.Dev
	sampler *adc.Sampler

	// Set in simulation only.
	panel  *sim.LCD
	simADC *sim.ADC
}

// openBoard refuses a simulated ADC behind a real display.
func openBoard(cfg *config.Config, simulate bool, sleeper delay.Sleeper) (*board, error) {
	if !simulate && cfg.ADC.Backend == config.BackendSim {
		return nil, pkgerrors.Errorf("adc.backend %q is only allowed with --sim; set adc.backend to %q to drive the display", config.BackendSim, config.BackendIIO)
	}
	b := &board{}
	var lines *hd44780.Lines
	if simulate {
		b.panel = sim.NewLCD(cfg.LCD.Rows, cfg.LCD.Cols)
		lines = b.panel.Lines()
	} else {
		state, err := host.Init()
		if err != nil {
			return nil, pkgerrors.Wrap(err, "failed to initialize periph host")
		}
		logrus.Debugf("periph drivers loaded: %d", len(state.Loaded))
		if lines, err = openLines(&cfg.LCD.Pins); err != nil {
			return nil, err
		}
	}

	var err error
	b.lcd, err = hd44780.New(lines, &hd44780.Opts{Rows: cfg.LCD.Rows, Cols: cfg.LCD.Cols, Sleeper: sleeper})
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to initialize display")
	}
	logrus.Infof("display: %s", b.lcd)

	p, err := openPeripheral(cfg, b)
	if err != nil {
		return nil, err
	}
	b.sampler, err = adc.New(p, &adc.Opts{
		Config:  adc.DefaultConfig,
		Timeout: cfg.Timeout(),
		Sleeper: sleeper,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to initialize adc")
	}
	logrus.Infof("sampler: %s on %s", b.sampler, p)
	return b, nil
}

func openPeripheral(cfg *config.Config, b *board) (adc.Peripheral, error) {
	switch cfg.ADC.Backend {
	case config.BackendIIO:
		pin, err := adc.NewIIOPin(cfg.ADC.IIODevice, cfg.ADC.Channel, cfg.ADC.Bits)
		if err != nil {
			return nil, pkgerrors.Wrap(err, "failed to open iio channel")
		}
		return adc.NewPinPeripheral(pin), nil
	default:
		b.simADC = &sim.ADC{}
		b.simADC.SetBatteryVoltage(cfg.Sim.Voltage)
		return b.simADC, nil
	}
}

// openLines resolves the configured pin names and drives them low, which
// also makes them outputs.
func openLines(names *config.PinNames) (*hd44780.Lines, error) {
	get := func(key, name string) (gpio.PinOut, error) {
		if name == "" {
			return nil, nil
		}
		p := gpioreg.ByName(name)
		if p == nil {
			return nil, pkgerrors.Errorf("lcd.pins.%s: no pin named %q", key, name)
		}
		if err := p.Out(gpio.Low); err != nil {
			return nil, pkgerrors.Wrapf(err, "lcd.pins.%s: %s", key, name)
		}
		return p, nil
	}
	l := &hd44780.Lines{}
	for _, pin := range []struct {
		key, name string
		dst       *gpio.PinOut
	}{
		{"d4", names.D4, &l.D4},
		{"d5", names.D5, &l.D5},
		{"d6", names.D6, &l.D6},
		{"d7", names.D7, &l.D7},
		{"rs", names.RS, &l.RS},
		{"e", names.E, &l.E},
		{"backlight", names.Backlight, &l.Backlight},
	} {
		p, err := get(pin.key, pin.name)
		if err != nil {
			return nil, err
		}
		*pin.dst = p
	}
	return l, nil
}
