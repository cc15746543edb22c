// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package monitor ties the battery sampler to the character display.
//
// The Updater decides which of the two display lines must be redrawn; the
// Monitor runs sample, classify and update once per period.
package monitor

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/GermanBionicSystems/batmon/adc"
	"github.com/GermanBionicSystems/batmon/battery"
	"github.com/GermanBionicSystems/batmon/delay"
)

// DefaultPeriod is the time between two samples.
const DefaultPeriod = time.Second

// WelcomeHold is how long the welcome banner stays on screen.
const WelcomeHold = 3 * time.Second

// Banner is the welcome message, one string per row.
var Banner = []string{"CAR BATTERY ", "MONITORING!!"}

// Sampler produces raw conversions. *adc.Sampler implements it.
type Sampler interface {
	ReadRaw() (adc.RawSample, error)
}

// Clearer is a Display that can be blanked.
type Clearer interface {
	Display
	Clear() error
}

// Reading is the outcome of one monitoring cycle.
type Reading struct {
	Raw     adc.RawSample
	Voltage float64
	Status  battery.Status
	Redraw  Redraw
}

// Monitor samples the battery and updates the display periodically.
type Monitor struct {
	Sampler Sampler
	Updater *Updater
	// Period defaults to DefaultPeriod.
	Period time.Duration
	// Log defaults to the logrus standard logger.
	Log logrus.FieldLogger
	// OnReading, if set, is called after every successful cycle.
	OnReading func(Reading)
}

// Step runs one cycle: read, convert, classify and update the display.
func (m *Monitor) Step() (Reading, error) {
	if m.Sampler == nil || m.Updater == nil {
		return Reading{}, errors.New("monitor: sampler and updater are required")
	}
	raw, err := m.Sampler.ReadRaw()
	if err != nil {
		return Reading{}, err
	}
	r := Reading{Raw: raw, Voltage: adc.ToVoltage(raw)}
	r.Status = battery.Classify(r.Voltage)
	r.Redraw, err = m.Updater.Update(r.Voltage)
	if err != nil {
		return r, err
	}
	if m.OnReading != nil {
		m.OnReading(r)
	}
	return r, nil
}

// Run calls Step every Period until ctx is canceled. A failed cycle is logged
// and the display keeps the last values it showed.
func (m *Monitor) Run(ctx context.Context) error {
	period := m.Period
	if period <= 0 {
		period = DefaultPeriod
	}
	log := m.logger()
	log.WithField("period", period).Info("monitoring")
	t := time.NewTimer(0)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
		case <-t.C:
		}
		if ctx.Err() != nil {
			log.Info("stopped")
			return nil
		}
		r, err := m.Step()
		if err != nil {
			log.WithError(err).Error("cycle failed")
		} else {
			entry := log.WithFields(logrus.Fields{
				"raw":     r.Raw,
				"voltage": r.Voltage,
				"status":  r.Status,
			})
			if r.Redraw != None {
				entry.WithField("redraw", r.Redraw).Info("display updated")
			} else {
				entry.Debug("no change")
			}
		}
		t.Reset(period)
	}
}

func (m *Monitor) logger() logrus.FieldLogger {
	if m.Log == nil {
		return logrus.StandardLogger()
	}
	return m.Log
}

// Welcome shows lines, one per row from the top left, waits hold and clears
// the display.
func Welcome(d Clearer, s delay.Sleeper, hold time.Duration, lines ...string) error {
	for i, l := range lines {
		if err := d.SetCursor(i+1, 1); err != nil {
			return err
		}
		if _, err := d.WriteString(l); err != nil {
			return err
		}
	}
	delay.Or(s).Sleep(hold)
	return d.Clear()
}
