// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package battery classifies a 12V lead-acid battery voltage and formats it
// for a 16 column character display.
package battery

import (
	"fmt"
	"strings"
)

// Status is a battery state, ordered by increasing voltage.
type Status uint8

const (
	Critical Status = iota
	Low
	OK
	Good
	Charging
	High
)

// Thresholds, in volts.
const (
	HighAbove    = 14.8
	ChargingFrom = 14.4
	GoodFrom     = 13.8
	OKFrom       = 12.6
	LowFrom      = 11.5
)

// LabelWidth is the width status labels are padded to.
const LabelWidth = 16

var names = [...]string{"CRITICAL", "LOW", "OK", "GOOD", "CHARGING", "HIGH"}

// Classify returns the status of a battery at v volts.
func Classify(v float64) Status {
	switch {
	case v > HighAbove:
		return High
	case v >= ChargingFrom:
		return Charging
	case v >= GoodFrom:
		return Good
	case v >= OKFrom:
		return OK
	case v >= LowFrom:
		return Low
	default:
		return Critical
	}
}

func (s Status) String() string {
	if int(s) < len(names) {
		return names[s]
	}
	return fmt.Sprintf("Status(%d)", uint8(s))
}

// Label returns the status line, padded with spaces to LabelWidth so that it
// fully overwrites any previous label.
func (s Status) Label() string {
	return Pad("Status: " + s.String())
}

// FormatVoltage returns the voltage text, e.g. "Battery: 12.6V".
func FormatVoltage(v float64) string {
	return fmt.Sprintf("Battery: %.1fV", v)
}

// VoltageLine returns FormatVoltage padded to LabelWidth, so a shorter value
// (9.9V after 10.0V) doesn't leave the previous unit behind.
func VoltageLine(v float64) string {
	return Pad(FormatVoltage(v))
}

// Pad right-pads text with spaces to LabelWidth. Longer text is returned
// unchanged.
func Pad(text string) string {
	if n := LabelWidth - len(text); n > 0 {
		return text + strings.Repeat(" ", n)
	}
	return text
}
