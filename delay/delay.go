// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package delay provides the blocking delay used by the display driver and
// the analog sampler.
//
// Both need calibrated waits (enable pulse hold, ADC settling). Expressing
// them as a time.Duration passed to a Sleeper keeps the constants in the
// driver code and lets tests substitute a recorder that doesn't block.
package delay

import "time"

// Sleeper blocks the caller for the requested duration.
type Sleeper interface {
	Sleep(d time.Duration)
}

// Real is a Sleeper backed by time.Sleep.
type Real struct{}

// Sleep implements Sleeper.
func (Real) Sleep(d time.Duration) {
	if d > 0 {
		time.Sleep(d)
	}
}

// Or returns s, or Real if s is nil.
func Or(s Sleeper) Sleeper {
	if s == nil {
		return Real{}
	}
	return s
}

var _ Sleeper = Real{}
