// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package delaytest is meant to be used to test code that waits through a
// delay.Sleeper.
package delaytest

import (
	"sync"
	"time"

	"github.com/GermanBionicSystems/batmon/delay"
)

// Recorder implements delay.Sleeper and records every requested delay
// instead of blocking.
type Recorder struct {
	sync.Mutex
	Delays []time.Duration
}

// Sleep implements delay.Sleeper.
func (r *Recorder) Sleep(d time.Duration) {
	r.Lock()
	defer r.Unlock()
	r.Delays = append(r.Delays, d)
}

// Total returns the sum of all recorded delays.
func (r *Recorder) Total() time.Duration {
	r.Lock()
	defer r.Unlock()
	var t time.Duration
	for _, d := range r.Delays {
		t += d
	}
	return t
}

// Count returns how many times Sleep was called with exactly d.
func (r *Recorder) Count(d time.Duration) int {
	r.Lock()
	defer r.Unlock()
	n := 0
	for _, v := range r.Delays {
		if v == d {
			n++
		}
	}
	return n
}

// Reset forgets the recorded delays.
func (r *Recorder) Reset() {
	r.Lock()
	defer r.Unlock()
	r.Delays = nil
}

var _ delay.Sleeper = &Recorder{}
