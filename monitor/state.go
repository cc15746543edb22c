// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package monitor

import "github.com/GermanBionicSystems/batmon/battery"

// DisplayState is what is currently shown on the display. The zero value
// means nothing was drawn yet.
//
// Only an Updater modifies it, and only after the corresponding write
// returned successfully.
type DisplayState struct {
	voltage    float64
	hasVoltage bool
	status     battery.Status
	hasStatus  bool
}

// LastVoltage returns the voltage on the first line, if any was drawn.
func (s *DisplayState) LastVoltage() (float64, bool) {
	return s.voltage, s.hasVoltage
}

// LastStatus returns the status on the second line, if any was drawn.
func (s *DisplayState) LastStatus() (battery.Status, bool) {
	return s.status, s.hasStatus
}

// Reset forgets what was drawn, e.g. after the display was cleared.
func (s *DisplayState) Reset() {
	*s = DisplayState{}
}
