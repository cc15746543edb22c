// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package sim is a simulated board: an HD44780 character LCD decoding the
// GPIO lines driven by package hd44780, and an ADC peripheral for package
// adc.
//
// It lets the monitor run, and be tested, without hardware.
package sim
