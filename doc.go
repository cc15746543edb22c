// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package batmon is a car battery voltage monitor.
//
// The battery is sampled through a 4:1 resistor divider by a 10-bit ADC
// (package adc), classified into a charge status (package battery) and shown
// on a 16x2 HD44780 character LCD (package hd44780). Package monitor ties the
// pieces together and only redraws display lines whose content changed.
//
// Package sim provides software models of the LCD controller and the ADC so
// the whole pipeline runs without hardware; cmd/batmon is the command line
// front end.
package batmon
