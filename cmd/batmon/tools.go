// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"strconv"

	pkgerrors "github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/GermanBionicSystems/batmon/adc"
	"github.com/GermanBionicSystems/batmon/battery"
)

func NewClassifyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "classify [volts]",
		Short: "Print the status and display lines for a battery voltage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return pkgerrors.Wrapf(err, "invalid voltage %q", args[0])
			}
			printLines(cmd, v)
			return nil
		},
	}
}

func NewConvertCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "convert [raw]",
		Short: "Convert a raw 10-bit ADC sample to the battery voltage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := strconv.ParseUint(args[0], 0, 16)
			if err != nil {
				return pkgerrors.Wrapf(err, "invalid sample %q", args[0])
			}
			if raw > uint64(adc.MaxRaw) {
				return pkgerrors.Errorf("sample %d out of range [0, %d]", raw, adc.MaxRaw)
			}
			v := adc.ToVoltage(adc.RawSample(raw))
			cmd.Printf("raw %d = %.4fV\n", raw, v)
			printLines(cmd, v)
			return nil
		},
	}
}

func printLines(cmd *cobra.Command, v float64) {
	cmd.Printf("%s\n%s\n", battery.VoltageLine(v), battery.Classify(v).Label())
}
