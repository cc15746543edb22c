// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// batmon shows a battery voltage and its status on a 16x2 character LCD.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	logLevel   = "info"
	configPath = ""
)

func setupLogger() error {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("failed to parse log level: %v", err)
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{})
	if term.IsTerminal(int(os.Stderr.Fd())) {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.Kitchen,
		})
	}
	return nil
}

// NewCommand returns the root command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batmon",
		Short: "Battery voltage monitor for HD44780 character displays",
		Long: `batmon samples a battery through a 4:1 resistor divider and shows its
voltage and charge status on a 16x2 character LCD driven over GPIO.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return setupLogger()
		},
	}
	cmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", logLevel, "log level (trace, debug, info, warn, error, fatal, panic)")
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", configPath, "path to the YAML configuration file")

	cmd.AddCommand(
		NewRunCommand(),
		NewClassifyCommand(),
		NewConvertCommand(),
	)
	return cmd
}

func main() {
	if err := NewCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
