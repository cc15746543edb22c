// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/GermanBionicSystems/batmon/delay"
	"github.com/GermanBionicSystems/batmon/internal/config"
	"github.com/GermanBionicSystems/batmon/monitor"
	"github.com/GermanBionicSystems/batmon/screen2d"
)

func NewRunCommand() *cobra.Command {
	var (
		simulate bool
		voltage  float64
		snapshot string
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Monitor the battery",
		Long: `Monitor the battery.

Shows a welcome banner, then samples the battery every period and redraws the
display lines that changed. Without --sim the configuration must select the
iio ADC backend. With --sim the display is simulated and mirrored on the
terminal, and unless the configuration selects another ADC backend the battery
voltage comes from --voltage.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("voltage") {
				cfg.Sim.Voltage = voltage
			}
			if snapshot != "" {
				cfg.Sim.Snapshot = snapshot
			}
			if err := config.Validate(cfg); err != nil {
				return pkgerrors.Wrap(err, "invalid configuration")
			}
			return run(cmd.Context(), cfg, simulate)
		},
	}
	cmd.Flags().BoolVar(&simulate, "sim", false, "simulate the display instead of driving GPIO")
	cmd.Flags().Float64Var(&voltage, "voltage", 0, "simulated battery voltage")
	cmd.Flags().StringVar(&snapshot, "snapshot", "", "with --sim, PNG file updated with the simulated display")
	return cmd
}

func loadConfig() (*config.Config, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logrus.Debugf("config loaded from %s: %+v", configPath, cfg)
	return cfg, nil
}

func run(ctx context.Context, cfg *config.Config, simulate bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	sleeper := delay.Real{}
	b, err := openBoard(cfg, simulate, sleeper)
	if err != nil {
		return err
	}
	defer func() {
		if err := b.lcd.Halt(); err != nil {
			logrus.Errorf("failed to halt display: %v", err)
		}
	}()

	var screen *screen2d.Dev
	if b.panel != nil && cfg.Sim.Terminal {
		if screen, err = screen2d.New(&screen2d.Opts{Rows: cfg.LCD.Rows, Cols: cfg.LCD.Cols}); err != nil {
			return err
		}
		defer screen.Halt()
	}

	if cfg.Welcome() > 0 {
		if err := monitor.Welcome(b.lcd, sleeper, cfg.Welcome(), monitor.Banner...); err != nil {
			return pkgerrors.Wrap(err, "failed to show welcome banner")
		}
	}

	m := &monitor.Monitor{
		Sampler: b.sampler,
		Updater: monitor.NewUpdater(b.lcd, &monitor.DisplayState{}),
		Period:  cfg.Period(),
		Log:     logrus.WithField("display", b.lcd.String()),
	}
	if b.panel != nil {
		m.OnReading = func(r monitor.Reading) {
			if r.Redraw == monitor.None {
				return
			}
			if screen != nil {
				mirror(screen, b, r)
			}
			if cfg.Sim.Snapshot != "" {
				if err := b.panel.Snapshot(cfg.Sim.Snapshot); err != nil {
					logrus.Warnf("failed to save snapshot: %v", err)
				}
			}
		}
	}
	return m.Run(ctx)
}

// mirror copies the simulated panel to the terminal.
func mirror(screen *screen2d.Dev, b *board, r monitor.Reading) {
	for row := 1; row <= b.panel.Rows(); row++ {
		if err := screen.SetCursor(row, 1); err != nil {
			logrus.Warnf("terminal: %v", err)
			return
		}
		if _, err := screen.WriteString(b.panel.Line(row)); err != nil {
			logrus.Warnf("terminal: %v", err)
			return
		}
	}
	_ = screen.SetStatus(r.Status)
}
