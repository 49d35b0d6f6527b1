package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mamadbah2/concreto/internal/device"
	"github.com/mamadbah2/concreto/internal/domain/models"
)

// NewDeviceCommand creates the device command group.
func NewDeviceCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "device",
		Short: "Talk to the mixer through the configured gateway",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "ping",
		Short: "Check that the mixer answers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withGateway(cmd.Context(), rootOpts, func(ctx context.Context, gw device.Gateway) error {
				status := models.ConnectionConnected
				if err := gw.SendCommand(ctx, models.CommandPing); err != nil {
					status = models.ConnectionDisconnected
				}
				return rootOpts.emit(cmd.OutOrStdout(), string(status), map[string]models.ConnectionStatus{"connection": status})
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "sensors",
		Short: "Print the latest sensor reading",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withGateway(cmd.Context(), rootOpts, func(ctx context.Context, gw device.Gateway) error {
				reading, err := gw.ReadSensors(ctx)
				if err != nil {
					return err
				}
				return rootOpts.emit(cmd.OutOrStdout(), formatReading(reading), reading)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "send <command>",
		Short: "Send START_MIXING, STOP_MIXING or PING",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, ok := models.ParseDeviceCommand(args[0])
			if !ok {
				return fmt.Errorf("unknown command %q", args[0])
			}
			return withGateway(cmd.Context(), rootOpts, func(ctx context.Context, gw device.Gateway) error {
				if err := gw.SendCommand(ctx, name); err != nil {
					return fmt.Errorf("%s not accepted: %w", name, err)
				}
				return rootOpts.emit(cmd.OutOrStdout(), string(name)+" accepted", map[string]interface{}{"command": name, "accepted": true})
			})
		},
	})

	return cmd
}

func withGateway(ctx context.Context, opts *RootOptions, fn func(context.Context, device.Gateway) error) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}

	log := opts.logger()
	defer func() { _ = log.Sync() }()

	gw, closeFn, err := device.New(cfg.Device, nil, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeFn(); err != nil {
			log.Warn("failed to close gateway", zap.Error(err))
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, cfg.Device.Timeout)
	defer cancel()
	return fn(ctx, gw)
}

func formatReading(r models.SensorReading) string {
	parts := []string{
		"moisture " + optional(r.Moisture),
		"temperature " + optional(r.Temperature),
		"load cell " + optional(r.LoadCell),
	}
	if r.IsMixing != nil {
		parts = append(parts, fmt.Sprintf("mixing %t", *r.IsMixing))
	}
	return strings.Join(parts, "  ")
}

func optional(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *v)
}
