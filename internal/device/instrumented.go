package device

import (
	"context"

	"go.uber.org/zap"

	"github.com/mamadbah2/concreto/internal/domain/models"
	"github.com/mamadbah2/concreto/internal/metrics"
)

type instrumented struct {
	next    Gateway
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// Instrument decorates a gateway with logging and Prometheus counters.
func Instrument(next Gateway, m *metrics.Metrics, logger *zap.Logger) Gateway {
	if m == nil {
		m = metrics.Nop()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &instrumented{next: next, metrics: m, logger: logger}
}

func (i *instrumented) SendCommand(ctx context.Context, cmd models.DeviceCommand) error {
	err := i.next.SendCommand(ctx, cmd)
	if err != nil {
		i.metrics.DeviceCommands.WithLabelValues(string(cmd), metrics.ResultError).Inc()
		i.logger.Warn("device command failed", zap.String("command", string(cmd)), zap.Error(err))
		return err
	}
	i.metrics.DeviceCommands.WithLabelValues(string(cmd), metrics.ResultOK).Inc()
	i.logger.Info("device command sent", zap.String("command", string(cmd)))
	return nil
}

func (i *instrumented) ReadSensors(ctx context.Context) (models.SensorReading, error) {
	reading, err := i.next.ReadSensors(ctx)
	if err != nil {
		i.metrics.SensorReads.WithLabelValues(metrics.ResultError).Inc()
		i.logger.Debug("sensor read failed", zap.Error(err))
		return reading, err
	}
	i.metrics.SensorReads.WithLabelValues(metrics.ResultOK).Inc()
	return reading, nil
}
