package device

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mamadbah2/concreto/internal/config"
	"github.com/mamadbah2/concreto/internal/domain/models"
	"github.com/mamadbah2/concreto/internal/metrics"
	"github.com/mamadbah2/concreto/pkg/clients/esp32"
	"github.com/mamadbah2/concreto/pkg/clients/mqtt"
)

// ErrNoReading indicates the device could not produce sensor data.
var ErrNoReading = errors.New("no sensor reading available")

// Gateway abstracts the mixer, real or simulated. A nil error from SendCommand
// means the device accepted the command.
type Gateway interface {
	SendCommand(ctx context.Context, cmd models.DeviceCommand) error
	ReadSensors(ctx context.Context) (models.SensorReading, error)
}

// New selects the gateway implementation from configuration and wraps it with
// logging and metrics. The returned close function releases transport resources.
func New(cfg config.DeviceConfig, m *metrics.Metrics, logger *zap.Logger) (Gateway, func() error, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var (
		gw      Gateway
		closeFn = func() error { return nil }
	)

	switch cfg.Mode {
	case config.DeviceModeMock:
		gw = NewSimulator(nil)
	case config.DeviceModeHTTP:
		gw = NewHTTPGateway(esp32.NewClient(cfg), logger)
	case config.DeviceModeMQTT:
		client, err := mqtt.Dial(cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		gw = NewMQTTGateway(client)
		closeFn = client.Close
	default:
		return nil, nil, fmt.Errorf("unsupported device mode %q", cfg.Mode)
	}

	logger.Info("device gateway ready", zap.String("mode", cfg.Mode))
	return Instrument(gw, m, logger), closeFn, nil
}
