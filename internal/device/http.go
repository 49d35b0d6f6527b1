package device

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mamadbah2/concreto/internal/domain/models"
)

// CommandSensorClient is the transport used by HTTPGateway.
type CommandSensorClient interface {
	SendCommand(ctx context.Context, command string) (string, error)
	Sensors(ctx context.Context) (*models.SensorReading, error)
}

// HTTPGateway drives a networked mixer through its HTTP endpoints.
type HTTPGateway struct {
	client CommandSensorClient
	logger *zap.Logger
}

// NewHTTPGateway wraps an HTTP client as a Gateway.
func NewHTTPGateway(client CommandSensorClient, logger *zap.Logger) *HTTPGateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPGateway{client: client, logger: logger}
}

func (g *HTTPGateway) SendCommand(ctx context.Context, cmd models.DeviceCommand) error {
	reply, err := g.client.SendCommand(ctx, string(cmd))
	if err != nil {
		return err
	}
	g.logger.Debug("device replied", zap.String("command", string(cmd)), zap.String("reply", reply))
	return nil
}

func (g *HTTPGateway) ReadSensors(ctx context.Context) (models.SensorReading, error) {
	reading, err := g.client.Sensors(ctx)
	if err != nil {
		return models.SensorReading{}, fmt.Errorf("%w: %v", ErrNoReading, err)
	}
	if reading == nil {
		return models.SensorReading{}, ErrNoReading
	}
	return *reading, nil
}
