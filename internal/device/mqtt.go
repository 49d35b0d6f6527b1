package device

import (
	"context"

	"github.com/mamadbah2/concreto/internal/domain/models"
)

// PublishSubscriber is the transport used by MQTTGateway.
type PublishSubscriber interface {
	Publish(command string) error
	Latest() (models.SensorReading, bool)
}

// MQTTGateway publishes commands to a broker and serves the last reading the
// mixer pushed.
type MQTTGateway struct {
	client PublishSubscriber
}

// NewMQTTGateway wraps a broker client as a Gateway.
func NewMQTTGateway(client PublishSubscriber) *MQTTGateway {
	return &MQTTGateway{client: client}
}

func (g *MQTTGateway) SendCommand(ctx context.Context, cmd models.DeviceCommand) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return g.client.Publish(string(cmd))
}

func (g *MQTTGateway) ReadSensors(ctx context.Context) (models.SensorReading, error) {
	if err := ctx.Err(); err != nil {
		return models.SensorReading{}, err
	}
	reading, ok := g.client.Latest()
	if !ok {
		return models.SensorReading{}, ErrNoReading
	}
	return reading, nil
}
