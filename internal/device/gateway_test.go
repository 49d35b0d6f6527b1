package device

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/concreto/internal/config"
	"github.com/mamadbah2/concreto/internal/domain/models"
	"github.com/mamadbah2/concreto/internal/metrics"
)

type fakeHTTPClient struct {
	commands []string
	reading  *models.SensorReading
	err      error
}

func (f *fakeHTTPClient) SendCommand(_ context.Context, command string) (string, error) {
	f.commands = append(f.commands, command)
	if f.err != nil {
		return "", f.err
	}
	return "OK", nil
}

func (f *fakeHTTPClient) Sensors(_ context.Context) (*models.SensorReading, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.reading, nil
}

func TestHTTPGateway(t *testing.T) {
	temp := 30.5
	client := &fakeHTTPClient{reading: &models.SensorReading{Temperature: &temp}}
	gw := NewHTTPGateway(client, nil)

	require.NoError(t, gw.SendCommand(context.Background(), models.CommandPing))
	assert.Equal(t, []string{"PING"}, client.commands)

	reading, err := gw.ReadSensors(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 30.5, *reading.Temperature)
}

func TestHTTPGateway_Failures(t *testing.T) {
	client := &fakeHTTPClient{err: errors.New("connection refused")}
	gw := NewHTTPGateway(client, nil)

	require.Error(t, gw.SendCommand(context.Background(), models.CommandStartMixing))

	_, err := gw.ReadSensors(context.Background())
	require.ErrorIs(t, err, ErrNoReading)

	_, err = NewHTTPGateway(&fakeHTTPClient{}, nil).ReadSensors(context.Background())
	require.ErrorIs(t, err, ErrNoReading)
}

type fakeBroker struct {
	published []string
	reading   models.SensorReading
	fresh     bool
	err       error
}

func (f *fakeBroker) Publish(command string) error {
	f.published = append(f.published, command)
	return f.err
}

func (f *fakeBroker) Latest() (models.SensorReading, bool) {
	return f.reading, f.fresh
}

func TestMQTTGateway(t *testing.T) {
	load := 60.0
	broker := &fakeBroker{reading: models.SensorReading{LoadCell: &load}, fresh: true}
	gw := NewMQTTGateway(broker)

	require.NoError(t, gw.SendCommand(context.Background(), models.CommandStopMixing))
	assert.Equal(t, []string{"STOP_MIXING"}, broker.published)

	reading, err := gw.ReadSensors(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 60.0, *reading.LoadCell)

	broker.fresh = false
	_, err = gw.ReadSensors(context.Background())
	require.ErrorIs(t, err, ErrNoReading)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, gw.SendCommand(ctx, models.CommandPing), context.Canceled)
}

func TestInstrument_CountsResults(t *testing.T) {
	m := metrics.Nop()
	client := &fakeHTTPClient{}
	gw := Instrument(NewHTTPGateway(client, nil), m, nil)

	require.NoError(t, gw.SendCommand(context.Background(), models.CommandPing))
	client.err = errors.New("down")
	require.Error(t, gw.SendCommand(context.Background(), models.CommandPing))
	_, err := gw.ReadSensors(context.Background())
	require.Error(t, err)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.DeviceCommands.WithLabelValues("PING", metrics.ResultOK)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.DeviceCommands.WithLabelValues("PING", metrics.ResultError)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.SensorReads.WithLabelValues(metrics.ResultError)))
}

func TestNew_MockMode(t *testing.T) {
	gw, closeFn, err := New(config.DeviceConfig{Mode: config.DeviceModeMock}, metrics.Nop(), nil)
	require.NoError(t, err)
	defer func() { _ = closeFn() }()

	reading, err := gw.ReadSensors(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, reading.Moisture)
}

func TestNew_UnknownMode(t *testing.T) {
	_, _, err := New(config.DeviceConfig{Mode: "serial"}, nil, nil)
	require.Error(t, err)
}
