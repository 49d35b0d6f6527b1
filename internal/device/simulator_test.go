package device

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/concreto/internal/domain/models"
)

func TestSimulator_ReadingsStayInRange(t *testing.T) {
	sim := NewSimulator(rand.New(rand.NewSource(42)))
	ctx := context.Background()

	for i := 0; i < 500; i++ {
		reading, err := sim.ReadSensors(ctx)
		require.NoError(t, err)

		assert.GreaterOrEqual(t, *reading.Moisture, moistureRange.min)
		assert.LessOrEqual(t, *reading.Moisture, moistureRange.max)
		assert.GreaterOrEqual(t, *reading.Temperature, temperatureRange.min)
		assert.LessOrEqual(t, *reading.Temperature, temperatureRange.max)
		assert.GreaterOrEqual(t, *reading.LoadCell, loadCellRange.min)
		assert.LessOrEqual(t, *reading.LoadCell, loadCellRange.max)
	}
}

func TestSimulator_DriftIsBounded(t *testing.T) {
	sim := NewSimulator(rand.New(rand.NewSource(7)))

	first, err := sim.ReadSensors(context.Background())
	require.NoError(t, err)

	// At most two steps away from the defaults, plus rounding to one decimal.
	assert.InDelta(t, defaultMoisture, *first.Moisture, 2*moistureRange.step+0.05)
	assert.InDelta(t, defaultTemperature, *first.Temperature, 2*temperatureRange.step+0.05)
	assert.InDelta(t, defaultLoadCell, *first.LoadCell, 2*loadCellRange.step+0.05)
}

func TestSimulator_TracksMixing(t *testing.T) {
	sim := NewSimulator(rand.New(rand.NewSource(1)))
	ctx := context.Background()

	reading, _ := sim.ReadSensors(ctx)
	assert.False(t, *reading.IsMixing)

	require.NoError(t, sim.SendCommand(ctx, models.CommandStartMixing))
	reading, _ = sim.ReadSensors(ctx)
	assert.True(t, *reading.IsMixing)

	require.NoError(t, sim.SendCommand(ctx, models.CommandPing))
	reading, _ = sim.ReadSensors(ctx)
	assert.True(t, *reading.IsMixing)

	require.NoError(t, sim.SendCommand(ctx, models.CommandStopMixing))
	reading, _ = sim.ReadSensors(ctx)
	assert.False(t, *reading.IsMixing)
}

func TestSimulator_Clamps(t *testing.T) {
	sim := NewSimulator(rand.New(rand.NewSource(3)))
	sim.moisture = moistureRange.max + 5

	reading, err := sim.ReadSensors(context.Background())
	require.NoError(t, err)
	assert.Equal(t, moistureRange.max, *reading.Moisture)
}
