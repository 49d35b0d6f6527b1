package device

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/mamadbah2/concreto/internal/domain/models"
)

type sensorRange struct {
	min, max, step float64
}

var (
	moistureRange    = sensorRange{min: 8, max: 18, step: 0.1}
	temperatureRange = sensorRange{min: 22, max: 38, step: 0.1}
	loadCellRange    = sensorRange{min: 40, max: 70, step: 0.5}
)

const (
	defaultMoisture    = 12
	defaultTemperature = 32
	defaultLoadCell    = 55
)

// Simulator is an in-process stand-in for the mixer. Each read drifts the
// previous values by at most two steps and keeps them inside their range.
type Simulator struct {
	mu          sync.Mutex
	rng         *rand.Rand
	moisture    float64
	temperature float64
	loadCell    float64
	mixing      bool
}

// NewSimulator creates a simulator. A nil rng gets a time-seeded source.
func NewSimulator(rng *rand.Rand) *Simulator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Simulator{
		rng:         rng,
		moisture:    defaultMoisture,
		temperature: defaultTemperature,
		loadCell:    defaultLoadCell,
	}
}

// SendCommand always succeeds and tracks the mixing flag.
func (s *Simulator) SendCommand(_ context.Context, cmd models.DeviceCommand) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch cmd {
	case models.CommandStartMixing:
		s.mixing = true
	case models.CommandStopMixing:
		s.mixing = false
	}
	return nil
}

// ReadSensors advances the simulated values and returns them.
func (s *Simulator) ReadSensors(_ context.Context) (models.SensorReading, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.moisture = s.drift(s.moisture, moistureRange)
	s.temperature = s.drift(s.temperature, temperatureRange)
	s.loadCell = s.drift(s.loadCell, loadCellRange)

	moisture, temperature, loadCell, mixing := s.moisture, s.temperature, s.loadCell, s.mixing
	return models.SensorReading{
		Moisture:    &moisture,
		Temperature: &temperature,
		LoadCell:    &loadCell,
		IsMixing:    &mixing,
	}, nil
}

func (s *Simulator) drift(current float64, r sensorRange) float64 {
	next := current + (s.rng.Float64()-0.5)*4*r.step
	if next < r.min {
		next = r.min
	}
	if next > r.max {
		next = r.max
	}
	return math.Round(next*10) / 10
}
