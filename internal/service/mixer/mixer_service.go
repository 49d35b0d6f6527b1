package mixer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/concreto/internal/device"
	"github.com/mamadbah2/concreto/internal/domain/models"
	"github.com/mamadbah2/concreto/internal/metrics"
	"github.com/mamadbah2/concreto/internal/service/notification"
)

var (
	// ErrAlreadyMixing is returned when a run is started while another one is active.
	ErrAlreadyMixing = errors.New("mixer is already running")
	// ErrNotMixing is returned when stopping an idle mixer.
	ErrNotMixing = errors.New("mixer is not running")
	// ErrDeviceUnavailable wraps gateway failures while starting a run.
	ErrDeviceUnavailable = errors.New("failed to connect to the mixer")
)

// Run outcome label values.
const (
	outcomeCompleted = "completed"
	outcomeStopped   = "stopped"
	outcomeFailed    = "failed"
)

// Service controls mixing runs on the device and tracks their progress.
type Service struct {
	gateway  device.Gateway
	notifier notification.Notifier
	metrics  *metrics.Metrics
	duration time.Duration
	logger   *zap.Logger
	now      func() time.Time

	mu         sync.Mutex
	run        *models.MixingRun
	connection models.ConnectionStatus
}

// NewService builds a mixer controller. Runs last for duration before the
// controller stops them on its own.
func NewService(gateway device.Gateway, notifier notification.Notifier, m *metrics.Metrics, duration time.Duration, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if m == nil {
		m = metrics.Nop()
	}
	if notifier == nil {
		notifier = notification.NewLogNotifier(logger)
	}
	return &Service{
		gateway:    gateway,
		notifier:   notifier,
		metrics:    m,
		duration:   duration,
		logger:     logger,
		now:        time.Now,
		connection: models.ConnectionDisconnected,
	}
}

// Start sends START_MIXING and begins a new run.
func (s *Service) Start(ctx context.Context) (models.MixingRun, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.run != nil {
		return models.MixingRun{}, ErrAlreadyMixing
	}

	s.connection = models.ConnectionConnecting
	if err := s.gateway.SendCommand(ctx, models.CommandStartMixing); err != nil {
		s.connection = models.ConnectionDisconnected
		s.metrics.MixingRuns.WithLabelValues(outcomeFailed).Inc()
		return models.MixingRun{}, fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}

	s.connection = models.ConnectionConnected
	s.run = &models.MixingRun{
		ID:        uuid.NewString(),
		StartedAt: s.now(),
		Duration:  s.duration,
	}

	s.logger.Info("mixing run started", zap.String("run_id", s.run.ID), zap.Duration("duration", s.duration))
	return *s.run, nil
}

// Stop cancels the active run and sends STOP_MIXING. The run is cleared even if
// the device does not acknowledge, so the operator is never locked out.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.run == nil {
		return ErrNotMixing
	}

	run := s.run
	s.run = nil
	s.metrics.MixingRuns.WithLabelValues(outcomeStopped).Inc()

	if err := s.gateway.SendCommand(ctx, models.CommandStopMixing); err != nil {
		s.connection = models.ConnectionDisconnected
		s.logger.Warn("stop command failed", zap.String("run_id", run.ID), zap.Error(err))
		return fmt.Errorf("stop mixing: %w", err)
	}

	s.logger.Info("mixing run stopped", zap.String("run_id", run.ID), zap.Int("progress", s.progressLocked(run)))
	return nil
}

// Ping checks the device and records the connection status.
func (s *Service) Ping(ctx context.Context) models.ConnectionStatus {
	err := s.gateway.SendCommand(ctx, models.CommandPing)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.connection = models.ConnectionDisconnected
	} else {
		s.connection = models.ConnectionConnected
	}
	return s.connection
}

// Status reports the current run, its progress and the device connection.
func (s *Service) Status() models.MixerStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := models.MixerStatus{Connection: s.connection}
	if s.run != nil {
		run := *s.run
		status.Mixing = true
		status.Run = &run
		status.Progress = s.progressLocked(s.run)
	}
	return status
}

// Tick completes the active run once its duration has elapsed. It is driven by the scheduler.
func (s *Service) Tick(ctx context.Context) {
	s.mu.Lock()
	if s.run == nil || s.progressLocked(s.run) < 100 {
		s.mu.Unlock()
		return
	}

	run := s.run
	s.run = nil
	s.metrics.MixingRuns.WithLabelValues(outcomeCompleted).Inc()
	if err := s.gateway.SendCommand(ctx, models.CommandStopMixing); err != nil {
		s.connection = models.ConnectionDisconnected
		s.logger.Warn("auto-stop command failed", zap.String("run_id", run.ID), zap.Error(err))
	}
	s.mu.Unlock()

	s.logger.Info("mixing run completed", zap.String("run_id", run.ID))
	message := fmt.Sprintf("Mixing run %s completed after %s.", run.ID[:8], run.Duration)
	if err := s.notifier.Notify(ctx, message); err != nil {
		s.logger.Warn("completion notification failed", zap.Error(err))
	}
}

func (s *Service) progressLocked(run *models.MixingRun) int {
	if run.Duration <= 0 {
		return 100
	}
	elapsed := s.now().Sub(run.StartedAt)
	if elapsed <= 0 {
		return 0
	}
	progress := int(elapsed * 100 / run.Duration)
	if progress > 100 {
		return 100
	}
	return progress
}
