package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/concreto/internal/domain/mix"
	"github.com/mamadbah2/concreto/internal/domain/models"
)

// ErrInvalidArguments indicates the command payload could not be parsed.
var ErrInvalidArguments = errors.New("invalid command arguments")

// ErrUnsupportedCommand indicates we do not support the requested command.
var ErrUnsupportedCommand = errors.New("unsupported command")

// HelpText lists the commands accepted over chat.
const HelpText = "Commands: status, start, stop, ping, report, balance <cement> <sand> <water>."

// MixerController is the part of the mixer service driven from chat.
type MixerController interface {
	Start(ctx context.Context) (models.MixingRun, error)
	Stop(ctx context.Context) error
	Ping(ctx context.Context) models.ConnectionStatus
	Status() models.MixerStatus
}

// ReportGenerator renders the daily mix report.
type ReportGenerator interface {
	GenerateDailyReport(ctx context.Context, day time.Time) (string, error)
}

// Dispatcher executes parsed operator commands and returns the reply text.
type Dispatcher interface {
	HandleCommand(ctx context.Context, cmd models.Command, sender string) (string, error)
}

// Service implements the Dispatcher interface.
type Service struct {
	mixer     MixerController
	reporting ReportGenerator
	logger    *zap.Logger
	now       func() time.Time
}

// NewService constructs a command dispatcher.
func NewService(mixer MixerController, reporting ReportGenerator, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		mixer:     mixer,
		reporting: reporting,
		logger:    logger,
		now:       time.Now,
	}
}

// HandleCommand runs the command and describes the outcome.
func (s *Service) HandleCommand(ctx context.Context, cmd models.Command, sender string) (string, error) {
	s.logger.Debug("dispatching command", zap.String("command", string(cmd.Type)), zap.String("sender", sender), zap.Strings("args", cmd.Args))

	switch cmd.Type {
	case models.CommandStatus:
		return formatStatus(s.mixer.Status()), nil
	case models.CommandStart:
		run, err := s.mixer.Start(ctx)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Mixing started, run %s will finish in %s.", shortID(run.ID), run.Duration), nil
	case models.CommandStop:
		if err := s.mixer.Stop(ctx); err != nil {
			return "", err
		}
		return "Mixing stopped.", nil
	case models.CommandPingMixer:
		return "Mixer is " + string(s.mixer.Ping(ctx)) + ".", nil
	case models.CommandReport:
		if s.reporting == nil {
			return "", ErrUnsupportedCommand
		}
		return s.reporting.GenerateDailyReport(ctx, s.now())
	case models.CommandBalance:
		return s.balance(cmd)
	case models.CommandHelp:
		return HelpText, nil
	default:
		return "", ErrUnsupportedCommand
	}
}

func (s *Service) balance(cmd models.Command) (string, error) {
	if len(cmd.Args) != 3 {
		return "", fmt.Errorf("%w: balance needs cement, sand and water", ErrInvalidArguments)
	}

	values := make([]float64, 3)
	for i, arg := range cmd.Args {
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil || v < 0 {
			return "", fmt.Errorf("%w: %q is not a percentage", ErrInvalidArguments, arg)
		}
		values[i] = v
	}

	balanced, err := mix.Balance(models.MixComposition{Cement: values[0], Sand: values[1], Water: values[2]})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Balanced mix: cement %g%%, sand %g%%, water %g%%.", balanced.Cement, balanced.Sand, balanced.Water), nil
}

func formatStatus(st models.MixerStatus) string {
	if !st.Mixing {
		return fmt.Sprintf("Mixer idle (%s).", st.Connection)
	}
	return fmt.Sprintf("Mixing: %d%% done (%s).", st.Progress, st.Connection)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
