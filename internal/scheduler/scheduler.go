package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/concreto/internal/config"
	"github.com/mamadbah2/concreto/internal/service/notification"
)

const (
	tickSpec    = "@every 1s"
	tickTimeout = 5 * time.Second

	reportTimeout = 2 * time.Minute
)

// Ticker advances the active mixing run.
type Ticker interface {
	Tick(ctx context.Context)
}

// ReportGenerator renders the daily mix report.
type ReportGenerator interface {
	GenerateDailyReport(ctx context.Context, day time.Time) (string, error)
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron     *cron.Cron
	spec     string
	location *time.Location
	mixer    Ticker
	reports  ReportGenerator
	notifier notification.Notifier
	logger   *zap.Logger
	now      func() time.Time
}

// NewScheduler creates a new scheduler instance. Report times are interpreted in loc.
func NewScheduler(cfg config.ReportingConfig, loc *time.Location, mixer Ticker, reports ReportGenerator, notifier notification.Notifier, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}

	cl := cronLogger{logger: logger.Sugar()}
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl)),
	)

	return &Scheduler{
		cron:     c,
		spec:     cfg.CronSchedule,
		location: loc,
		mixer:    mixer,
		reports:  reports,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// Start registers the jobs and starts the scheduler.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler", zap.String("report_schedule", s.spec), zap.String("timezone", s.location.String()))

	if s.mixer != nil {
		// A slow device must not stack ticks.
		tick := cron.NewChain(cron.SkipIfStillRunning(cronLogger{logger: s.logger.Sugar()})).Then(cron.FuncJob(s.tickMixer))
		if _, err := s.cron.AddJob(tickSpec, tick); err != nil {
			return fmt.Errorf("schedule mixer tick: %w", err)
		}
	}

	if s.reports != nil {
		if _, err := s.cron.AddFunc(s.spec, s.sendDailyReport); err != nil {
			return fmt.Errorf("schedule daily report %q: %w", s.spec, err)
		}
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) tickMixer() {
	ctx, cancel := context.WithTimeout(context.Background(), tickTimeout)
	defer cancel()

	s.mixer.Tick(ctx)
}

func (s *Scheduler) sendDailyReport() {
	s.logger.Info("generating daily report")
	ctx, cancel := context.WithTimeout(context.Background(), reportTimeout)
	defer cancel()

	report, err := s.reports.GenerateDailyReport(ctx, s.now().In(s.location))
	if err != nil {
		s.logger.Error("failed to generate daily report", zap.Error(err))
		return
	}

	if s.notifier == nil {
		s.logger.Info("daily report", zap.String("report", report))
		return
	}

	if err := s.notifier.Notify(ctx, report); err != nil {
		s.logger.Error("failed to send daily report", zap.Error(err))
	} else {
		s.logger.Info("daily report sent successfully")
	}
}

// cronLogger routes cron's internal logging through zap.
type cronLogger struct {
	logger *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Errorw(msg, append(keysAndValues, "error", err)...)
}
