package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/mamadbah2/concreto/internal/auth"
	"github.com/mamadbah2/concreto/internal/config"
	"github.com/mamadbah2/concreto/internal/device"
	"github.com/mamadbah2/concreto/internal/metrics"
	"github.com/mamadbah2/concreto/internal/repository/mongodb"
	"github.com/mamadbah2/concreto/internal/repository/sheets"
	"github.com/mamadbah2/concreto/internal/scheduler"
	"github.com/mamadbah2/concreto/internal/server/handlers"
	"github.com/mamadbah2/concreto/internal/server/router"
	commandsvc "github.com/mamadbah2/concreto/internal/service/commands"
	designsvc "github.com/mamadbah2/concreto/internal/service/design"
	exportsvc "github.com/mamadbah2/concreto/internal/service/export"
	mixersvc "github.com/mamadbah2/concreto/internal/service/mixer"
	"github.com/mamadbah2/concreto/internal/service/notification"
	reportingsvc "github.com/mamadbah2/concreto/internal/service/reporting"
	whatsappsvc "github.com/mamadbah2/concreto/internal/service/whatsapp"
	whatsappclient "github.com/mamadbah2/concreto/pkg/clients/whatsapp"
	"github.com/mamadbah2/concreto/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Server.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	location, err := cfg.Reporting.Location()
	if err != nil {
		baseLogger.Fatal("invalid reporting timezone", zap.Error(err))
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New(registry)

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStartup()

	mongoRepo, err := mongodb.NewMongoDBRepository(startupCtx, cfg.MongoDB.URI, cfg.MongoDB.DBName, cfg.MongoDB.Collection)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() {
		if err := mongoRepo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	var sheetsRepo sheets.Repository
	if cfg.Sheets.Enabled() {
		repo, err := sheets.NewGoogleSheetRepository(startupCtx, cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		sheetsRepo = repo
	} else {
		baseLogger.Warn("google sheets not configured, spreadsheet export disabled")
	}

	gateway, closeGateway, err := device.New(cfg.Device, appMetrics, baseLogger.Named("device"))
	if err != nil {
		baseLogger.Fatal("failed to init device gateway", zap.Error(err))
	}
	defer func() {
		if err := closeGateway(); err != nil {
			baseLogger.Error("failed to close device gateway", zap.Error(err))
		}
	}()

	var (
		notifier    notification.Notifier
		whatsClient *whatsappclient.APIClient
	)
	if cfg.WhatsApp.Enabled() {
		whatsClient = whatsappclient.NewClient(cfg.WhatsApp)
		notifier = notification.NewWhatsAppNotifier(whatsClient, cfg.WhatsApp.OperatorID, baseLogger.Named("notify.whatsapp"))
		baseLogger.Info("whatsapp notifications enabled")
	} else {
		notifier = notification.NewLogNotifier(baseLogger.Named("notify.log"))
		baseLogger.Warn("whatsapp not configured, notifications are logged only")
	}

	designSvc := designsvc.NewService(mongoRepo, gateway, appMetrics, baseLogger.Named("svc.design"))
	mixerSvc := mixersvc.NewService(gateway, notifier, appMetrics, cfg.Mixer.RunDuration, baseLogger.Named("svc.mixer"))
	exportSvc := exportsvc.NewService(designSvc, sheetsRepo, baseLogger.Named("svc.export"))
	reportingSvc := reportingsvc.NewService(mongoRepo, location, baseLogger.Named("svc.reporting"))
	tokens := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	deps := router.Deps{
		Mixes:    handlers.NewMixHandler(designSvc, exportSvc, baseLogger.Named("handlers.mixes")),
		Device:   handlers.NewDeviceHandler(gateway, mixerSvc, baseLogger.Named("handlers.device")),
		Auth:     tokens,
		Gatherer: registry,
	}
	if cfg.WhatsApp.WebhookEnabled() {
		commandDispatcher := commandsvc.NewService(mixerSvc, reportingSvc, baseLogger.Named("svc.commands"))
		messagingSvc := whatsappsvc.NewMetaWhatsAppService(cfg.WhatsApp, whatsClient, commandDispatcher, baseLogger.Named("svc.whatsapp"))
		deps.Webhook = handlers.NewWebhookHandler(messagingSvc, baseLogger.Named("handlers.whatsapp"))
		baseLogger.Info("whatsapp operator commands enabled")
	}
	engine := router.New(deps, baseLogger.Named("router"))

	// Initial connection status, like the operator console does on open.
	mixerSvc.Ping(startupCtx)

	sched := scheduler.NewScheduler(cfg.Reporting, location, mixerSvc, reportingSvc, notifier, baseLogger.Named("scheduler"))
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("device_mode", cfg.Device.Mode))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
