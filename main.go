package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/fenilmodi00/shadowtrace-backend/config"
	"github.com/fenilmodi00/shadowtrace-backend/handlers"
	"github.com/fenilmodi00/shadowtrace-backend/jobs"
	"github.com/fenilmodi00/shadowtrace-backend/services"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Load config
	cfg := config.LoadConfig()
	appConfig, err := cfg.Unified()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	config.ConfigureLogging(appConfig.Logging)
	if effective, err := appConfig.ToJSON(); err == nil {
		logrus.WithField("component", "main").Debugf("Effective configuration:\n%s", effective)
	}

	// Lookup pipeline: simulator behind the guarded backend seam
	simulator := services.NewLookupSimulator(appConfig.Lookup.SimulatedLatency)
	lookupService := services.NewGuardedLookupService(
		simulator,
		appConfig.Lookup.Timeout,
		appConfig.Lookup.MaxFailureRate,
	)

	sessionManager := services.NewSessionManager(lookupService, services.SessionOptions{
		HistoryLimit:      appConfig.Session.HistoryLimit,
		NotificationLimit: appConfig.Session.NotificationLimit,
		Notifier:          services.LogNotifier{},
	}, appConfig.Session.MaxSessions)
	presenter := services.NewResultPresenter(services.SystemClipboard{}, appConfig.Export.Directory)

	logrus.WithFields(logrus.Fields{
		"simulated_latency": simulator.Latency(),
		"lookup_timeout":    appConfig.Lookup.Timeout,
		"history_limit":     appConfig.Session.HistoryLimit,
		"max_sessions":      appConfig.Session.MaxSessions,
		"session_idle_ttl":  appConfig.Session.IdleTTL,
		"export_dir":        appConfig.Export.Directory,
	}).Info("Lookup services initialized")

	// Initialize Jobs
	cleanupJob := jobs.NewSessionCleanupJob(sessionManager, appConfig.Session.IdleTTL)
	metricsJob := jobs.NewMetricsSummaryJob(lookupService.Metrics(), appConfig.Lookup.MaxFailureRate*100)

	// Initialize handlers
	app := handlers.NewApp(
		handlers.NewSessionHandler(sessionManager, presenter),
		handlers.NewCatalogHandler(),
		handlers.NewStatsHandler(lookupService.Metrics(), lookupService.Breaker(), sessionManager),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return jobs.RunEvery(groupCtx, appConfig.Session.CleanupInterval, cleanupJob)
	})
	if appConfig.Service.EnableMetrics {
		group.Go(func() error {
			return jobs.RunEvery(groupCtx, appConfig.Service.MetricsInterval, metricsJob)
		})
	}

	group.Go(func() error {
		logrus.Printf("Server starting on port %s", appConfig.Service.Port)
		return app.Listen(":" + appConfig.Service.Port)
	})

	group.Go(func() error {
		<-groupCtx.Done()
		logrus.Info("Shutting down server")
		return app.ShutdownWithTimeout(appConfig.Service.ShutdownTimeout)
	})

	if err := group.Wait(); err != nil {
		logrus.Fatalf("Server stopped with error: %v", err)
	}
	logrus.Info("Server stopped")
}
