package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/ymtools/ivrdir/internal/logger"
	"github.com/ymtools/ivrdir/pkg/activity"
	"github.com/ymtools/ivrdir/pkg/api"
	"github.com/ymtools/ivrdir/pkg/api/auth"
	"github.com/ymtools/ivrdir/pkg/config"
	"github.com/ymtools/ivrdir/pkg/directory"
	"github.com/ymtools/ivrdir/pkg/metrics"
	"github.com/ymtools/ivrdir/pkg/metrics/prometheus"
	"github.com/ymtools/ivrdir/pkg/overlay"
	"github.com/ymtools/ivrdir/pkg/users"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (default: "+config.GetDefaultConfigPath()+")")
	logLevel := flag.String("log-level", "", "Override log level (DEBUG, INFO, WARN, ERROR)")
	port := flag.Int("port", 0, "Override listen port")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}

	logger.SetLevel(cfg.Logging.Level)
	logger.SetFormat(cfg.Logging.Format)
	if err := logger.SetOutput(cfg.Logging.Output); err != nil {
		log.Fatalf("Failed to configure log output: %v", err)
	}

	fmt.Println("ivrdir - Virtual IVR Directory Service")
	logger.Info("Log level set to: %s", cfg.Logging.Level)

	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		logger.Info("Prometheus metrics enabled")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	blobs, err := config.CreateBlobStore(ctx, &cfg.Blob)
	if err != nil {
		log.Fatalf("Failed to create blob store: %v", err)
	}
	defer func() {
		if err := blobs.Close(); err != nil {
			logger.Error("Failed to close blob store: %v", err)
		}
	}()

	baselineSource, err := config.CreateBaselineSource(&cfg.Baseline)
	if err != nil {
		log.Fatalf("Failed to load baseline dataset: %v", err)
	}

	remoteSource, err := config.CreateRemoteSource(&cfg.Remote)
	if err != nil {
		log.Fatalf("Failed to configure remote source: %v", err)
	}

	overlayStore := overlay.Load(ctx, blobs)
	activityLog := activity.Load(ctx, blobs)

	userStore, err := users.Load(ctx, blobs)
	if err != nil {
		log.Fatalf("Failed to load user accounts: %v", err)
	}

	serviceCfg := directory.ServiceConfig{
		Baseline: baselineSource,
		Overlay:  overlayStore,
		Metrics:  prometheus.NewDirectoryMetrics(),
	}
	// A typed nil must not end up behind the interface fields.
	if remoteSource != nil {
		serviceCfg.Remote = remoteSource
		serviceCfg.Validator = remoteSource
		logger.Info("Remote directory source configured: %s", cfg.Remote.Endpoint)
	} else {
		logger.Info("No remote credential configured, serving baseline dataset")
	}
	service := directory.NewService(serviceCfg)

	jwtService, err := auth.NewJWTService(auth.JWTConfig{
		Secret:        cfg.Auth.JWTSecret,
		Issuer:        cfg.Auth.Issuer,
		TokenDuration: cfg.Auth.TokenDuration,
	})
	if err != nil {
		log.Fatalf("Failed to create JWT service: %v", err)
	}

	router := api.NewRouter(api.RouterDeps{
		Service:    service,
		Users:      userStore,
		Activity:   activityLog,
		JWTService: jwtService,
	})

	server := api.NewServer(api.ServerConfig{
		Host:            cfg.Server.Host,
		Port:            cfg.Server.Port,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		IdleTimeout:     cfg.Server.IdleTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, router)

	logger.Info("Server is running on %s:%d. Press Ctrl+C to stop.", cfg.Server.Host, cfg.Server.Port)
	if err := server.Serve(ctx); err != nil {
		log.Fatalf("Server error: %v", err)
	}

	logger.Info("Shutting down server...")
}
