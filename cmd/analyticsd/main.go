package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bibbank/savings-analytics/internal/application/usecase"
	"github.com/bibbank/savings-analytics/internal/domain/port"
	"github.com/bibbank/savings-analytics/internal/domain/service"
	"github.com/bibbank/savings-analytics/internal/infrastructure/config"
	"github.com/bibbank/savings-analytics/internal/infrastructure/kafka"
	"github.com/bibbank/savings-analytics/internal/infrastructure/messaging"
	"github.com/bibbank/savings-analytics/internal/infrastructure/validation"
	grpcPresentation "github.com/bibbank/savings-analytics/internal/presentation/grpc"
	"github.com/bibbank/savings-analytics/internal/presentation/rest"
	"github.com/bibbank/savings-analytics/pkg/auth"
	pkgkafka "github.com/bibbank/savings-analytics/pkg/kafka"
	"github.com/bibbank/savings-analytics/pkg/observability"
	"github.com/bibbank/savings-analytics/pkg/tlsutil"
)

func main() {
	configFile := flag.String("config", os.Getenv("CONFIG_FILE"), "optional configuration file (yaml, json or toml)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Load configuration.
	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Initialize structured logger via shared observability package.
	logger := observability.InitLogger(observability.LogConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	slog.SetDefault(logger)

	logger.Info("starting "+cfg.ServiceName,
		"version", cfg.Version,
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
	)

	// Initialize tracing.
	if cfg.Tracing.Endpoint != "" {
		shutdown, err := observability.InitTracer(ctx, observability.TracingConfig{
			ServiceName: cfg.ServiceName,
			Endpoint:    cfg.Tracing.Endpoint,
			Insecure:    cfg.Tracing.Insecure,
		})
		if err != nil {
			logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
		} else {
			defer func() { _ = shutdown(context.Background()) }() //nolint:errcheck // best-effort tracer shutdown
		}
	}

	// Initialize metrics.
	metrics, err := observability.InitMetrics(observability.MetricsConfig{ServiceName: cfg.ServiceName})
	if err != nil {
		logger.Error("failed to initialize metrics", "error", err)
		os.Exit(1)
	}
	defer func() { _ = metrics.Shutdown(context.Background()) }() //nolint:errcheck // best-effort flush

	// Alert events go to Kafka when enabled, otherwise to the log.
	var publisher port.EventPublisher
	if cfg.Kafka.Enabled {
		producer, err := pkgkafka.NewProducer(pkgkafka.Config{
			ClientID:      cfg.Kafka.ClientID,
			Brokers:       cfg.Kafka.Brokers,
			TLS:           cfg.Kafka.TLS,
			SASLEnabled:   cfg.Kafka.SASLEnabled,
			SASLMechanism: cfg.Kafka.SASLMechanism,
			SASLUsername:  cfg.Kafka.SASLUsername,
			SASLPassword:  cfg.Kafka.SASLPassword,
		})
		if err != nil {
			logger.Error("failed to create kafka producer", "error", err)
			os.Exit(1)
		}
		defer producer.Close()
		publisher = kafka.NewEventPublisher(producer, cfg.Kafka.Topic, logger)
		logger.Info("publishing alert events to kafka", "topic", cfg.Kafka.Topic)
	} else {
		publisher = messaging.NewLogPublisher(logger)
	}

	// Wire engines and use cases.
	policies := cfg.Policies
	risk := service.NewRiskEngine(policies.Risk, policies.Limits)
	health := service.NewHealthEngine(policies.Health)
	projection := service.NewProjectionEngine(policies.Projection, policies.Limits)
	ranking := service.NewRankingEngine(policies.Ranking, policies.Limits)
	aggregator := service.NewAggregator(health, risk, projection, policies.Alerts, policies.Limits)

	validator := validation.New()
	clock := usecase.Clock(time.Now)
	services := usecase.Services{
		Risk:       usecase.NewRiskUseCase(risk, validator),
		Health:     usecase.NewHealthUseCase(health, validator, clock),
		Ranking:    usecase.NewRankingUseCase(ranking, validator),
		Projection: usecase.NewProjectionUseCase(projection, validator, clock),
		Analytics:  usecase.NewAnalyticsUseCase(aggregator, publisher, validator, clock, cfg.DefaultHorizon, logger),
		Status:     usecase.NewStatusUseCase(cfg.ServiceName, cfg.Version),
	}

	verifier, err := newVerifier(cfg.Auth)
	if err != nil {
		logger.Error("failed to initialize authentication", "error", err)
		os.Exit(1)
	}

	tlsCfg := tlsutil.ServerConfig{
		CertFile:     cfg.TLS.CertFile,
		KeyFile:      cfg.TLS.KeyFile,
		ClientCAFile: cfg.TLS.ClientCAFile,
	}

	// gRPC server.
	grpcServer, err := grpcPresentation.NewServer(
		grpcPresentation.NewAnalyticsHandler(services, logger),
		verifier,
		metrics,
		grpcPresentation.ServerConfig{
			ServiceName: cfg.ServiceName,
			TLS:         tlsCfg,
			Reflection:  cfg.Reflection,
		},
		logger,
	)
	if err != nil {
		logger.Error("failed to create gRPC server", "error", err)
		os.Exit(1)
	}

	// HTTP server.
	router := rest.NewRouter(rest.RouterConfig{
		Analytics: rest.NewAnalyticsHandler(services, logger),
		Health:    rest.NewHealthHandler(cfg.ServiceName, cfg.Version, logger),
		Verifier:  verifier,
		Metrics:   metrics,
		Limiter:   rest.NewLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
		Logger:    logger,
	})
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}
	if tlsCfg.Enabled() {
		httpServer.TLSConfig, err = tlsutil.ServerTLS(tlsCfg)
		if err != nil {
			logger.Error("failed to load HTTP TLS configuration", "error", err)
			os.Exit(1)
		}
	}

	// Start servers.
	errCh := make(chan error, 2)

	go func() {
		if err := grpcServer.Serve(cfg.GRPCAddr()); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	go func() {
		logger.Info("HTTP server starting", "port", cfg.HTTPPort, "tls", httpServer.TLSConfig != nil)
		var err error
		if httpServer.TLSConfig != nil {
			err = httpServer.ListenAndServeTLS("", "")
		} else {
			err = httpServer.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Wait for shutdown signal.
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		logger.Error("server error", "error", err)
	}

	// Graceful shutdown.
	grpcServer.GracefulStop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info(cfg.ServiceName + " stopped")
}

// newVerifier accepts the backend's shared token and, when configured,
// JWTs issued to analysts. The backend token carries the backend role.
func newVerifier(cfg config.AuthConfig) (auth.Verifier, error) {
	var chain auth.ChainVerifier

	if cfg.Token != "" {
		static, err := auth.NewStaticTokenVerifier(cfg.Token, "backend", auth.RoleBackend)
		if err != nil {
			return nil, err
		}
		chain = append(chain, static)
	}

	if cfg.JWTPublicKey != "" || cfg.JWTSecret != "" {
		jwtVerifier, err := auth.NewJWTVerifier(auth.JWTConfig{
			Secret:       cfg.JWTSecret,
			PublicKeyPEM: cfg.JWTPublicKey,
			Issuer:       cfg.JWTIssuer,
			Audience:     cfg.JWTAudience,
			Leeway:       cfg.JWTLeeway,
		})
		if err != nil {
			return nil, fmt.Errorf("jwt: %w", err)
		}
		chain = append(chain, jwtVerifier)
	}

	if len(chain) == 0 {
		return nil, errors.New("no authentication method configured")
	}
	return chain, nil
}
