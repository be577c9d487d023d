package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/otel"
	"golang.org/x/time/rate"

	"github.com/bibbank/credit-service/internal/application/usecase"
	"github.com/bibbank/credit-service/internal/domain/port"
	"github.com/bibbank/credit-service/internal/domain/service"
	"github.com/bibbank/credit-service/internal/infrastructure/cache"
	"github.com/bibbank/credit-service/internal/infrastructure/config"
	"github.com/bibbank/credit-service/internal/infrastructure/ingest"
	"github.com/bibbank/credit-service/internal/infrastructure/messaging"
	"github.com/bibbank/credit-service/internal/infrastructure/metrics"
	pgRepo "github.com/bibbank/credit-service/internal/infrastructure/persistence/postgres"
	grpcPresentation "github.com/bibbank/credit-service/internal/presentation/grpc"
	"github.com/bibbank/credit-service/internal/presentation/rest"
	pkgkafka "github.com/bibbank/credit-service/pkg/kafka"
	"github.com/bibbank/credit-service/pkg/observability"
	pkgpostgres "github.com/bibbank/credit-service/pkg/postgres"
)

const ingestTimeout = 30 * time.Minute

func main() {
	cfg := config.Load()

	logger := observability.InitLogger(observability.LogConfig{
		Level:   cfg.Observability.LogLevel,
		Format:  cfg.Observability.LogFormat,
		Service: cfg.ServiceName,
	})

	if err := run(cfg, logger); err != nil {
		logger.Error("credit-service stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("credit-service stopped")
}

func run(cfg config.Config, logger *slog.Logger) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Info("starting credit-service",
		"http_addr", cfg.HTTPAddr(),
		"grpc_addr", cfg.GRPCAddr(),
		"metrics_addr", cfg.MetricsAddr(),
	)

	// Tracing is optional; without an endpoint spans go to the no-op provider.
	if cfg.Observability.OTLPEndpoint != "" {
		shutdown, err := observability.InitTracer(ctx, observability.TracingConfig{
			ServiceName: cfg.ServiceName,
			Endpoint:    cfg.Observability.OTLPEndpoint,
			Insecure:    cfg.Observability.OTLPInsecure,
			SampleRatio: cfg.Observability.SampleRatio,
		})
		if err != nil {
			logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
		} else {
			defer func() { _ = shutdown(context.Background()) }()
		}
	}

	meterProvider, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{ServiceName: cfg.ServiceName})
	if err != nil {
		return err
	}
	defer func() { _ = meterProvider.Shutdown(context.Background()) }()
	otel.SetMeterProvider(meterProvider)

	// Database connection and schema.
	pgCfg := cfg.DB.Postgres(cfg.ServiceName)
	dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
	defer dbCancel()

	pool, err := pkgpostgres.NewPool(dbCtx, pgCfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()
	logger.Info("connected to database")

	if err := pkgpostgres.RunMigrations(pgCfg.DSN(), cfg.DB.MigrationsSource, logger); err != nil {
		return err
	}

	// Infrastructure adapters.
	producer, err := pkgkafka.NewProducer(cfg.Kafka.Producer())
	if err != nil {
		return fmt.Errorf("create kafka producer: %w", err)
	}
	defer producer.Close()
	publisher := messaging.NewKafkaEventPublisher(producer, cfg.Kafka.Topic, logger)

	checks := map[string]rest.Pinger{"postgres": pool}

	var customers port.CustomerRepository = pgRepo.NewCustomerRepo(pool)
	if cfg.Redis.Enabled() {
		store := cache.NewRedisStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		defer store.Close()
		customers = cache.NewCustomerCache(customers, store, cfg.Redis.TTL, logger)
		checks["redis"] = store
		logger.Info("customer cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.TTL)
	}
	loans := pgRepo.NewLoanRepo(pool)
	snapshots := pgRepo.NewSnapshotReader(pool)

	recorder, err := metrics.NewDecisionRecorder(meterProvider.Meter("github.com/bibbank/credit-service"))
	if err != nil {
		return err
	}
	decider := service.NewEligibilityDecider(service.NewCreditScorer())
	clock := usecase.Clock(usecase.SystemClock)

	// Use cases.
	uc := usecase.Set{
		RegisterCustomer:  usecase.NewRegisterCustomerUseCase(customers, publisher, logger, clock),
		CheckEligibility:  usecase.NewCheckEligibilityUseCase(snapshots, decider, recorder, publisher, logger, clock),
		CreateLoan:        usecase.NewCreateLoanUseCase(snapshots, decider, recorder, loans, publisher, logger, clock),
		ViewLoan:          usecase.NewViewLoanUseCase(loans, customers, clock),
		ListCustomerLoans: usecase.NewListCustomerLoansUseCase(customers, loans, clock),
		RecordRepayment:   usecase.NewRecordRepaymentUseCase(loans, publisher, logger, clock),
	}

	// Scheduled ingestion.
	if cfg.Ingest.Schedule != "" {
		importer := ingest.NewImporter(
			usecase.NewIngestRecordsUseCase(customers, loans, logger, clock),
			cfg.Ingest.CustomersFile, cfg.Ingest.LoansFile, logger,
		)
		scheduler, err := ingest.NewScheduler(cfg.Ingest.Schedule, importer, ingestTimeout, logger)
		if err != nil {
			return err
		}
		scheduler.Start()
		defer func() {
			stopCtx, stopCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
			defer stopCancel()
			scheduler.Stop(stopCtx)
		}()
	}

	// gRPC server.
	grpcServer, err := grpcPresentation.NewServer(
		grpcPresentation.NewCreditHandler(uc, logger),
		logger,
		grpcPresentation.ServerOptions{TLS: cfg.TLS, Reflection: cfg.GRPCReflection},
	)
	if err != nil {
		return err
	}

	// HTTP servers: the REST API and a separate metrics listener.
	var limiter *rate.Limiter
	if cfg.HTTP.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.HTTP.RateLimit), cfg.HTTP.RateBurst)
	}
	router := rest.NewRouter(
		rest.NewCreditHandler(uc, logger),
		rest.NewHealthHandler(cfg.ServiceName, checks),
		limiter,
		logger,
	)
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", metricsHandler)
	metricsServer := &http.Server{
		Addr:              cfg.MetricsAddr(),
		Handler:           metricsMux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start servers.
	errCh := make(chan error, 3)

	go func() {
		if err := grpcServer.Serve(cfg.GRPCAddr()); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	for _, srv := range []*http.Server{httpServer, metricsServer} {
		go func() {
			logger.Info("HTTP server starting", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("HTTP server %s error: %w", srv.Addr, err)
			}
		}()
	}

	// Wait for shutdown signal.
	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case runErr = <-errCh:
		logger.Error("server error", "error", runErr)
	}

	// Graceful shutdown.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer shutdownCancel()

	for _, srv := range []*http.Server{httpServer, metricsServer} {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", "addr", srv.Addr, "error", err)
		}
	}
	grpcServer.GracefulStop()

	return runErr
}
