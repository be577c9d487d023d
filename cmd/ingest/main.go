// Command ingest loads the legacy customer and loan CSV exports into the
// credit store. Rows whose IDs already exist are left untouched, so the
// command can be re-run safely.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bibbank/credit-service/internal/application/usecase"
	"github.com/bibbank/credit-service/internal/infrastructure/config"
	"github.com/bibbank/credit-service/internal/infrastructure/ingest"
	pgRepo "github.com/bibbank/credit-service/internal/infrastructure/persistence/postgres"
	"github.com/bibbank/credit-service/pkg/observability"
	pkgpostgres "github.com/bibbank/credit-service/pkg/postgres"
)

func main() {
	cfg := config.Load()

	customersFile := flag.String("customers", cfg.Ingest.CustomersFile, "customer CSV export")
	loansFile := flag.String("loans", cfg.Ingest.LoansFile, "loan CSV export")
	migrate := flag.Bool("migrate", true, "apply pending migrations first")
	flag.Parse()

	logger := observability.InitLogger(observability.LogConfig{
		Level:   cfg.Observability.LogLevel,
		Format:  cfg.Observability.LogFormat,
		Service: "credit-ingest",
	})

	if *customersFile == "" || *loansFile == "" {
		fmt.Fprintln(os.Stderr, "both -customers and -loans (or INGEST_CUSTOMERS_FILE and INGEST_LOANS_FILE) are required")
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	pgCfg := cfg.DB.Postgres("credit-ingest")
	pool, err := pkgpostgres.NewPool(ctx, pgCfg)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if *migrate {
		if err := pkgpostgres.RunMigrations(pgCfg.DSN(), cfg.DB.MigrationsSource, logger); err != nil {
			logger.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
	}

	records := usecase.NewIngestRecordsUseCase(
		pgRepo.NewCustomerRepo(pool),
		pgRepo.NewLoanRepo(pool),
		logger,
		usecase.SystemClock,
	)
	report, err := ingest.NewImporter(records, *customersFile, *loansFile, logger).Run(ctx)
	if err != nil {
		logger.Error("ingestion failed", "error", err)
		os.Exit(1)
	}

	_ = json.NewEncoder(os.Stdout).Encode(report)
}
