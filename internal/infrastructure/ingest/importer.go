package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/bibbank/credit-service/internal/application/dto"
)

// RecordImporter stores parsed records. It is satisfied by
// usecase.IngestRecordsUseCase.
type RecordImporter interface {
	ImportCustomers(ctx context.Context, records []dto.CustomerRecord) (dto.IngestReport, error)
	ImportLoans(ctx context.Context, records []dto.LoanRecord) (dto.IngestReport, error)
}

// Importer loads the customer and loan exports from disk. Customers are
// always imported before loans so loan rows can resolve their owner.
type Importer struct {
	records       RecordImporter
	logger        *slog.Logger
	customersFile string
	loansFile     string
}

// NewImporter creates an importer for the two export files.
func NewImporter(records RecordImporter, customersFile, loansFile string, logger *slog.Logger) *Importer {
	return &Importer{
		records:       records,
		logger:        logger,
		customersFile: customersFile,
		loansFile:     loansFile,
	}
}

// Run imports both files and returns the combined report. Unparseable rows
// are counted as failed.
func (im *Importer) Run(ctx context.Context) (dto.IngestReport, error) {
	customers, err := im.ImportCustomersFile(ctx)
	if err != nil {
		return customers, err
	}
	loans, err := im.ImportLoansFile(ctx)
	report := customers.Add(loans)
	if err != nil {
		return report, err
	}

	im.logger.InfoContext(ctx, "ingestion finished",
		"created", report.Created,
		"skipped", report.Skipped,
		"failed", report.Failed,
	)
	return report, nil
}

// ImportCustomersFile imports the customer export only.
func (im *Importer) ImportCustomersFile(ctx context.Context) (dto.IngestReport, error) {
	f, err := os.Open(im.customersFile)
	if err != nil {
		return dto.IngestReport{}, fmt.Errorf("open customers file: %w", err)
	}
	defer f.Close()

	parsed, err := ReadCustomers(f, im.logger)
	if err != nil {
		return dto.IngestReport{}, fmt.Errorf("read customers file %s: %w", im.customersFile, err)
	}
	report, err := im.records.ImportCustomers(ctx, parsed.Records)
	report.Failed += parsed.Failed
	if err != nil {
		return report, fmt.Errorf("import customers: %w", err)
	}
	return report, nil
}

// ImportLoansFile imports the loan export only.
func (im *Importer) ImportLoansFile(ctx context.Context) (dto.IngestReport, error) {
	f, err := os.Open(im.loansFile)
	if err != nil {
		return dto.IngestReport{}, fmt.Errorf("open loans file: %w", err)
	}
	defer f.Close()

	parsed, err := ReadLoans(f, im.logger)
	if err != nil {
		return dto.IngestReport{}, fmt.Errorf("read loans file %s: %w", im.loansFile, err)
	}
	report, err := im.records.ImportLoans(ctx, parsed.Records)
	report.Failed += parsed.Failed
	if err != nil {
		return report, fmt.Errorf("import loans: %w", err)
	}
	return report, nil
}
