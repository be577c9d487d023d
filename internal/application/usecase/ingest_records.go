package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/bibbank/credit-service/internal/application/dto"
	"github.com/bibbank/credit-service/internal/domain/model"
	"github.com/bibbank/credit-service/internal/domain/port"
)

// IngestRecordsUseCase imports customers and loans from a legacy source with
// get-or-create semantics: an ID that already exists is left untouched. A
// failing row is logged and counted, never fatal to the batch.
type IngestRecordsUseCase struct {
	customers port.CustomerRepository
	loans     port.LoanRepository
	logger    *slog.Logger
	clock     Clock
}

// NewIngestRecordsUseCase wires dependencies.
func NewIngestRecordsUseCase(
	customers port.CustomerRepository,
	loans port.LoanRepository,
	logger *slog.Logger,
	clock Clock,
) *IngestRecordsUseCase {
	return &IngestRecordsUseCase{
		customers: customers,
		loans:     loans,
		logger:    logger,
		clock:     clock,
	}
}

// ImportCustomers stores each record whose customer ID is new.
func (uc *IngestRecordsUseCase) ImportCustomers(ctx context.Context, records []dto.CustomerRecord) (dto.IngestReport, error) {
	ctx, span := tracer.Start(ctx, "ImportCustomers")
	defer span.End()

	var report dto.IngestReport
	now := uc.clock()

	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		if rec.CustomerID <= 0 || rec.FirstName == "" || !rec.MonthlyIncome.IsPositive() || !rec.ApprovedLimit.IsPositive() {
			uc.logger.ErrorContext(ctx, "invalid customer record", "line", rec.Line, "customer_id", rec.CustomerID)
			report.Failed++
			continue
		}

		customer := model.ReconstructCustomer(
			rec.CustomerID, rec.FirstName, rec.LastName, rec.Age, rec.PhoneNumber,
			rec.MonthlyIncome, rec.ApprovedLimit, decimal.Zero, now,
		)

		created, err := uc.customers.Upsert(ctx, customer)
		if err != nil {
			uc.logger.ErrorContext(ctx, "failed to import customer", "line", rec.Line, "customer_id", rec.CustomerID, "error", err)
			report.Failed++
			continue
		}
		if !created {
			report.Skipped++
			continue
		}
		report.Created++
		uc.logger.DebugContext(ctx, "customer imported", "customer_id", rec.CustomerID)
	}

	uc.logger.InfoContext(ctx, "customer import finished",
		"created", report.Created, "skipped", report.Skipped, "failed", report.Failed)
	return report, nil
}

// ImportLoans stores each record whose loan ID is new. A row naming an
// unknown customer is skipped with a warning.
func (uc *IngestRecordsUseCase) ImportLoans(ctx context.Context, records []dto.LoanRecord) (dto.IngestReport, error) {
	ctx, span := tracer.Start(ctx, "ImportLoans")
	defer span.End()

	var report dto.IngestReport
	now := uc.clock()

	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		if rec.LoanID <= 0 {
			uc.logger.ErrorContext(ctx, "invalid loan record", "line", rec.Line, "error", "loan ID is required")
			report.Failed++
			continue
		}

		loan, err := model.NewHistoricalLoan(
			rec.LoanID, rec.CustomerID, rec.LoanAmount, rec.Tenure,
			rec.InterestRate, rec.MonthlyInstallment, rec.EMIsPaidOnTime,
			rec.StartDate, rec.EndDate, now,
		)
		if err != nil {
			uc.logger.ErrorContext(ctx, "invalid loan record", "line", rec.Line, "loan_id", rec.LoanID, "error", err)
			report.Failed++
			continue
		}

		if _, err := uc.customers.FindByID(ctx, rec.CustomerID); err != nil {
			if errors.Is(err, model.ErrCustomerNotFound) {
				uc.logger.WarnContext(ctx, "customer not found for loan", "customer_id", rec.CustomerID, "loan_id", rec.LoanID)
				report.Skipped++
				continue
			}
			uc.logger.ErrorContext(ctx, "failed to look up customer", "customer_id", rec.CustomerID, "loan_id", rec.LoanID, "error", err)
			report.Failed++
			continue
		}

		created, err := uc.loans.Upsert(ctx, loan)
		if err != nil {
			uc.logger.ErrorContext(ctx, "failed to import loan", "line", rec.Line, "loan_id", rec.LoanID, "error", err)
			report.Failed++
			continue
		}
		if !created {
			report.Skipped++
			continue
		}
		report.Created++
		uc.logger.DebugContext(ctx, "loan imported", "loan_id", rec.LoanID, "customer_id", rec.CustomerID)
	}

	uc.logger.InfoContext(ctx, "loan import finished",
		"created", report.Created, "skipped", report.Skipped, "failed", report.Failed)
	return report, nil
}
