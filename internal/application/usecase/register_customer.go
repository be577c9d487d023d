package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bibbank/credit-service/internal/application/dto"
	"github.com/bibbank/credit-service/internal/domain/event"
	"github.com/bibbank/credit-service/internal/domain/model"
	"github.com/bibbank/credit-service/internal/domain/port"
)

// RegisterCustomerUseCase onboards a customer and sanctions their approved
// limit.
type RegisterCustomerUseCase struct {
	customers port.CustomerRepository
	publisher port.EventPublisher
	logger    *slog.Logger
	clock     Clock
}

// NewRegisterCustomerUseCase wires dependencies.
func NewRegisterCustomerUseCase(
	customers port.CustomerRepository,
	publisher port.EventPublisher,
	logger *slog.Logger,
	clock Clock,
) *RegisterCustomerUseCase {
	return &RegisterCustomerUseCase{
		customers: customers,
		publisher: publisher,
		logger:    logger,
		clock:     clock,
	}
}

// Execute validates, persists and announces a new customer.
func (uc *RegisterCustomerUseCase) Execute(
	ctx context.Context,
	req dto.RegisterCustomerRequest,
) (resp dto.CustomerResponse, err error) {
	ctx, span := tracer.Start(ctx, "RegisterCustomer")
	defer func() { endSpan(span, err) }()

	if err := dto.Validate(req); err != nil {
		return dto.CustomerResponse{}, err
	}
	now := uc.clock()

	// 1. Build the aggregate; this derives the approved limit.
	customer, err := model.NewCustomer(req.FirstName, req.LastName, req.Age, req.PhoneNumber, req.MonthlyIncome, now)
	if err != nil {
		return dto.CustomerResponse{}, fmt.Errorf("create customer: %w", err)
	}

	// 2. Persist.
	customer, err = uc.customers.Create(ctx, customer)
	if err != nil {
		return dto.CustomerResponse{}, fmt.Errorf("save customer: %w", err)
	}

	// 3. Publish.
	publishAfterCommit(ctx, uc.publisher, uc.logger, event.NewCustomerRegistered(
		customer.ID(), customer.FirstName(), customer.LastName(),
		customer.MonthlyIncome(), customer.ApprovedLimit(), now,
	))

	uc.logger.InfoContext(ctx, "customer registered",
		"customer_id", customer.ID(),
		"approved_limit", customer.ApprovedLimit().String(),
	)

	return dto.CustomerResponse{
		CustomerID:    customer.ID(),
		Name:          customer.FullName(),
		Age:           customer.Age(),
		MonthlyIncome: customer.MonthlyIncome(),
		ApprovedLimit: customer.ApprovedLimit(),
		PhoneNumber:   customer.PhoneNumber(),
	}, nil
}
