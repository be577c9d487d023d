package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/credit-service/internal/domain/model"
	"github.com/bibbank/credit-service/internal/domain/port"
)

const keyPrefix = "credit:customer:"

// customerRecord is the cached JSON form of a customer.
type customerRecord struct {
	CreatedAt     time.Time       `json:"created_at"`
	FirstName     string          `json:"first_name"`
	LastName      string          `json:"last_name"`
	PhoneNumber   string          `json:"phone_number"`
	MonthlyIncome decimal.Decimal `json:"monthly_income"`
	ApprovedLimit decimal.Decimal `json:"approved_limit"`
	CurrentDebt   decimal.Decimal `json:"current_debt"`
	ID            int64           `json:"id"`
	Age           int             `json:"age"`
}

// CustomerCache is a read-through cache in front of a CustomerRepository.
// Customers never change after they are stored, so entries only expire.
// Cache failures are logged and the call falls through to the repository.
type CustomerCache struct {
	next   port.CustomerRepository
	store  Store
	logger *slog.Logger
	ttl    time.Duration
}

// NewCustomerCache wraps next with a cache kept in store.
func NewCustomerCache(next port.CustomerRepository, store Store, ttl time.Duration, logger *slog.Logger) *CustomerCache {
	return &CustomerCache{
		next:   next,
		store:  store,
		logger: logger,
		ttl:    ttl,
	}
}

func (c *CustomerCache) Create(ctx context.Context, customer model.Customer) (model.Customer, error) {
	created, err := c.next.Create(ctx, customer)
	if err != nil {
		return model.Customer{}, err
	}
	c.put(ctx, created)
	return created, nil
}

func (c *CustomerCache) FindByID(ctx context.Context, id int64) (model.Customer, error) {
	raw, err := c.store.Get(ctx, cacheKey(id))
	switch {
	case err == nil:
		customer, decodeErr := decodeCustomer(raw)
		if decodeErr == nil {
			return customer, nil
		}
		c.logger.WarnContext(ctx, "discarding unreadable cached customer", "customer_id", id, "error", decodeErr)
	case !errors.Is(err, ErrMiss):
		c.logger.WarnContext(ctx, "customer cache read failed", "customer_id", id, "error", err)
	}

	customer, err := c.next.FindByID(ctx, id)
	if err != nil {
		return model.Customer{}, err
	}
	c.put(ctx, customer)
	return customer, nil
}

// Upsert does not populate the cache; ingested customers are cached on
// first read.
func (c *CustomerCache) Upsert(ctx context.Context, customer model.Customer) (bool, error) {
	return c.next.Upsert(ctx, customer)
}

func (c *CustomerCache) put(ctx context.Context, customer model.Customer) {
	raw, err := encodeCustomer(customer)
	if err == nil {
		err = c.store.Set(ctx, cacheKey(customer.ID()), raw, c.ttl)
	}
	if err != nil {
		c.logger.WarnContext(ctx, "customer cache write failed", "customer_id", customer.ID(), "error", err)
	}
}

func cacheKey(id int64) string {
	return keyPrefix + strconv.FormatInt(id, 10)
}

func encodeCustomer(c model.Customer) (string, error) {
	raw, err := json.Marshal(customerRecord{
		ID:            c.ID(),
		FirstName:     c.FirstName(),
		LastName:      c.LastName(),
		Age:           c.Age(),
		PhoneNumber:   c.PhoneNumber(),
		MonthlyIncome: c.MonthlyIncome(),
		ApprovedLimit: c.ApprovedLimit(),
		CurrentDebt:   c.CurrentDebt(),
		CreatedAt:     c.CreatedAt(),
	})
	if err != nil {
		return "", fmt.Errorf("encode customer: %w", err)
	}
	return string(raw), nil
}

func decodeCustomer(raw string) (model.Customer, error) {
	var rec customerRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return model.Customer{}, fmt.Errorf("decode customer: %w", err)
	}
	return model.ReconstructCustomer(
		rec.ID, rec.FirstName, rec.LastName, rec.Age, rec.PhoneNumber,
		rec.MonthlyIncome, rec.ApprovedLimit, rec.CurrentDebt, rec.CreatedAt,
	), nil
}
