package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/credit-service/internal/application/dto"
)

// Column headers of the legacy customer and loan exports.
const (
	colCustomerID    = "customer id"
	colFirstName     = "first name"
	colLastName      = "last name"
	colAge           = "age"
	colPhoneNumber   = "phone number"
	colMonthlySalary = "monthly salary"
	colApprovedLimit = "approved limit"

	colLoanID         = "loan id"
	colLoanAmount     = "loan amount"
	colTenure         = "tenure"
	colInterestRate   = "interest rate"
	colMonthlyPayment = "monthly payment"
	colEMIsPaid       = "emis paid on time"
	colApprovalDate   = "date of approval"
	colEndDate        = "end date"
)

var (
	customerColumns = []string{
		colCustomerID, colFirstName, colLastName, colAge,
		colPhoneNumber, colMonthlySalary, colApprovedLimit,
	}
	loanColumns = []string{
		colCustomerID, colLoanID, colLoanAmount, colTenure, colInterestRate,
		colMonthlyPayment, colEMIsPaid, colApprovalDate, colEndDate,
	}
	dateLayouts = []string{
		"2006-01-02",
		"2006-01-02 15:04:05",
		time.RFC3339,
		"1/2/2006",
		"02-01-2006",
	}
)

// ErrMissingColumn is returned when a header row lacks a required column.
var ErrMissingColumn = errors.New("missing column")

// Parsed holds the records read from a file and the number of rows that
// could not be parsed.
type Parsed[T any] struct {
	Records []T
	Failed  int
}

// ReadCustomers parses a customer export. Rows that do not parse are logged
// and counted; a malformed header fails the whole file.
func ReadCustomers(r io.Reader, logger *slog.Logger) (Parsed[dto.CustomerRecord], error) {
	var out Parsed[dto.CustomerRecord]
	err := readRows(r, customerColumns, func(line int, row rowValues, err error) {
		var rec dto.CustomerRecord
		if err == nil {
			rec, err = parseCustomerRow(line, row)
		}
		if err != nil {
			logger.Error("unparseable customer row", "line", line, "error", err)
			out.Failed++
			return
		}
		out.Records = append(out.Records, rec)
	})
	return out, err
}

// ReadLoans parses a loan export.
func ReadLoans(r io.Reader, logger *slog.Logger) (Parsed[dto.LoanRecord], error) {
	var out Parsed[dto.LoanRecord]
	err := readRows(r, loanColumns, func(line int, row rowValues, err error) {
		var rec dto.LoanRecord
		if err == nil {
			rec, err = parseLoanRow(line, row)
		}
		if err != nil {
			logger.Error("unparseable loan row", "line", line, "error", err)
			out.Failed++
			return
		}
		out.Records = append(out.Records, rec)
	})
	return out, err
}

// ---------------------------------------------------------------------------
// Row parsing
// ---------------------------------------------------------------------------

func parseCustomerRow(line int, row rowValues) (dto.CustomerRecord, error) {
	p := fieldParser{row: row}
	rec := dto.CustomerRecord{
		Line:          line,
		CustomerID:    p.id(colCustomerID),
		FirstName:     p.text(colFirstName),
		LastName:      p.text(colLastName),
		Age:           p.count(colAge),
		PhoneNumber:   p.text(colPhoneNumber),
		MonthlyIncome: p.amount(colMonthlySalary),
		ApprovedLimit: p.amount(colApprovedLimit),
	}
	return rec, p.err
}

func parseLoanRow(line int, row rowValues) (dto.LoanRecord, error) {
	p := fieldParser{row: row}
	rec := dto.LoanRecord{
		Line:               line,
		CustomerID:         p.id(colCustomerID),
		LoanID:             p.id(colLoanID),
		LoanAmount:         p.amount(colLoanAmount),
		Tenure:             p.count(colTenure),
		InterestRate:       p.amount(colInterestRate),
		MonthlyInstallment: p.amount(colMonthlyPayment),
		EMIsPaidOnTime:     p.count(colEMIsPaid),
		StartDate:          p.date(colApprovalDate),
		EndDate:            p.date(colEndDate),
	}
	return rec, p.err
}

type rowValues map[string]string

// fieldParser converts named cells and keeps the first conversion error.
type fieldParser struct {
	row rowValues
	err error
}

func (p *fieldParser) fail(col, value string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("%s %q: %w", col, value, err)
	}
}

func (p *fieldParser) text(col string) string {
	return p.row[col]
}

func (p *fieldParser) id(col string) int64 {
	v := p.row[col]
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		// Spreadsheet exports write whole numbers as "12.0".
		d, derr := decimal.NewFromString(v)
		if derr != nil || !d.IsInteger() {
			p.fail(col, v, err)
			return 0
		}
		return d.IntPart()
	}
	return n
}

func (p *fieldParser) count(col string) int {
	return int(p.id(col))
}

func (p *fieldParser) amount(col string) decimal.Decimal {
	v := strings.ReplaceAll(p.row[col], ",", "")
	d, err := decimal.NewFromString(v)
	if err != nil {
		p.fail(col, p.row[col], err)
		return decimal.Zero
	}
	return d
}

func (p *fieldParser) date(col string) time.Time {
	v := p.row[col]
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	p.fail(col, v, errors.New("unrecognised date"))
	return time.Time{}
}

// ---------------------------------------------------------------------------
// CSV plumbing
// ---------------------------------------------------------------------------

// readRows maps every data row to its header names and hands it to fn with
// its 1-based line number. A line the CSV reader rejects reaches fn with a
// nil row and the parse error. Header matching ignores case and surrounding
// space, so column order is free.
func readRows(r io.Reader, required []string, fn func(line int, row rowValues, err error)) error {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("read header: empty file")
		}
		return fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[normaliseHeader(name)] = i
	}
	var missing []string
	for _, col := range required {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}

	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		line++
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			fn(line, nil, err)
			continue
		}
		if err != nil {
			return fmt.Errorf("read line %d: %w", line, err)
		}
		if isBlank(record) {
			continue
		}

		row := make(rowValues, len(required))
		for _, col := range required {
			if i := index[col]; i < len(record) {
				row[col] = strings.TrimSpace(record[i])
			}
		}
		fn(line, row, nil)
	}
}

func normaliseHeader(name string) string {
	name = strings.TrimPrefix(name, "\ufeff")
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
