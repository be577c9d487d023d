package ingest_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/credit-service/internal/application/dto"
	"github.com/bibbank/credit-service/internal/infrastructure/ingest"
)

type mockRecordImporter struct {
	ImportCustomersFunc func(ctx context.Context, records []dto.CustomerRecord) (dto.IngestReport, error)
	ImportLoansFunc     func(ctx context.Context, records []dto.LoanRecord) (dto.IngestReport, error)
	calls               []string
}

func (m *mockRecordImporter) ImportCustomers(ctx context.Context, records []dto.CustomerRecord) (dto.IngestReport, error) {
	m.calls = append(m.calls, "customers")
	return m.ImportCustomersFunc(ctx, records)
}

func (m *mockRecordImporter) ImportLoans(ctx context.Context, records []dto.LoanRecord) (dto.IngestReport, error) {
	m.calls = append(m.calls, "loans")
	return m.ImportLoansFunc(ctx, records)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestImporter_Run(t *testing.T) {
	dir := t.TempDir()
	customers := writeFile(t, dir, "customers.csv", customerCSV+"bad,row,,,,,\n")
	loans := writeFile(t, dir, "loans.csv", loanCSV)

	records := &mockRecordImporter{
		ImportCustomersFunc: func(_ context.Context, recs []dto.CustomerRecord) (dto.IngestReport, error) {
			assert.Len(t, recs, 2)
			return dto.IngestReport{Created: 1, Skipped: 1}, nil
		},
		ImportLoansFunc: func(_ context.Context, recs []dto.LoanRecord) (dto.IngestReport, error) {
			assert.Len(t, recs, 2)
			return dto.IngestReport{Created: 2}, nil
		},
	}

	report, err := ingest.NewImporter(records, customers, loans, discardLogger()).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, dto.IngestReport{Created: 3, Skipped: 1, Failed: 1}, report)
	assert.Equal(t, []string{"customers", "loans"}, records.calls)
}

func TestImporter_Run_CustomerFailureStopsBeforeLoans(t *testing.T) {
	dir := t.TempDir()
	customers := writeFile(t, dir, "customers.csv", customerCSV)
	loans := writeFile(t, dir, "loans.csv", loanCSV)

	storeDown := errors.New("store down")
	records := &mockRecordImporter{
		ImportCustomersFunc: func(context.Context, []dto.CustomerRecord) (dto.IngestReport, error) {
			return dto.IngestReport{}, storeDown
		},
	}

	_, err := ingest.NewImporter(records, customers, loans, discardLogger()).Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, storeDown)
	assert.Equal(t, []string{"customers"}, records.calls)
}

func TestImporter_MissingFile(t *testing.T) {
	records := &mockRecordImporter{}
	im := ingest.NewImporter(records, filepath.Join(t.TempDir(), "absent.csv"), "", discardLogger())

	_, err := im.ImportCustomersFile(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Empty(t, records.calls)
}

func TestNewScheduler(t *testing.T) {
	im := ingest.NewImporter(&mockRecordImporter{}, "c.csv", "l.csv", discardLogger())

	_, err := ingest.NewScheduler("not a schedule", im, time.Minute, discardLogger())
	assert.Error(t, err)

	s, err := ingest.NewScheduler("@daily", im, time.Minute, discardLogger())
	require.NoError(t, err)
	s.Start()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}
