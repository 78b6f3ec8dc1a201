package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/smallbiznis/custoscarbon/internal/calculation/domain"
	factordomain "github.com/smallbiznis/custoscarbon/internal/factor/domain"
	factorservice "github.com/smallbiznis/custoscarbon/internal/factor/service"
	"github.com/smallbiznis/custoscarbon/internal/observability/metrics"
	recorddomain "github.com/smallbiznis/custoscarbon/internal/record/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memoryRecords struct {
	rows []recorddomain.Record
	err  error
}

func (m *memoryRecords) Insert(_ context.Context, rec recorddomain.NewRecord) (recorddomain.Record, error) {
	if m.err != nil {
		return recorddomain.Record{}, &recorddomain.StorageError{Op: "insert", Err: m.err}
	}
	row := recorddomain.Record{
		ID:        uint64(len(m.rows) + 1),
		Name:      rec.Name,
		Usage:     rec.Usage,
		Factor:    rec.Factor,
		Emission:  rec.Emission,
		Unit:      rec.Unit,
		CreatedAt: time.Date(2025, 1, 1, 0, 0, len(m.rows), 0, time.UTC),
	}
	m.rows = append(m.rows, row)
	return row, nil
}

func (m *memoryRecords) ListRecent(context.Context, int) ([]recorddomain.Record, error) {
	return m.rows, m.err
}

func newTestService(t *testing.T, records *memoryRecords) (domain.Service, *prometheus.Registry) {
	t.Helper()

	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	require.NoError(t, err)

	factors := factorservice.NewFromTable(factordomain.Table{
		"柴油": {Unit: "公升", Factor: 2.7},
	})
	svc := New(Params{
		Log:     zap.NewNop(),
		Factors: factors,
		Records: records,
		Metrics: m,
	})
	return svc, reg
}

func assertCalculations(t *testing.T, reg *prometheus.Registry, result string, count int) {
	t.Helper()
	expected := fmt.Sprintf(`
# HELP custoscarbon_calculations_total Emission calculations by result.
# TYPE custoscarbon_calculations_total counter
custoscarbon_calculations_total{result=%q} %d
`, result, count)
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "custoscarbon_calculations_total"))
}

func TestCalculateKnownFactor(t *testing.T) {
	records := &memoryRecords{}
	svc, reg := newTestService(t, records)

	res, err := svc.Calculate(context.Background(), domain.Request{Name: "柴油", Usage: float64(10), Factor: 2.7})
	require.NoError(t, err)

	assert.Equal(t, "柴油", res.Name)
	assert.Equal(t, 10.0, res.Usage)
	assert.Equal(t, 2.7, res.Factor)
	assert.Equal(t, 27.0, res.Emission)
	assert.Equal(t, "公升", res.Unit)
	assert.Equal(t, domain.StatusSaved, res.Status)
	assert.Equal(t, uint64(1), res.ID)
	require.Len(t, records.rows, 1)
	assert.Equal(t, 27.0, records.rows[0].Emission)
	assertCalculations(t, reg, metrics.ResultSaved, 1)
}

func TestCalculateUnknownNameHasEmptyUnit(t *testing.T) {
	records := &memoryRecords{}
	svc, _ := newTestService(t, records)

	res, err := svc.Calculate(context.Background(), domain.Request{Name: "not in table", Usage: 3.0, Factor: 0.5})
	require.NoError(t, err)
	assert.Equal(t, "", res.Unit)
	assert.Equal(t, 1.5, res.Emission)
}

func TestCalculateUsesSuppliedFactor(t *testing.T) {
	svc, _ := newTestService(t, &memoryRecords{})

	res, err := svc.Calculate(context.Background(), domain.Request{Name: "柴油", Usage: 2.0, Factor: 100.0})
	require.NoError(t, err)
	assert.Equal(t, 100.0, res.Factor)
	assert.Equal(t, 200.0, res.Emission)
	assert.Equal(t, "公升", res.Unit)
}

func TestCalculateCoercesInputs(t *testing.T) {
	tests := []struct {
		name   string
		usage  any
		factor any
		want   float64
	}{
		{name: "numeric strings", usage: "4", factor: " 2.5 ", want: 10},
		{name: "missing usage", usage: nil, factor: 2.0, want: 0},
		{name: "bool usage", usage: true, factor: 1.25, want: 1.25},
		{name: "negative values accepted", usage: -2.0, factor: 1.5, want: -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(t, &memoryRecords{})
			res, err := svc.Calculate(context.Background(), domain.Request{Name: "x", Usage: tt.usage, Factor: tt.factor})
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Emission)
		})
	}
}

func TestCalculateRejectsNonNumeric(t *testing.T) {
	records := &memoryRecords{}
	svc, reg := newTestService(t, records)

	_, err := svc.Calculate(context.Background(), domain.Request{Name: "柴油", Usage: "abc", Factor: 2.7})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "usage", verr.Field)
	assert.Contains(t, err.Error(), "abc")
	assert.Empty(t, records.rows)

	_, err = svc.Calculate(context.Background(), domain.Request{Name: "柴油", Usage: 1.0, Factor: []any{1}})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "factor", verr.Field)

	_, err = svc.Calculate(context.Background(), domain.Request{Name: "柴油", Usage: "NaN", Factor: 1.0})
	require.ErrorAs(t, err, &verr)

	assert.Empty(t, records.rows)
	assertCalculations(t, reg, metrics.ResultFailed, 3)
}

func TestCalculateSurfacesStorageError(t *testing.T) {
	svc, _ := newTestService(t, &memoryRecords{err: errors.New("database is locked")})

	_, err := svc.Calculate(context.Background(), domain.Request{Name: "柴油", Usage: 1.0, Factor: 1.0})
	var storageErr *recorddomain.StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.Equal(t, "database is locked", err.Error())
}

func TestCalculateRejectsOverflowingEmission(t *testing.T) {
	records := &memoryRecords{}
	svc, reg := newTestService(t, records)

	_, err := svc.Calculate(context.Background(), domain.Request{Name: "x", Usage: 1e308, Factor: 10.0})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "emission", verr.Field)
	assert.Empty(t, records.rows)
	assertCalculations(t, reg, metrics.ResultFailed, 1)
}
