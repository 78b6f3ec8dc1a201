package service

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/smallbiznis/custoscarbon/internal/calculation/domain"
	factordomain "github.com/smallbiznis/custoscarbon/internal/factor/domain"
	"github.com/smallbiznis/custoscarbon/internal/observability/metrics"
	recorddomain "github.com/smallbiznis/custoscarbon/internal/record/domain"
	"github.com/spf13/cast"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var errNotFinite = errors.New("value is not a finite number")

type Params struct {
	fx.In

	Log     *zap.Logger
	Factors factordomain.Store
	Records recorddomain.Service
	Metrics *metrics.Metrics `optional:"true"`
}

type Service struct {
	log     *zap.Logger
	factors factordomain.Store
	records recorddomain.Service
	metrics *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		log:     p.Log.Named("calculation.service"),
		factors: p.Factors,
		records: p.Records,
		metrics: p.Metrics,
	}
}

// Calculate coerces the inputs, computes the rounded emission and stores the row.
// The name is not checked against the factor table and the supplied factor is used as is.
func (s *Service) Calculate(ctx context.Context, req domain.Request) (domain.Result, error) {
	usage, err := toFloat("usage", req.Usage)
	if err != nil {
		s.metrics.RecordCalculation(metrics.ResultFailed)
		return domain.Result{}, err
	}
	factor, err := toFloat("factor", req.Factor)
	if err != nil {
		s.metrics.RecordCalculation(metrics.ResultFailed)
		return domain.Result{}, err
	}

	if product := usage * factor; math.IsNaN(product) || math.IsInf(product, 0) {
		s.metrics.RecordCalculation(metrics.ResultFailed)
		return domain.Result{}, &domain.ValidationError{Field: "emission", Err: errNotFinite}
	}

	var unit string
	if v, ok := s.factors.Lookup(req.Name); ok {
		unit = v.Unit
	}

	record, err := s.records.Insert(ctx, recorddomain.NewRecord{
		Name:     req.Name,
		Usage:    usage,
		Factor:   factor,
		Emission: domain.Emission(usage, factor),
		Unit:     unit,
	})
	if err != nil {
		s.metrics.RecordCalculation(metrics.ResultFailed)
		return domain.Result{}, err
	}

	s.metrics.RecordCalculation(metrics.ResultSaved)
	s.log.Info("emission calculated",
		zap.Uint64("record_id", record.ID),
		zap.String("name", record.Name),
		zap.Float64("emission", record.Emission),
	)

	return domain.Result{
		ID:        record.ID,
		Name:      record.Name,
		Usage:     record.Usage,
		Factor:    record.Factor,
		Emission:  record.Emission,
		Unit:      record.Unit,
		CreatedAt: record.CreatedAt,
		Status:    domain.StatusSaved,
	}, nil
}

// toFloat reads a JSON value as a float64. An absent value counts as zero.
func toFloat(field string, v any) (float64, error) {
	if s, ok := v.(string); ok {
		v = strings.TrimSpace(s)
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, &domain.ValidationError{Field: field, Err: err}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, &domain.ValidationError{Field: field, Err: errNotFinite}
	}
	return f, nil
}
