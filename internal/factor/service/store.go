package service

import (
	"fmt"
	"maps"

	"github.com/smallbiznis/custoscarbon/internal/config"
	"github.com/smallbiznis/custoscarbon/internal/factor/domain"
	"github.com/smallbiznis/custoscarbon/internal/factor/loader"
	"github.com/smallbiznis/custoscarbon/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Cfg     config.Config
	Aliases config.Aliases
	Log     *zap.Logger
	Metrics *metrics.Metrics `optional:"true"`
}

type Store struct {
	table domain.Table
}

// New loads the dataset file once. A missing or malformed file leaves the store empty
// and the API keeps serving.
func New(p Params) domain.Store {
	log := p.Log.Named("factor.store")

	table, err := load(p.Cfg.FactorsPath, p.Aliases.Dataset)
	if err != nil {
		log.Error("failed to load emission factors, serving an empty table",
			zap.String("path", p.Cfg.FactorsPath),
			zap.Error(err),
		)
		table = domain.Table{}
	} else {
		log.Info("emission factors loaded",
			zap.String("path", p.Cfg.FactorsPath),
			zap.Int("count", len(table)),
		)
	}

	p.Metrics.SetFactorEntries(len(table))
	return NewFromTable(table)
}

func load(path string, aliases config.FieldAliases) (domain.Table, error) {
	table, err := loader.LoadFile(path, aliases)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrDatasetUnavailable, err)
	}
	return table, nil
}

// NewFromTable wraps an already built table.
func NewFromTable(table domain.Table) *Store {
	if table == nil {
		table = domain.Table{}
	}
	return &Store{table: maps.Clone(table)}
}

// GetAll returns a copy of the whole table.
func (s *Store) GetAll() domain.Table {
	return maps.Clone(s.table)
}

func (s *Store) Lookup(name string) (domain.Value, bool) {
	v, ok := s.table[name]
	return v, ok
}

func (s *Store) Len() int {
	return len(s.table)
}

var _ domain.Store = (*Store)(nil)
