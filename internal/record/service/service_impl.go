package service

import (
	"context"

	"github.com/smallbiznis/custoscarbon/internal/clock"
	"github.com/smallbiznis/custoscarbon/internal/record/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Repo  domain.Repository
	Clock clock.Clock
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	repo  domain.Repository
	clock clock.Clock
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("record.service"),
		repo:  p.Repo,
		clock: p.Clock,
	}
}

func (s *Service) Insert(ctx context.Context, rec domain.NewRecord) (domain.Record, error) {
	record := domain.Record{
		Name:      rec.Name,
		Usage:     rec.Usage,
		Factor:    rec.Factor,
		Emission:  rec.Emission,
		Unit:      rec.Unit,
		CreatedAt: s.clock.Now(),
	}

	if err := s.repo.Insert(ctx, s.db, &record); err != nil {
		s.log.Error("failed to insert record", zap.String("name", rec.Name), zap.Error(err))
		return domain.Record{}, &domain.StorageError{Op: "insert", Err: err}
	}

	s.log.Debug("record inserted", zap.Uint64("id", record.ID), zap.String("name", record.Name))
	return record, nil
}

func (s *Service) ListRecent(ctx context.Context, limit int) ([]domain.Record, error) {
	if limit <= 0 {
		limit = domain.DefaultListLimit
	}

	records, err := s.repo.ListRecent(ctx, s.db, limit)
	if err != nil {
		s.log.Error("failed to list records", zap.Error(err))
		return nil, &domain.StorageError{Op: "list", Err: err}
	}
	if records == nil {
		records = []domain.Record{}
	}
	return records, nil
}

// EnsureSchema creates the records table on startup.
func EnsureSchema(lc fx.Lifecycle, db *gorm.DB, repo domain.Repository, log *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := repo.EnsureSchema(ctx, db); err != nil {
				return &domain.StorageError{Op: "ensure_schema", Err: err}
			}
			log.Info("records table ready")
			return nil
		},
	})
}
