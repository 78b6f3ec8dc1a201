package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	EnsureSchema(ctx context.Context, db *gorm.DB) error
	Insert(ctx context.Context, db *gorm.DB, record *Record) error
	ListRecent(ctx context.Context, db *gorm.DB, limit int) ([]Record, error)
}
