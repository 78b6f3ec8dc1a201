package domain

import "time"

// Record is one persisted calculation. Rows are append-only.
type Record struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"type:text" json:"name"`
	Usage     float64   `json:"usage"`
	Factor    float64   `json:"factor"`
	Emission  float64   `json:"emission"`
	Unit      string    `gorm:"type:text" json:"unit"`
	CreatedAt time.Time `gorm:"column:created_at;index;not null" json:"created_at"`
}

func (Record) TableName() string {
	return "records"
}

// NewRecord carries the caller-supplied columns of an insert.
type NewRecord struct {
	Name     string
	Usage    float64
	Factor   float64
	Emission float64
	Unit     string
}
