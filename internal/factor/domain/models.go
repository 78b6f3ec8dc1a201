package domain

import "errors"

// Entry is one normalized row of the canonical dataset file.
type Entry struct {
	Name   string  `json:"name"`
	Unit   string  `json:"unit"`
	Factor float64 `json:"factor"`
}

// Value is what the factor table holds for a name.
type Value struct {
	Unit   string  `json:"unit"`
	Factor float64 `json:"factor"`
}

// Table maps a factor name to its unit and coefficient.
type Table map[string]Value

// Store is the read-only factor table loaded once at process start.
type Store interface {
	GetAll() Table
	Lookup(name string) (Value, bool)
	Len() int
}

var (
	ErrDatasetNotArray    = errors.New("dataset is not a JSON array")
	ErrDatasetMalformed   = errors.New("dataset is not valid JSON")
	ErrDatasetUnavailable = errors.New("dataset unavailable")
)
