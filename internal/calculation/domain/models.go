package domain

import (
	"context"
	"fmt"
	"time"
)

// StatusSaved marks a calculation that was persisted.
const StatusSaved = "saved"

// Request is the body of a calculate call. Usage and Factor stay untyped until the
// service coerces them, so strings and booleans reach the coercion step.
type Request struct {
	Name   string `json:"name"`
	Usage  any    `json:"usage"`
	Factor any    `json:"factor"`
}

// Result is the persisted record plus the status marker.
type Result struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Usage     float64   `json:"usage"`
	Factor    float64   `json:"factor"`
	Emission  float64   `json:"emission"`
	Unit      string    `json:"unit"`
	CreatedAt time.Time `json:"created_at"`
	Status    string    `json:"status"`
}

type Service interface {
	Calculate(ctx context.Context, req Request) (Result, error)
}

// ValidationError reports a usage or factor value that could not be read as a number.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
