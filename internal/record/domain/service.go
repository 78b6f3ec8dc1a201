package domain

import "context"

// DefaultListLimit is the fixed window returned by ListRecent.
const DefaultListLimit = 50

type Service interface {
	// Insert appends a row; the id and created_at are assigned by the store.
	Insert(ctx context.Context, rec NewRecord) (Record, error)
	// ListRecent returns up to limit records, newest first.
	ListRecent(ctx context.Context, limit int) ([]Record, error)
}

// StorageError reports a failure of the underlying database. Its message is the
// driver's message.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	if e.Err == nil {
		return "storage error"
	}
	return e.Err.Error()
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
