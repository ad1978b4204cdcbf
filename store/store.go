// Package store persists patient records behind a backend-neutral interface.
package store

import (
	"context"
	"fmt"

	"github.com/ariebrainware/patient-registry/model"
)

// Logical field names understood by every backend.
const (
	FieldCreatedBy = "createdBy"
	FieldCreatedAt = "createdAt"
)

// Filter is an equality match on a single field. The zero Filter matches everything.
type Filter struct {
	Field string
	Value string
}

// OrderBy sorts query results by a single field. The zero OrderBy leaves the backend order.
type OrderBy struct {
	Field      string
	Descending bool
}

// RecordStore is the document database holding patient records.
// All records of one deployment live in a single collection.
type RecordStore interface {
	// Insert stores rec and returns the identifier assigned by the store.
	// The creation timestamp is assigned by the store, not taken from rec.
	Insert(ctx context.Context, collection string, rec model.PatientRecord) (string, error)
	Query(ctx context.Context, collection string, filter Filter, order OrderBy) ([]model.PatientRecord, error)
	DeleteByID(ctx context.Context, collection, id string) error
}

// Error is a remote or backend failure of a store operation.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Message is the underlying failure text, as shown to users.
func (e *Error) Message() string {
	if e.Err == nil {
		return e.Op + " failed"
	}
	return e.Err.Error()
}
