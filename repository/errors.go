package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ValidationError is a missing or malformed input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return e.Field + ": " + e.Reason
}

// NotFoundError means the identifier matched no record.
type NotFoundError struct {
	Entity string
	ID     uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// ConflictError is an optimistic revision mismatch on update.
type ConflictError struct {
	ID       uint
	Expected int
	Actual   int
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("order %d is at revision %d, expected %d", e.ID, e.Actual, e.Expected)
}

// StoreError wraps a persistence failure.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return "store: " + e.Op + ": " + e.Err.Error()
}

func (e *StoreError) Unwrap() error { return e.Err }

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// storeErr classifies a gorm error. Record-not-found becomes NotFoundError.
func storeErr(op, entity string, id uint, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &NotFoundError{Entity: entity, ID: id}
	}
	var domainErr interface{ domain() }
	if errors.As(err, &domainErr) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}

// Domain errors returned from inside a transaction pass through storeErr untouched.
func (*ValidationError) domain() {}
func (*NotFoundError) domain()   {}
func (*ConflictError) domain()   {}
func (*StoreError) domain()      {}
