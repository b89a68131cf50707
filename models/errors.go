package models

import (
	"errors"
	"fmt"
)

var (
	ErrValidation             = errors.New("validation failed")
	ErrNotFound               = errors.New("record not found")
	ErrStockShortfall         = errors.New("stock shortfall")
	ErrPersistence            = errors.New("persistence failed")
	ErrUnknownTransactionType = errors.New("unknown transaction type")
)

// ValidationError reports a missing or invalid input field. Nothing is written.
// Field and Message describe the first failure; Fields, when set, holds every
// failing field keyed by its json name.
type ValidationError struct {
	Field   string
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

type NotFoundError struct {
	Kind string
	ID   int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// ShortfallWarning is returned when a sale or damage asks for more than is on
// hand. Retrying with ConfirmOversell accepts the negative stock.
type ShortfallWarning struct {
	ProductID int
	Available int
	Requested int
}

func (w *ShortfallWarning) Error() string {
	return fmt.Sprintf("product %d has %d on hand, %d requested (short by %d)",
		w.ProductID, w.Available, w.Requested, w.Shortfall())
}

func (w *ShortfallWarning) Is(target error) bool { return target == ErrStockShortfall }

func (w *ShortfallWarning) Shortfall() int { return w.Requested - w.Available }

// Resulting is the quantity left on hand if the oversell is confirmed.
func (w *ShortfallWarning) Resulting() int { return w.Available - w.Requested }

// PersistenceError wraps a failed store write. The in-memory change has been rolled back.
type PersistenceError struct {
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("save %q: %v", e.Key, e.Err)
}

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

func (e *PersistenceError) Unwrap() error { return e.Err }
