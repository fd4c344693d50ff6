package audit

import (
	"errors"
	"fmt"
)

var (
	// ErrChainIntegrity matches every verification failure.
	ErrChainIntegrity = errors.New("chain integrity violation")
	// ErrStorageFailure matches every persistence failure.
	ErrStorageFailure = errors.New("audit storage failure")
	// ErrNotFound is returned by Get for an unknown sequence number.
	ErrNotFound = errors.New("audit record not found")
	// ErrBackendClosed is returned by a backend used after Close.
	ErrBackendClosed = errors.New("audit backend closed")
)

// ChainIntegrityViolation wraps the first violation found by verification.
type ChainIntegrityViolation struct {
	Violation Violation
}

func (e *ChainIntegrityViolation) Error() string {
	v := e.Violation
	return fmt.Sprintf("%s: %s at record %d (expected %s, got %s)", ErrChainIntegrity, v.Kind, v.Index, v.Expected, v.Got)
}

func (e *ChainIntegrityViolation) Unwrap() error { return ErrChainIntegrity }

// StorageError is a backend failure during Op.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrStorageFailure, e.Op, e.Err)
}

// Unwrap exposes both the sentinel and the backend cause.
func (e *StorageError) Unwrap() []error { return []error{ErrStorageFailure, e.Err} }
