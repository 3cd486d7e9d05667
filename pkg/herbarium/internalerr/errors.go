package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrSourceMissing = errors.New("source database not found")
	ErrSchema        = errors.New("unexpected source schema")
	ErrInvalidInput  = errors.New("invalid input")
	ErrDuplicate     = errors.New("duplicate entry")
	ErrInvalidConfig = errors.New("invalid configuration")
)
