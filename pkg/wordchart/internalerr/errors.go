package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrUnknownChartKind = errors.New("unknown chart kind")
	ErrFetchFailed      = errors.New("fetch failed")
)
