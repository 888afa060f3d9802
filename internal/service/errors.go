package service

import "errors"

var (
	// ErrDataSourceUnavailable wraps any failure to read events. The run is
	// aborted; retrying is up to the caller.
	ErrDataSourceUnavailable = errors.New("data source unavailable")

	// ErrInvalidRange is returned for an empty, inverted or too long date range.
	ErrInvalidRange = errors.New("invalid date range")
)
