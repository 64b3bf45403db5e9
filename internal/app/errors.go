package service

import "errors"

var (
	// ErrNotStarted is returned when an operation is attempted before Start.
	ErrNotStarted = errors.New("service not started")
)
