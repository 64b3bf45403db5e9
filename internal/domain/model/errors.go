package model

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrCommissionRange = errors.New("commission out of range")
	ErrEffortRange     = errors.New("effort out of range")
)
