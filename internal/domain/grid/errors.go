package grid

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrAxisShape = errors.New("invalid axis shape")
	ErrTooLarge  = errors.New("requested grid too large")
)
