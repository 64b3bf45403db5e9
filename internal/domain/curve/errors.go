package curve

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrUnknownCurve = errors.New("invalid sales curve selected")
)
