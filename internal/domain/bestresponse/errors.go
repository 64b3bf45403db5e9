package bestresponse

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrBadDomain = errors.New("invalid effort domain")
)
