// Package curve implements the sales response curves of the commission model.
//
// Every curve maps (effort, commission) to a sales value by squashing a
// transformed effort through the logistic sigmoid and scaling by commission.
// The sigmoid output is strictly inside (0, 1), so sales are strictly inside
// (0, commission) for any non-negative effort and positive commission.
package curve

import (
	"fmt"
	"math"
	"strings"
)

// Kind selects which response formula maps (effort, commission) to sales.
type Kind string

// Supported sales response curves.
const (
	Linear      Kind = "linear"
	Quadratic   Kind = "quadratic"
	Logarithmic Kind = "logarithmic"
	Exponential Kind = "exponential"
)

// exponentialRate scales effort inside the exponential curve's inner exp.
const exponentialRate = 0.1

// Kinds returns all supported curves in presentation order.
func Kinds() []Kind {
	return []Kind{Linear, Quadratic, Logarithmic, Exponential}
}

// Parse converts a user-supplied curve name to a Kind.
// Matching is case-insensitive and ignores surrounding whitespace.
func Parse(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case Linear:
		return Linear, nil
	case Quadratic:
		return Quadratic, nil
	case Logarithmic:
		return Logarithmic, nil
	case Exponential:
		return Exponential, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCurve, s)
	}
}

// String returns the canonical lowercase curve name.
func (k Kind) String() string {
	return string(k)
}

// Sigmoid is the logistic squashing function 1/(1+e^-x).
// Sigmoid(0) is exactly 0.5 and the function is strictly increasing.
func Sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// Sales maps effort and commission to a sales value in (0, commission).
//
//	linear:      c * sigmoid(e)
//	quadratic:   c * sigmoid(e^2)
//	logarithmic: c * sigmoid(ln(e+1))
//	exponential: c * sigmoid(exp(0.1*e))
func (k Kind) Sales(effort, commission float64) float64 {
	switch k {
	case Quadratic:
		return commission * Sigmoid(effort*effort)
	case Logarithmic:
		// +1 keeps the argument defined at zero effort
		return commission * Sigmoid(math.Log(effort+1))
	case Exponential:
		return commission * Sigmoid(math.Exp(exponentialRate*effort))
	case Linear:
		fallthrough
	default:
		return commission * Sigmoid(effort)
	}
}
