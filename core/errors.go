package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/karsk/splinefit/schema"
)

// ErrDegenerateInput marks datasets the pipeline refuses to fit:
// too few usable samples or a zero-width x-range. Wrapped errors carry
// the specific reason; match with errors.Is.
var ErrDegenerateInput = errors.New("degenerate input")

// degenerateErr wraps ErrDegenerateInput with a reason.
func degenerateErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrDegenerateInput, fmt.Sprintf(format, args...))
}

// StrategyFailure records why one fitting strategy failed. Failures are
// recovered internally by the engine (escalation to the next strategy)
// and only surface inside a FitExhaustedError.
type StrategyFailure struct {
	Strategy schema.StrategyLabel
	Reason   string
}

// FitExhaustedError is the fatal case: every strategy in the fallback
// chain failed, or the winning strategy produced non-finite values.
// No KPIs or quality verdicts are computed past this point.
type FitExhaustedError struct {
	Attempts []StrategyFailure
}

func (e *FitExhaustedError) Error() string {
	var sb strings.Builder
	sb.WriteString("all fitting strategies failed")
	for _, a := range e.Attempts {
		fmt.Fprintf(&sb, "; %s: %s", a.Strategy, a.Reason)
	}
	return sb.String()
}
