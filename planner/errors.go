package planner

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrMissingTime is returned when a script has no time directive.
	ErrMissingTime = errors.New("script has no time directive")
	// ErrUncorrectableHeading is returned when the plan ends facing the wrong
	// way and has no turn to absorb the error.
	ErrUncorrectableHeading = errors.New("final heading cannot be corrected: plan has no turn to adjust")
	// ErrDistanceOverflow is returned when a leg is too long to express in ticks.
	ErrDistanceOverflow = errors.New("leg distance overflows the tick counter")
)

// TimeBudgetError is returned when the acceleration overhead of a plan does
// not fit in its time budget.
type TimeBudgetError struct {
	Time     float64
	Overhead float64
}

func (e *TimeBudgetError) Error() string {
	return fmt.Sprintf(
		"time budget of %.3fs is too short: acceleration alone needs %.3fs (%.3fs over)",
		e.Time, e.Overhead, e.Overhead-e.Time)
}
