package models

import (
	"errors"
	"fmt"

	"github.com/camayank/StartupValuator-sub001/pkg/core/rate"
)

var (
	// ErrInvalidAssumption marks a discount rate at or below terminal growth.
	ErrInvalidAssumption = errors.New("invalid assumption")
	// ErrMissingBenchmarkData marks a method whose reference data is absent.
	ErrMissingBenchmarkData = errors.New("missing benchmark data")
	// ErrOutOfRangeInput marks an input field outside its accepted range.
	ErrOutOfRangeInput = errors.New("out of range input")
)

// InvalidAssumptionError names the offending rates.
type InvalidAssumptionError struct {
	Context            string
	DiscountRate       rate.Percent
	TerminalGrowthRate rate.Percent
}

func (e *InvalidAssumptionError) Error() string {
	return fmt.Sprintf("%s: discount rate %s must exceed terminal growth rate %s",
		e.Context, e.DiscountRate, e.TerminalGrowthRate)
}

func (e *InvalidAssumptionError) Unwrap() error { return ErrInvalidAssumption }

// CheckSpread returns an InvalidAssumptionError unless discount > terminal.
func CheckSpread(context string, discount, terminal rate.Percent) error {
	if discount <= terminal {
		return &InvalidAssumptionError{Context: context, DiscountRate: discount, TerminalGrowthRate: terminal}
	}
	return nil
}

// MissingBenchmarkError names the table and key that had no entry.
type MissingBenchmarkError struct {
	Method string
	Table  string
	Key    string
}

func (e *MissingBenchmarkError) Error() string {
	return fmt.Sprintf("%s: no %s benchmark for %q", e.Method, e.Table, e.Key)
}

func (e *MissingBenchmarkError) Unwrap() error { return ErrMissingBenchmarkData }

// OutOfRangeError names the rejected field and its accepted bounds.
type OutOfRangeError struct {
	Field string
	Value float64
	Min   float64
	Max   float64
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("field %s = %g is outside [%g, %g]", e.Field, e.Value, e.Min, e.Max)
}

func (e *OutOfRangeError) Unwrap() error { return ErrOutOfRangeInput }

// CheckRange returns an OutOfRangeError when v is outside [min, max] or NaN.
func CheckRange(field string, v, min, max float64) error {
	if v != v || v < min || v > max {
		return &OutOfRangeError{Field: field, Value: v, Min: min, Max: max}
	}
	return nil
}
