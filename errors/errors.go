package errors

import "fmt"

// ParseError wraps a specific error with context about where it occurred.
type ParseError struct {
	Line   int
	Record []string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d: %v (record: %v)", e.Line, e.Err, e.Record)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ConfigurationError reports a shift template that cannot be resolved.
// Field names the offending part of the template, e.g. "definitions[1].breaks[0]".
type ConfigurationError struct {
	Field string
	Err   error
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("configuration error: %v", e.Err)
	}
	return fmt.Sprintf("configuration error in %s: %v", e.Field, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// InputError reports a run-state interval stream that breaks the
// sorted, non-overlapping contract. Index is the offending interval.
type InputError struct {
	Index int
	Err   error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("input error at interval %d: %v", e.Index, e.Err)
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// Parse errors
var (
	ErrInvalidFieldCount = fmt.Errorf("invalid field count")
	ErrInvalidStartTime  = fmt.Errorf("invalid start time")
	ErrInvalidEndTime    = fmt.Errorf("invalid end time")
	ErrInvalidRunState   = fmt.Errorf("invalid run state")
	ErrInvalidDate       = fmt.Errorf("invalid date")
	ErrInvalidClockTime  = fmt.Errorf("invalid clock time")
	ErrInvalidWeekday    = fmt.Errorf("invalid weekday")
	ErrEmptyRecord       = fmt.Errorf("empty record")
)

// Template errors
var (
	ErrMissingCode       = fmt.Errorf("code is required")
	ErrMissingName       = fmt.Errorf("name is required")
	ErrNoDefinitions     = fmt.Errorf("at least one shift definition is required")
	ErrNoDays            = fmt.Errorf("at least one day must be selected")
	ErrMissingID         = fmt.Errorf("id is required")
	ErrDuplicateID       = fmt.Errorf("duplicate id")
	ErrBreakOutsideShift = fmt.Errorf("break lies outside its shift window")
	ErrOverlappingBreaks = fmt.Errorf("breaks overlap")
	ErrOverlappingShifts = fmt.Errorf("active shift definitions overlap")
	ErrEmptyBreak        = fmt.Errorf("break has zero length")
	ErrStartAtMidnight   = fmt.Errorf("24:00 is only valid as an end time")
)

// Run-state input errors
var (
	ErrNoIntervals          = fmt.Errorf("no run-state intervals")
	ErrEmptyInterval        = fmt.Errorf("interval end must be after start")
	ErrUnsortedIntervals    = fmt.Errorf("intervals are not sorted by start")
	ErrOverlappingIntervals = fmt.Errorf("intervals overlap")
)
