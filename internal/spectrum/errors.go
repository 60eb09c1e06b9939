package spectrum

import (
	"errors"
	"fmt"
)

var (
	// ErrShiftMismatch is returned when a shift list does not match the number of tables
	ErrShiftMismatch = errors.New("shift count does not match table count")
	// ErrLegendMismatch is returned when a legend list does not match the number of tables
	ErrLegendMismatch = errors.New("legend count does not match table count")
	// ErrInvalidWindow is returned for unusable smoothing parameters
	ErrInvalidWindow = errors.New("invalid smoothing window")
)

// ParseError reports a malformed measurement row
type ParseError struct {
	Source string
	Line   int
	Text   string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("%s: %s", e.Source, e.Reason)
	}
	return fmt.Sprintf("%s:%d: %s (%q)", e.Source, e.Line, e.Reason, e.Text)
}

// EmptyResultError reports that no file matched a discovery pattern
type EmptyResultError struct {
	Pattern string
	Dir     string
}

func (e *EmptyResultError) Error() string {
	return fmt.Sprintf("no match file found for %q in %s", e.Pattern, e.Dir)
}

// DegenerateRangeError reports a normalization over a flat range (max == min)
type DegenerateRangeError struct {
	Source string
	Value  float64
}

func (e *DegenerateRangeError) Error() string {
	return fmt.Sprintf("%s: cannot normalize, every count equals %g", e.Source, e.Value)
}
