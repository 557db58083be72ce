package script

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrUnknownKeyword is returned for a line whose first field is not a known keyword.
	ErrUnknownKeyword = errors.New("unknown keyword")
	// ErrInvalidMagnitude is returned when a magnitude is not a finite, non-negative number.
	ErrInvalidMagnitude = errors.New("invalid magnitude")
	// ErrNoInstructions is returned for a script with no move instructions.
	ErrNoInstructions = errors.New("script contains no move instructions")
)

// ParseError describes the line that made a parse fail.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d %q: %v", e.Line, e.Text, e.Err)
}

// Unwrap returns the underlying error kind.
func (e *ParseError) Unwrap() error {
	return e.Err
}
