package indices

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrSchema           = errors.New("schema error")
	ErrInvalidFrequency = errors.New("invalid frequency")
	ErrInvalidRecord    = errors.New("invalid record")
)

// SchemaError reports an input table that lacks required columns or whose
// columns differ in length.
type SchemaError struct {
	Missing []string
	Reason  string
}

func (e *SchemaError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("input table is missing required column(s): %s", strings.Join(e.Missing, ", "))
	}
	return "input table schema: " + e.Reason
}

func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}

// InvalidFrequencyError reports a frequency the index does not support.
type InvalidFrequencyError struct {
	Kind      Kind
	Frequency Frequency
	Supported []Frequency
}

func (e *InvalidFrequencyError) Error() string {
	supported := make([]string, len(e.Supported))
	for i, f := range e.Supported {
		supported[i] = string(f)
	}
	return fmt.Sprintf("%s does not support frequency %q (supported: %s)",
		e.Kind, e.Frequency, strings.Join(supported, ", "))
}

func (e *InvalidFrequencyError) Is(target error) bool {
	return target == ErrInvalidFrequency
}

// RecordError reports a row of the input table with an unusable value.
type RecordError struct {
	Row    int
	Column string
	Err    error
}

func (e *RecordError) Error() string {
	if e.Row < 0 {
		return e.Err.Error()
	}
	if e.Column == "" {
		return fmt.Sprintf("row %d: %v", e.Row, e.Err)
	}
	return fmt.Sprintf("row %d, column %s: %v", e.Row, e.Column, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

func (e *RecordError) Is(target error) bool {
	return target == ErrInvalidRecord
}
