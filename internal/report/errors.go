package report

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownReportType = errors.New("unknown report type")
	ErrMalformedReport   = errors.New("malformed report")
	ErrUnsupportedFormat = errors.New("unsupported export format")
)

// ValidationError reports a missing required input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ExportError wraps any failure past the registry lookup, tagged with the
// stage that failed (project, encode, emit).
type ExportError struct {
	Stage string
	Err   error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export failed during %s: %v", e.Stage, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}
