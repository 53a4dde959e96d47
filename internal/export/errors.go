package export

import "fmt"

// ErrorType discriminates the fatal run-level error classes. Per-site
// problems never surface as errors; they are carried in SiteResult values.
type ErrorType string

const (
	// ErrorTypeWriteAborted covers output file deletion, open and write
	// failures.
	ErrorTypeWriteAborted ErrorType = "write_aborted"

	// ErrorTypeSerialization covers a record that failed validation or
	// row encoding during the final flush.
	ErrorTypeSerialization ErrorType = "serialization"
)

// RunError is a fatal run-level failure. A RunError always terminates the
// run; retry is the external scheduler's responsibility.
type RunError struct {
	Type     ErrorType
	Artifact string
	Cause    error
}

func (e *RunError) Error() string {
	if e.Artifact != "" {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Artifact, e.Cause)
	}
	return fmt.Sprintf("[%s] %v", e.Type, e.Cause)
}

func (e *RunError) Unwrap() error {
	return e.Cause
}

// NewWriteAbortedError wraps an I/O failure on an output artifact.
func NewWriteAbortedError(artifact string, cause error) *RunError {
	return &RunError{Type: ErrorTypeWriteAborted, Artifact: artifact, Cause: cause}
}

// NewSerializationError wraps a record that could not be serialized.
func NewSerializationError(artifact string, cause error) *RunError {
	return &RunError{Type: ErrorTypeSerialization, Artifact: artifact, Cause: cause}
}
