package febus

import "fmt"

// ValidationError reports a caller-fixable problem with the extraction
// options. It is always raised before any file access.
type ValidationError struct {
	Context string
	Cause   error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Cause == nil {
		return e.Context
	}
	return fmt.Sprintf("%s: %v", e.Context, e.Cause)
}

// Unwrap provides compatibility with errors.Unwrap().
func (e *ValidationError) Unwrap() error {
	return e.Cause
}

func validationErrorf(format string, args ...interface{}) error {
	return &ValidationError{Context: fmt.Sprintf(format, args...)}
}

// SchemaError reports that the file tree does not match the expected
// sensor/source/zone layout, or that no known dataset name exists under
// the zone for the resolved version.
type SchemaError struct {
	Context string
	Cause   error
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	if e.Cause == nil {
		return e.Context
	}
	return fmt.Sprintf("%s: %v", e.Context, e.Cause)
}

// Unwrap provides compatibility with errors.Unwrap().
func (e *SchemaError) Unwrap() error {
	return e.Cause
}

func schemaErrorf(format string, args ...interface{}) error {
	return &SchemaError{Context: fmt.Sprintf(format, args...)}
}

// GeometryError reports that the raw per-block sample extent cannot cover
// one block interval, so blocks cannot be tiled without gaps. Extraction
// from such a file is impossible.
type GeometryError struct {
	ExtentDuration float64 // seconds covered by the raw extent
	BlockInterval  float64 // seconds one block must cover
}

// Error implements the error interface.
func (e *GeometryError) Error() string {
	return fmt.Sprintf("block sample extent covers %gs, less than the %gs block interval: blocks cannot tile without gaps",
		e.ExtentDuration, e.BlockInterval)
}

// AssemblyError reports that the assembled matrix does not have the shape
// the resolved windows predict. It indicates an internal resolution bug,
// never a data condition.
type AssemblyError struct {
	GotRows, GotCols   int
	WantRows, WantCols int
}

// Error implements the error interface.
func (e *AssemblyError) Error() string {
	return fmt.Sprintf("assembled matrix shape (%d, %d) does not match expected (%d, %d)",
		e.GotRows, e.GotCols, e.WantRows, e.WantCols)
}

// wrapError creates a contextual error, returning nil for a nil cause.
func wrapError(context string, cause error) error {
	if cause == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", context, cause)
}
