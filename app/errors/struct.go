package errors

import (
	"errors"
	"maps"
	"slices"
)

// StructuredError enhances an error with structured metadata and a cause, which
// can be rendered as fields by slog.
type StructuredError struct {
	err      error
	metadata map[string]any
	cause    error
}

// Error implements the error interface.
func (e StructuredError) Error() string {
	return e.err.Error()
}

// Unwrap allows errors.Is and errors.As to work.
func (e StructuredError) Unwrap() []error {
	var errs []error
	if e.err != nil {
		errs = append(errs, e.err)
	}
	if e.cause != nil {
		errs = append(errs, e.cause)
	}
	return errs
}

// Cause returns the cause error of this error.
func (e StructuredError) Cause() error {
	return e.cause
}

// Metadata returns a copy of the metadata map.
func (e StructuredError) Metadata() map[string]any {
	if e.metadata == nil {
		return nil
	}
	return maps.Clone(e.metadata)
}

// Attrs returns the cause and metadata as alternating key/value pairs, suitable
// for passing to slog. The cause comes first, and the remaining keys are
// sorted.
func (e StructuredError) Attrs() []any {
	attrs := make([]any, 0, len(e.metadata)*2+2)

	cause := e.metadata["cause"]
	if e.cause != nil {
		cause = e.cause
	}
	if cause != nil {
		attrs = append(attrs, "cause", cause)
	}

	for _, k := range slices.Sorted(maps.Keys(e.metadata)) {
		if k == "cause" {
			continue
		}
		attrs = append(attrs, k, e.metadata[k])
	}

	return attrs
}

// NewWith creates a new StructuredError from a message string with optional metadata.
func NewWith(msg string, fields ...any) *StructuredError {
	return With(errors.New(msg), fields...)
}

// NewWithCause creates a new StructuredError from a message string with a cause
// and optional metadata.
func NewWithCause(msg string, cause error, fields ...any) *StructuredError {
	return WithCause(errors.New(msg), cause, fields...)
}

// With adds metadata to an error. If the error is already a StructuredError,
// it merges the metadata and keeps its cause.
func With(err error, fields ...any) *StructuredError {
	return merge(err, fields)
}

// WithCause is like With, but also sets the cause, replacing any existing one.
func WithCause(err error, cause error, fields ...any) *StructuredError {
	se := merge(err, fields)
	se.cause = cause
	return se
}

func merge(err error, fields []any) *StructuredError {
	metadata := fieldsToMap(fields)

	me, ok := err.(*StructuredError) //nolint:errorlint // Only merge direct StructuredErrors.
	if !ok {
		return &StructuredError{err: err, metadata: metadata}
	}

	combined := make(map[string]any, len(me.metadata)+len(metadata))
	maps.Copy(combined, me.metadata)
	maps.Copy(combined, metadata) // newer metadata overwrites older

	return &StructuredError{err: me.err, metadata: combined, cause: me.cause}
}

func fieldsToMap(fields []any) map[string]any {
	if len(fields)%2 != 0 {
		panic("an even number of fields is required")
	}

	metadata := make(map[string]any, len(fields)/2)
	for i := 0; i < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			panic("keys must be strings")
		}
		metadata[key] = fields[i+1]
	}

	return metadata
}
