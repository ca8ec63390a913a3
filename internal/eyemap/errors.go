package eyemap

import "fmt"

// ValidationError reports malformed input. It names the offending record
// index and field so callers can point at the exact source row. Validation
// failures are always surfaced; nothing is auto-corrected.
type ValidationError struct {
	Index int
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed at record %d, field %q: %s", e.Index, e.Field, e.Msg)
	}
	return fmt.Sprintf("validation failed at record %d: %s", e.Index, e.Msg)
}

// DataProcessingError reports a statistics-stage failure, such as having no
// positive values to bound a metric. In non-strict mode such conditions
// degrade to documented defaults with a logged warning instead of raising.
type DataProcessingError struct {
	Op  string
	Msg string
	Err error
}

func (e *DataProcessingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Msg)
}

func (e *DataProcessingError) Unwrap() error { return e.Err }

// RenderingError reports a rendering-contract violation. Rendering errors
// are always fatal: there is no fallback renderer and no partial output.
type RenderingError struct {
	Stage string
	Msg   string
	Err   error
}

func (e *RenderingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("rendering failed in %s: %s: %v", e.Stage, e.Msg, e.Err)
	}
	return fmt.Sprintf("rendering failed in %s: %s", e.Stage, e.Msg)
}

func (e *RenderingError) Unwrap() error { return e.Err }
