package convert

import "fmt"

// ReadError reports an input that could not be opened or read. The
// conversion is aborted and nothing is written.
type ReadError struct {
	Path   string
	Format string
	Err    error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("Could not open %s file %s: %v", e.Format, e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// WriteError reports an output that could not be created or written
// after the conversion itself succeeded.
type WriteError struct {
	Path   string
	Format string
	Op     string // "create" or "write"
	Err    error
}

func (e *WriteError) Error() string {
	if e.Op == "create" {
		return fmt.Sprintf("Could not create %s file: %v", e.Format, e.Err)
	}
	return fmt.Sprintf("Could not write to %s file: %v", e.Format, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// ArgumentError reports a missing input or output path.
type ArgumentError struct{ Message string }

func (e ArgumentError) Error() string { return e.Message }
