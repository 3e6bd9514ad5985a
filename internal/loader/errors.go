package loader

import "fmt"

// LoadError reports a failure to read the company list. Line is the 1-based
// source line (sheet row for XLSX) where the bad record starts, or 0 when the
// failure is not tied to a record.
type LoadError struct {
	Path string
	Line int
	Err  error
}

func (e *LoadError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("load %s: line %d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
