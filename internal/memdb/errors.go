package memdb

import (
	"fmt"

	"viewspec/internal/diag"
)

// LoadError is a problem in a schema, objects or layouts file.
type LoadError struct {
	Origin string
	Line   int
	Code   diag.Code
	Err    error
}

func (e *LoadError) Error() string {
	switch {
	case e.Origin != "" && e.Line > 0:
		return fmt.Sprintf("%s:%d: %v", e.Origin, e.Line, e.Err)
	case e.Origin != "":
		return fmt.Sprintf("%s: %v", e.Origin, e.Err)
	}
	return e.Err.Error()
}

func (e *LoadError) Unwrap() error { return e.Err }

func (e *LoadError) DiagCode() diag.Code { return e.Code }

func (e *LoadError) DiagLocation() diag.Location {
	return diag.Location{Origin: e.Origin, Line: e.Line}
}
