package spec

import (
	"fmt"

	"viewspec/internal/diag"
)

// SyntaxError reports a document the loader rejected.
type SyntaxError struct {
	Origin string
	Line   int // 0 when unknown
	Code   diag.Code
	Msg    string
	Err    error
}

func (e *SyntaxError) Error() string {
	loc := e.Origin
	if e.Line > 0 {
		loc = fmt.Sprintf("%s:%d", e.Origin, e.Line)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", loc, e.Msg, e.Err)
	}
	return loc + ": " + e.Msg
}

func (e *SyntaxError) Unwrap() error { return e.Err }

func (e *SyntaxError) DiagCode() diag.Code { return e.Code }

func (e *SyntaxError) DiagLocation() diag.Location {
	return diag.Location{Origin: e.Origin, Line: e.Line}
}

func syntaxErr(origin string, line int, code diag.Code, format string, args ...any) error {
	return &SyntaxError{Origin: origin, Line: line, Code: code, Msg: fmt.Sprintf(format, args...)}
}
