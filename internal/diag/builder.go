package diag

import (
	"errors"
	"fmt"
)

func New(sev Severity, code Code, primary Location, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

func NewError(code Code, primary Location, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

func (d Diagnostic) WithNote(loc Location, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Loc: loc, Msg: msg})
	return d
}

// Coded is implemented by errors that carry their own diagnostic code and
// location (interp.ConfigError, spec.SyntaxError).
type Coded interface {
	error
	DiagCode() Code
	DiagLocation() Location
}

// FromError converts err into an error diagnostic. Errors that do not carry
// a code become UnknownCode with an empty location.
func FromError(err error) Diagnostic {
	var c Coded
	if errors.As(err, &c) {
		d := NewError(c.DiagCode(), c.DiagLocation(), err.Error())
		if cause := errors.Unwrap(c); cause != nil {
			d = d.WithNote(c.DiagLocation(), fmt.Sprintf("caused by: %v", cause))
		}
		return d
	}
	return NewError(UnknownCode, Location{}, err.Error())
}
