package interp

import (
	"errors"
	"fmt"

	"viewspec/internal/diag"
	"viewspec/internal/spec"
)

// ConfigError is a bad specification: a missing mandatory attribute, a field
// that does not resolve, a region nested where it cannot be. It aborts the
// current Display call and names the node that caused it.
type ConfigError struct {
	Node  *spec.Node
	Code  diag.Code
	Msg   string
	Cause error
}

func (e *ConfigError) Error() string {
	s := e.Msg
	if e.Node != nil {
		s = e.Node.Where() + ": " + s
	}
	if e.Cause != nil {
		s += ": " + e.Cause.Error()
	}
	return s
}

func (e *ConfigError) Unwrap() error { return e.Cause }

func (e *ConfigError) DiagCode() diag.Code { return e.Code }

func (e *ConfigError) DiagLocation() diag.Location {
	if e.Node == nil {
		return diag.Location{}
	}
	return diag.Location{Origin: e.Node.Origin, Line: e.Node.Line, Node: e.Node.Kind.String()}
}

// ErrStaleFragment is returned by Display for a fragment id minted before the
// table was reset. Ids that were never minted still panic.
var ErrStaleFragment = errors.New("interp: stale fragment id")

func configErr(n *spec.Node, code diag.Code, format string, args ...any) error {
	return &ConfigError{Node: n, Code: code, Msg: fmt.Sprintf(format, args...)}
}

func missingAttr(n *spec.Node, attr string) error {
	return configErr(n, diag.CfgMissingAttr, "missing attribute %q", attr)
}

func badValue(n *spec.Node, attr string, cause error) error {
	return &ConfigError{Node: n, Code: diag.CfgBadValue, Msg: fmt.Sprintf("bad value for %q", attr), Cause: cause}
}

// IsConfigError reports whether err is, or wraps, a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
