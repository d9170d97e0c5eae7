package diagfmt

import (
	"path/filepath"
	"strings"
)

// formatPath renders an origin according to mode. Origins that are not file
// paths ("<spec>", "layouts.xml" read from a reader) pass through unchanged
// in every mode but basename.
func formatPath(origin string, mode PathMode, base string) string {
	if origin == "" {
		return ""
	}
	switch mode {
	case PathModeBasename:
		return filepath.Base(origin)
	case PathModeAbsolute:
		if abs, err := filepath.Abs(origin); err == nil {
			return abs
		}
		return origin
	case PathModeRelative:
		return relative(origin, base)
	default:
		if base != "" && filepath.IsAbs(origin) {
			if rel := relative(origin, base); !strings.HasPrefix(rel, "..") {
				return rel
			}
		}
		return origin
	}
}

func relative(origin, base string) string {
	if base == "" || !filepath.IsAbs(origin) {
		return origin
	}
	rel, err := filepath.Rel(base, origin)
	if err != nil {
		return origin
	}
	return rel
}
