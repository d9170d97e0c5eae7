// Package config loads viewspec.toml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"viewspec/internal/diag"
)

// FileName is the configuration file looked up from the working directory.
const FileName = "viewspec.toml"

// Config is the resolved configuration. Relative data paths are resolved
// against the directory holding the file.
type Config struct {
	Path string // empty when defaults are used
	Root string

	Data     Data
	Render   Render
	Locales  Locales
	Analysis Analysis
	Estimate Estimate
	Batch    Batch
}

type Data struct {
	Schema  string   `toml:"schema"`
	Objects string   `toml:"objects"`
	Layouts []string `toml:"layouts"`
}

type Render struct {
	RootLayout string `toml:"root_layout"`
	MainField  string `toml:"main_field"`
	Width      int    `toml:"width"`
}

// Locales overrides the lists declared in the schema file.
type Locales struct {
	Vernacular []string `toml:"vernacular"`
	Analysis   []string `toml:"analysis"`
	UI         string   `toml:"ui"`
}

type Analysis struct {
	MaxDepth       int `toml:"max_depth"`
	MaxVectorDepth int `toml:"max_vector_depth"`
}

type Estimate struct {
	LineHeight int `toml:"line_height"`
}

type Batch struct {
	Jobs int `toml:"jobs"`
}

var (
	// ErrDataSectionMissing indicates that [data] is missing.
	ErrDataSectionMissing = errors.New("missing [data]")
	// ErrSchemaMissing indicates that [data].schema is missing.
	ErrSchemaMissing = errors.New("missing [data].schema")
	// ErrLayoutsMissing indicates that [data].layouts is empty.
	ErrLayoutsMissing = errors.New("missing [data].layouts")
)

// Error is a configuration file problem.
type Error struct {
	Path string
	Code diag.Code
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) DiagCode() diag.Code { return e.Code }

func (e *Error) DiagLocation() diag.Location { return diag.Location{Origin: e.Path} }

// Default returns the configuration used when a value is not set.
func Default() Config {
	return Config{
		Render:   Render{RootLayout: "default", Width: 80},
		Estimate: Estimate{LineHeight: 1},
		Locales:  Locales{UI: "en"},
	}
}

// Find walks up from startDir to locate viewspec.toml.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover finds and loads the configuration for startDir. explicit, when
// set, is used instead of walking up.
func Discover(startDir, explicit string) (Config, error) {
	path := explicit
	if path == "" {
		found, ok, err := Find(startDir)
		if err != nil {
			return Config{}, err
		}
		if !ok {
			return Config{}, &Error{Path: filepath.Join(startDir, FileName), Code: diag.ProjConfigMissing,
				Err: fmt.Errorf("%s not found in %s or any parent", FileName, startDir)}
		}
		path = found
	}
	return Load(path)
}

type file struct {
	Data     Data     `toml:"data"`
	Render   Render   `toml:"render"`
	Locales  Locales  `toml:"locales"`
	Analysis Analysis `toml:"analysis"`
	Estimate Estimate `toml:"estimate"`
	Batch    Batch    `toml:"batch"`
}

// Load parses path and fills unset values from Default.
func Load(path string) (Config, error) {
	var raw file
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		code := diag.ProjConfigInvalid
		if errors.Is(err, os.ErrNotExist) {
			code = diag.ProjConfigMissing
		}
		return Config{}, &Error{Path: path, Code: code, Err: fmt.Errorf("failed to parse TOML: %w", err)}
	}
	invalid := func(err error) (Config, error) {
		return Config{}, &Error{Path: path, Code: diag.ProjConfigInvalid, Err: err}
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return invalid(fmt.Errorf("unknown keys: %s", strings.Join(keys, ", ")))
	}
	if !meta.IsDefined("data") {
		return invalid(ErrDataSectionMissing)
	}
	if !meta.IsDefined("data", "schema") || strings.TrimSpace(raw.Data.Schema) == "" {
		return invalid(ErrSchemaMissing)
	}
	if len(raw.Data.Layouts) == 0 {
		return invalid(ErrLayoutsMissing)
	}

	cfg := Default()
	cfg.Path = path
	cfg.Root = filepath.Dir(path)
	cfg.Data = Data{
		Schema:  cfg.resolve(raw.Data.Schema),
		Objects: cfg.resolve(raw.Data.Objects),
	}
	for _, l := range raw.Data.Layouts {
		cfg.Data.Layouts = append(cfg.Data.Layouts, cfg.resolve(l))
	}

	if meta.IsDefined("render", "root_layout") {
		cfg.Render.RootLayout = strings.TrimSpace(raw.Render.RootLayout)
	}
	if meta.IsDefined("render", "main_field") {
		cfg.Render.MainField = strings.TrimSpace(raw.Render.MainField)
	}
	if meta.IsDefined("render", "width") {
		if raw.Render.Width < 0 {
			return invalid(fmt.Errorf("[render].width must not be negative, got %d", raw.Render.Width))
		}
		cfg.Render.Width = raw.Render.Width
	}

	cfg.Locales.Vernacular = raw.Locales.Vernacular
	cfg.Locales.Analysis = raw.Locales.Analysis
	if meta.IsDefined("locales", "ui") {
		cfg.Locales.UI = strings.TrimSpace(raw.Locales.UI)
	}

	for _, v := range []struct {
		key string
		n   int
		dst *int
	}{
		{"max_depth", raw.Analysis.MaxDepth, &cfg.Analysis.MaxDepth},
		{"max_vector_depth", raw.Analysis.MaxVectorDepth, &cfg.Analysis.MaxVectorDepth},
	} {
		if !meta.IsDefined("analysis", v.key) {
			continue
		}
		if v.n <= 0 {
			return invalid(fmt.Errorf("[analysis].%s must be positive, got %d", v.key, v.n))
		}
		*v.dst = v.n
	}
	if meta.IsDefined("estimate", "line_height") {
		if raw.Estimate.LineHeight <= 0 {
			return invalid(fmt.Errorf("[estimate].line_height must be positive, got %d", raw.Estimate.LineHeight))
		}
		cfg.Estimate.LineHeight = raw.Estimate.LineHeight
	}
	if meta.IsDefined("batch", "jobs") {
		cfg.Batch.Jobs = raw.Batch.Jobs
	}
	return cfg, nil
}

func (c *Config) resolve(p string) string {
	p = strings.TrimSpace(p)
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Root, filepath.FromSlash(p))
}
