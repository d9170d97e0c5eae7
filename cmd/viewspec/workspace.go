package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"viewspec/internal/config"
	"viewspec/internal/diag"
	"viewspec/internal/interp"
	"viewspec/internal/memdb"
	"viewspec/internal/model"
	"viewspec/internal/trace"
)

// workspace is a loaded project: its configuration and object database.
type workspace struct {
	cfg config.Config
	db  *memdb.DB
}

func loadWorkspace(cmd *cobra.Command) (*workspace, error) {
	explicit, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	cfg, err := config.Discover(".", explicit)
	if err != nil {
		return nil, err
	}

	sp, _ := trace.BeginCtx(cmd.Context(), trace.ScopeBatch, "load")
	db, err := memdb.Load(memdb.Paths{
		Schema:  cfg.Data.Schema,
		Objects: cfg.Data.Objects,
		Layouts: cfg.Data.Layouts,
	})
	sp.End(cfg.Path)
	if err != nil {
		return nil, err
	}
	if err := applyLocales(db, cfg.Locales); err != nil {
		return nil, &config.Error{Path: cfg.Path, Code: diag.ProjConfigInvalid, Err: err}
	}
	return &workspace{cfg: cfg, db: db}, nil
}

func applyLocales(db *memdb.DB, l config.Locales) error {
	for name, tags := range map[string][]string{"vernacular": l.Vernacular, "analysis": l.Analysis} {
		if len(tags) == 0 {
			continue
		}
		locs := make([]model.Locale, 0, len(tags))
		for _, tag := range tags {
			loc, err := model.ParseLocale(tag)
			if err != nil {
				return fmt.Errorf("[locales].%s: %w", name, err)
			}
			locs = append(locs, loc)
		}
		db.Locales.SetList(name, locs...)
	}
	return nil
}

// interpreters returns a factory of interpreters sharing the workspace
// database. layout overrides [render].root_layout when set.
func (ws *workspace) interpreters(cmd *cobra.Command, layout string) (func() (*interp.Interpreter, error), error) {
	if layout == "" {
		layout = ws.cfg.Render.RootLayout
	}
	ui, err := model.ParseLocale(ws.cfg.Locales.UI)
	if err != nil {
		return nil, &config.Error{Path: ws.cfg.Path, Code: diag.ProjConfigInvalid, Err: fmt.Errorf("[locales].ui: %w", err)}
	}
	tracer := trace.FromContext(cmd.Context())
	return func() (*interp.Interpreter, error) {
		return interp.New(interp.Options{
			Specs:          ws.db.Layouts,
			Fields:         ws.db.Schema,
			Objects:        ws.db.Store,
			Locales:        ws.db.Locales,
			Computer:       ws.db.Computer,
			Orders:         ws.db.Orders,
			UILocale:       ui,
			RootLayout:     layout,
			MainField:      ws.cfg.Render.MainField,
			MaxDepth:       ws.cfg.Analysis.MaxDepth,
			MaxVectorDepth: ws.cfg.Analysis.MaxVectorDepth,
			Tracer:         tracer,
		})
	}, nil
}

// roots parses handles given on the command line. Without arguments the
// items of the root object's main collection are used, or the root object
// itself when no main field is configured.
func (ws *workspace) roots(args []string) ([]model.Handle, error) {
	if len(args) > 0 {
		out := make([]model.Handle, 0, len(args))
		for _, a := range args {
			n, err := strconv.ParseUint(a, 10, 64)
			if err != nil || n == 0 {
				return nil, fmt.Errorf("invalid object handle %q", a)
			}
			h := model.Handle(n)
			if ws.db.Store.TypeOf(h) == model.NoType {
				return nil, fmt.Errorf("unknown object %d", n)
			}
			out = append(out, h)
		}
		return out, nil
	}
	root := ws.db.Root
	if root == model.NoHandle {
		return nil, fmt.Errorf("no objects given and the object file declares no root")
	}
	if ws.cfg.Render.MainField == "" {
		return []model.Handle{root}, nil
	}
	f, ok := ws.db.Schema.FieldID(ws.db.Store.TypeOf(root), ws.cfg.Render.MainField)
	if !ok {
		return nil, fmt.Errorf("root object has no field %q", ws.cfg.Render.MainField)
	}
	return ws.db.Store.Refs(root, f), nil
}

// typeOf resolves --class, defaulting to the type of the root object.
func (ws *workspace) typeOf(class string) (model.TypeID, error) {
	if class == "" {
		if ws.db.Root == model.NoHandle {
			return 0, fmt.Errorf("--class is required when the object file declares no root")
		}
		return ws.db.Store.TypeOf(ws.db.Root), nil
	}
	t, ok := ws.db.Schema.TypeByName(class)
	if !ok {
		return 0, fmt.Errorf("unknown class %q", class)
	}
	return t, nil
}

func (ws *workspace) fieldName(id model.FieldID) string {
	if fi, ok := ws.db.Schema.Field(id); ok {
		return fi.Name
	}
	return "#" + strconv.FormatUint(uint64(id), 10)
}
