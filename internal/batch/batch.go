// Package batch renders many root objects in parallel. Interpreters are
// single-threaded, so every worker owns one.
package batch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"viewspec/internal/fragment"
	"viewspec/internal/interp"
	"viewspec/internal/model"
	"viewspec/internal/preload"
	"viewspec/internal/surface"
	"viewspec/internal/trace"
)

// Mode selects the surface each root is rendered into.
type Mode uint8

const (
	// ModeTerminal renders text through surface.Terminal.
	ModeTerminal Mode = iota
	// ModeCheck renders into a surface.Recorder and checks region balance.
	ModeCheck
)

// Warmer is the object store side used for preloading.
type Warmer struct {
	Reader preload.Reader
	Kinds  preload.Kinds
	Plan   *preload.Info
}

// Options configures Render.
type Options struct {
	// NewInterpreter builds the interpreter of one worker.
	NewInterpreter func() (*interp.Interpreter, error)

	// Frag is the fragment every root is displayed with. Only reserved
	// fragments are shared by every worker's table; the default is
	// fragment.Root.
	Frag model.FragID

	Jobs     int
	Mode     Mode
	Terminal surface.TerminalOptions

	Warm     *Warmer
	Progress ProgressSink
}

// ErrUnbalanced is reported in check mode for a root whose regions do not
// close.
var ErrUnbalanced = errors.New("unbalanced regions")

// Render displays every root. Per-root failures are reported in the results;
// the returned error is only set when the batch itself could not run.
func Render(ctx context.Context, roots []model.Handle, opts Options) ([]Result, error) {
	if opts.NewInterpreter == nil {
		return nil, errors.New("batch: NewInterpreter is required")
	}
	if opts.Frag == fragment.None {
		opts.Frag = fragment.Root
	}
	results := make([]Result, len(roots))
	if len(roots) == 0 {
		return results, nil
	}
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	jobs = min(jobs, len(roots))

	sp, ctx := trace.BeginCtx(ctx, trace.ScopeBatch, "batch")
	sp.WithExtra("roots", fmt.Sprint(len(roots))).WithExtra("jobs", fmt.Sprint(jobs))
	defer sp.End("")

	emit := func(ev Event) {
		if opts.Progress != nil {
			opts.Progress.OnEvent(ev)
		}
	}
	stage := StageRender
	if opts.Mode == ModeCheck {
		stage = StageCheck
	}
	for i, h := range roots {
		results[i].Root = h
		emit(Event{Index: i, Root: h, Stage: stage, Status: StatusQueued})
	}

	if w := opts.Warm; w != nil && w.Plan != nil {
		if err := warm(ctx, w, roots, jobs, emit); err != nil {
			return results, err
		}
	}

	next := make(chan int)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(next)
		for i := range roots {
			select {
			case next <- i:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})
	for worker := range jobs {
		g.Go(func() error {
			in, err := opts.NewInterpreter()
			if err != nil {
				return fmt.Errorf("batch: worker %d: %w", worker, err)
			}
			for i := range next {
				emit(Event{Index: i, Root: roots[i], Stage: stage, Status: StatusWorking})
				results[i] = renderOne(gctx, in, roots[i], opts)
				ev := Event{Index: i, Root: roots[i], Stage: stage, Status: StatusDone, Elapsed: results[i].Elapsed}
				if results[i].Err != nil {
					ev.Status, ev.Err = StatusError, results[i].Err
				}
				emit(ev)
			}
			return nil
		})
	}
	return results, g.Wait()
}

func warm(ctx context.Context, w *Warmer, roots []model.Handle, jobs int, emit func(Event)) error {
	emit(Event{Index: -1, Stage: StageWarm, Status: StatusWorking})
	sp, ctx := trace.BeginCtx(ctx, trace.ScopeBatch, "warm")
	start := time.Now()
	st, err := preload.Warm(ctx, w.Reader, w.Kinds, roots, w.Plan, jobs)
	sp.WithExtra("objects", fmt.Sprint(st.Objects)).WithExtra("reads", fmt.Sprint(st.Reads)).End("")
	if err != nil {
		emit(Event{Index: -1, Stage: StageWarm, Status: StatusError, Err: err})
		return fmt.Errorf("batch: preload: %w", err)
	}
	emit(Event{Index: -1, Stage: StageWarm, Status: StatusDone, Elapsed: time.Since(start)})
	return nil
}

func renderOne(ctx context.Context, in *interp.Interpreter, root model.Handle, opts Options) Result {
	res := Result{Root: root}
	start := time.Now()
	sp, ctx := trace.BeginCtx(ctx, trace.ScopeRoot, "root")
	sp.WithExtra("handle", fmt.Sprint(root))

	var err error
	switch opts.Mode {
	case ModeCheck:
		rec := surface.NewRecorder()
		err = in.Display(rec, root, opts.Frag)
		res.Deps = len(rec.Deps())
		if err == nil && !rec.Balanced() {
			err = fmt.Errorf("root %d: %w", root, ErrUnbalanced)
		}
	default:
		var buf bytes.Buffer
		term := surface.NewTerminal(&buf, opts.Terminal)
		err = in.Display(term, root, opts.Frag)
		res.Deps = term.Dependencies()
		res.Elided = term.Elided()
		if ferr := term.Flush(&buf); ferr != nil && err == nil {
			err = ferr
		}
		res.Output = buf.String()
	}
	res.Elapsed = time.Since(start)

	if err != nil {
		res.Err = err
		tracer := trace.FromContext(ctx)
		trace.Error(tracer, trace.ScopeRoot, "root-failed", err)
		if ring, ok := trace.Ring(tracer); ok {
			var dump bytes.Buffer
			if derr := ring.Dump(&dump, trace.FormatText); derr == nil {
				res.Trace = dump.String()
			}
		}
		sp.WithExtra("error", "true")
	}
	sp.End("")
	return res
}
