package preload

import (
	"context"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"viewspec/internal/model"
)

// Reader is the read side of the object store that warming needs.
type Reader interface {
	Int(h model.Handle, f model.FieldID) int64
	String(h model.Handle, f model.FieldID) string
	LocaleString(h model.Handle, f model.FieldID, loc model.Locale) string
	Ref(h model.Handle, f model.FieldID) model.Handle
	Refs(h model.Handle, f model.FieldID) []model.Handle
}

// Kinds resolves field storage kinds.
type Kinds interface {
	Field(id model.FieldID) (model.FieldInfo, bool)
}

// Stats reports what Warm touched.
type Stats struct {
	Objects int64
	Reads   int64
}

// Warm reads everything plan declares for every root, in parallel, and
// discards the values. It only pays off when r sits in front of a cache or a
// slow backend that keeps what was read; against memdb it just counts.
// The store must be safe for concurrent readers. Each root is walked by one
// goroutine; objects reached twice through the same plan node are read once.
func Warm(ctx context.Context, r Reader, kinds Kinds, roots []model.Handle, plan *Info, jobs int) (Stats, error) {
	if plan == nil || len(roots) == 0 {
		return Stats{}, nil
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	var objects, reads atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(roots)))
	for _, root := range roots {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			w := warmer{r: r, kinds: kinds, seen: make(map[visit]struct{})}
			w.walk(root, plan)
			objects.Add(w.objects)
			reads.Add(w.reads)
			return nil
		})
	}
	err := g.Wait()
	return Stats{Objects: objects.Load(), Reads: reads.Load()}, err
}

type visit struct {
	h    model.Handle
	node *Info
}

type warmer struct {
	r       Reader
	kinds   Kinds
	seen    map[visit]struct{}
	objects int64
	reads   int64
}

func (w *warmer) walk(h model.Handle, node *Info) {
	if h == model.NoHandle {
		return
	}
	key := visit{h: h, node: node}
	if _, ok := w.seen[key]; ok {
		return
	}
	w.seen[key] = struct{}{}
	w.objects++

	for _, u := range node.Fields {
		info, ok := w.kinds.Field(u.Field)
		if !ok {
			continue
		}
		w.reads++
		switch info.Kind {
		case model.FieldInt, model.FieldBool:
			w.r.Int(h, u.Field)
		case model.FieldString:
			w.r.String(h, u.Field)
		case model.FieldLocaleString:
			w.r.LocaleString(h, u.Field, u.Locale)
		case model.FieldRef:
			w.r.Ref(h, u.Field)
		case model.FieldRefSeq:
			w.r.Refs(h, u.Field)
		}
	}
	for _, c := range node.Children {
		w.reads++
		if c.Many {
			for _, item := range w.r.Refs(h, c.Field) {
				w.walk(item, c.Info)
			}
			continue
		}
		w.walk(w.r.Ref(h, c.Field), c.Info)
	}
}
