package batch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"viewspec/internal/diag"
	"viewspec/internal/interp"
	"viewspec/internal/memdb"
	"viewspec/internal/model"
	"viewspec/internal/trace"
)

type world struct {
	db     *memdb.DB
	roots  []model.Handle
	broken model.Handle
}

func newWorld(t *testing.T, n int) *world {
	t.Helper()
	db := memdb.New()
	s := db.Schema
	entry := s.MustType("Entry", "")
	note := s.MustType("Note", "")
	cit := s.MustField(entry, "Citation", model.FieldString, "")
	s.MustField(note, "Text", model.FieldString, "")

	w := &world{db: db}
	for i := range n {
		h := db.Store.Create(entry)
		require.NoError(t, db.Store.SetString(h, cit, fmt.Sprintf("word%02d", i)))
		w.roots = append(w.roots, h)
	}
	w.broken = db.Store.Create(note)
	require.NoError(t, db.Layouts.Read(strings.NewReader(`<layouts>
		<layout class="Entry" name="publish"><para><string field="Citation"/></para></layout>
	</layouts>`), "batch.xml"))
	return w
}

func (w *world) interpreters(t *testing.T) func() (*interp.Interpreter, error) {
	return func() (*interp.Interpreter, error) {
		return interp.New(interp.Options{
			Specs:      w.db.Layouts,
			Fields:     w.db.Schema,
			Objects:    w.db.Store,
			Locales:    w.db.Locales,
			RootLayout: "publish",
		})
	}
}

func TestRenderIsDeterministicAcrossWorkers(t *testing.T) {
	w := newWorld(t, 20)
	var outputs [][]string
	for _, jobs := range []int{1, 3, 8} {
		res, err := Render(context.Background(), w.roots, Options{NewInterpreter: w.interpreters(t), Jobs: jobs})
		require.NoError(t, err)
		got := make([]string, len(res))
		for i, r := range res {
			require.NoError(t, r.Err)
			assert.Equal(t, w.roots[i], r.Root)
			got[i] = r.Output
		}
		outputs = append(outputs, got)
	}
	assert.Equal(t, "word00\n", outputs[0][0])
	assert.Equal(t, "word19\n", outputs[0][19])
	assert.Equal(t, outputs[0], outputs[1])
	assert.Equal(t, outputs[0], outputs[2])
}

func TestRenderReportsPerRootErrors(t *testing.T) {
	w := newWorld(t, 3)
	ring := trace.NewRingTracer(128, trace.LevelDebug)
	ctx := trace.WithTracer(context.Background(), ring)
	roots := append([]model.Handle{w.broken}, w.roots...)

	res, err := Render(ctx, roots, Options{NewInterpreter: w.interpreters(t), Jobs: 2})
	require.NoError(t, err)
	require.Error(t, res[0].Err)
	assert.Equal(t, diag.CfgUnknownLayout, diag.FromError(res[0].Err).Code)
	assert.Contains(t, res[0].Trace, "root-failed")
	for _, r := range res[1:] {
		assert.NoError(t, r.Err)
		assert.Empty(t, r.Trace)
	}
}

func TestCheckMode(t *testing.T) {
	w := newWorld(t, 4)
	res, err := Render(context.Background(), w.roots, Options{NewInterpreter: w.interpreters(t), Mode: ModeCheck})
	require.NoError(t, err)
	for _, r := range res {
		assert.NoError(t, r.Err)
		assert.Empty(t, r.Output)
		assert.Equal(t, 1, r.Deps)
	}
}

func TestProgressEventsAndWarm(t *testing.T) {
	w := newWorld(t, 5)
	in, err := w.interpreters(t)()
	require.NoError(t, err)
	entry, _ := w.db.Schema.TypeByName("Entry")
	plan := in.AnalyzeLayout(entry, "publish")

	ch := make(chan Event, 64)
	res, err := Render(context.Background(), w.roots, Options{
		NewInterpreter: w.interpreters(t),
		Jobs:           2,
		Warm:           &Warmer{Reader: w.db.Store, Kinds: w.db.Schema, Plan: plan},
		Progress:       ChannelSink{Ch: ch},
	})
	require.NoError(t, err)
	close(ch)
	require.Len(t, res, 5)

	perStatus := map[Status]int{}
	warmDone := false
	for ev := range ch {
		if ev.Index == -1 {
			warmDone = warmDone || (ev.Stage == StageWarm && ev.Status == StatusDone)
			continue
		}
		perStatus[ev.Status]++
	}
	assert.True(t, warmDone)
	assert.Equal(t, map[Status]int{StatusQueued: 5, StatusWorking: 5, StatusDone: 5}, perStatus)
}

func TestRenderValidation(t *testing.T) {
	_, err := Render(context.Background(), nil, Options{})
	require.Error(t, err)

	w := newWorld(t, 1)
	res, err := Render(context.Background(), nil, Options{NewInterpreter: w.interpreters(t)})
	require.NoError(t, err)
	assert.Empty(t, res)

	boom := errors.New("boom")
	_, err = Render(context.Background(), w.roots, Options{NewInterpreter: func() (*interp.Interpreter, error) { return nil, boom }})
	assert.ErrorIs(t, err, boom)
}
