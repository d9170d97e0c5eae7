package batch

import (
	"time"

	"viewspec/internal/model"
)

// Stage describes a phase of a batch.
type Stage string

const (
	// StageWarm is the preload stage.
	StageWarm Stage = "warm"
	// StageRender is the per-root render stage.
	StageRender Stage = "render"
	// StageCheck is the per-root render into a recorder.
	StageCheck Stage = "check"
)

// Status captures progress state within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Event reports progress for one root, or for the whole batch when Index
// is -1.
type Event struct {
	Index   int
	Root    model.Handle
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. It is called from worker
// goroutines concurrently.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

// Result is the outcome for one root. Results come back in root order
// whatever the number of workers.
type Result struct {
	Root    model.Handle
	Output  string
	Deps    int
	Elided  int
	Err     error
	Trace   string // ring tracer dump taken when the root failed
	Elapsed time.Duration
}
