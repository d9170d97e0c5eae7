package fragment

import (
	"fmt"

	"fortio.org/safecast"

	"viewspec/internal/model"
)

// Reserved fragment ids.
const (
	None    model.FragID = 0 // never valid
	Root    model.FragID = 1 // root layout of the root object
	MainSeq model.FragID = 2 // main lazy sequence

	firstDynamic model.FragID = 3
)

// Table memoises Display Commands as small integer fragment ids.
// It is not safe for concurrent use; one table belongs to one interpreter.
type Table struct {
	byCmd  map[Command]model.FragID
	byID   map[model.FragID]Command
	next   model.FragID
	floor  model.FragID // first id minted since the last Reset
	resets int
}

// NewTable creates a table whose root fragment displays rootLayout.
func NewTable(rootLayout string) *Table {
	t := &Table{next: firstDynamic, floor: firstDynamic}
	t.init(rootLayout)
	return t
}

func (t *Table) init(rootLayout string) {
	t.byCmd = make(map[Command]model.FragID, 64)
	t.byID = make(map[model.FragID]Command, 64)
	t.byID[Root] = Layout(rootLayout, nil)
	t.byID[MainSeq] = Command{Kind: CmdMainSeq, Layout: rootLayout}
}

// GetOrCreate returns the id bound to cmd, allocating one on first use.
func (t *Table) GetOrCreate(cmd Command) model.FragID {
	if id, ok := t.byCmd[cmd]; ok {
		return id
	}
	id := t.next
	t.next++
	t.byCmd[cmd] = id
	t.byID[id] = cmd
	return id
}

// Lookup returns the command bound to id.
func (t *Table) Lookup(id model.FragID) (Command, bool) {
	cmd, ok := t.byID[id]
	return cmd, ok
}

// Resolve returns the command bound to id. An unknown id is a programming
// error and panics.
func (t *Table) Resolve(id model.FragID) Command {
	cmd, ok := t.byID[id]
	if !ok {
		panic(fmt.Sprintf("fragment: unknown fragment id %d", id))
	}
	return cmd
}

// Reset drops every memoised fragment and rebinds Root to newRootLayout.
// Ids are never reused, so fragments minted before the reset stay invalid.
func (t *Table) Reset(newRootLayout string) {
	t.init(newRootLayout)
	t.floor = t.next
	t.resets++
}

// Stale reports whether id was minted before the last Reset.
func (t *Table) Stale(id model.FragID) bool {
	return id >= firstDynamic && id < t.floor
}

// RootLayout is the layout currently bound to Root.
func (t *Table) RootLayout() string {
	return t.byID[Root].Layout
}

// Len is the number of memoised (non-reserved) fragments.
func (t *Table) Len() int {
	return len(t.byCmd)
}

// Resets counts Reset calls.
func (t *Table) Resets() int {
	return t.resets
}

// Allocated returns how many ids have ever been handed out, reserved included.
func (t *Table) Allocated() uint32 {
	n, err := safecast.Conv[uint32](int64(t.next) - 1)
	if err != nil {
		return 0
	}
	return n
}
