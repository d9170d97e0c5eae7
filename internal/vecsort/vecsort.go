// Package vecsort filters and reorders reference collections for display
// without touching the underlying collection.
package vecsort

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// UnspecifiedKey is the ordering-map key for items that declare no type.
const UnspecifiedKey = "unspecified"

// Order maps semantic-type identifiers onto display indexes.
// Items whose type is absent from Index are dropped; items without a type
// use Unspecified, and are dropped when it is nil.
type Order struct {
	Index       map[string]int
	Unspecified *int
}

// NewOrder builds an Order from raw entries; the UnspecifiedKey entry becomes
// the Unspecified bucket. Identifiers are compared case-insensitively.
func NewOrder(entries map[string]int) Order {
	ord := Order{Index: make(map[string]int, len(entries))}
	for k, v := range entries {
		if strings.EqualFold(k, UnspecifiedKey) {
			idx := v
			ord.Unspecified = &idx
			continue
		}
		ord.Index[normalize(k)] = v
	}
	return ord
}

// FromList builds an Order whose indexes follow the list order.
func FromList(ids []string) Order {
	entries := make(map[string]int, len(ids))
	for i, id := range ids {
		if _, dup := entries[id]; !dup {
			entries[id] = i
		}
	}
	return NewOrder(entries)
}

func normalize(id string) string {
	return strings.ToLower(strings.Trim(strings.TrimSpace(id), "{}"))
}

// Lookup returns the display index for an item type.
func (o Order) Lookup(typ string, declared bool) (int, bool) {
	if !declared || typ == "" {
		if o.Unspecified == nil {
			return 0, false
		}
		return *o.Unspecified, true
	}
	idx, ok := o.Index[normalize(typ)]
	return idx, ok
}

// Apply filters items by their semantic type and sorts the survivors by
// (display index, original position). The input slice is not modified.
func Apply[T any](items []T, typeOf func(T) (string, bool), ord Order) []T {
	type ranked struct {
		item T
		idx  int
		pos  int
	}
	kept := make([]ranked, 0, len(items))
	for pos, it := range items {
		typ, declared := typeOf(it)
		idx, ok := ord.Lookup(typ, declared)
		if !ok {
			continue
		}
		kept = append(kept, ranked{item: it, idx: idx, pos: pos})
	}
	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].idx != kept[j].idx {
			return kept[i].idx < kept[j].idx
		}
		return kept[i].pos < kept[j].pos
	})
	out := make([]T, len(kept))
	for i, r := range kept {
		out[i] = r.item
	}
	return out
}

// ByKey returns items stably sorted by key under the collation rules of tag.
func ByKey[T any](items []T, key func(T) string, tag language.Tag) []T {
	keys := make([]string, len(items))
	idx := make([]int, len(items))
	for i, it := range items {
		keys[i] = key(it)
		idx[i] = i
	}
	col := collate.New(tag, collate.IgnoreCase)
	sort.SliceStable(idx, func(a, b int) bool {
		return col.CompareString(keys[idx[a]], keys[idx[b]]) < 0
	})
	out := make([]T, len(items))
	for i, j := range idx {
		out[i] = items[j]
	}
	return out
}
