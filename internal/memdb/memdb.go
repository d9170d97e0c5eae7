// Package memdb is an in-memory implementation of every collaborator the
// interpreter needs: Field Metadata (Schema), Object Store (Store),
// Specification Store (Layouts), locale lists (Locales), computed values
// (Computations) and type orderings (Orders). Data comes from YAML files,
// layouts from XML.
package memdb

import (
	"sync"

	"viewspec/internal/model"
	"viewspec/internal/vecsort"
)

// Orders is the OrderSource: named semantic-type orderings.
type Orders struct {
	mu sync.RWMutex
	m  map[string]vecsort.Order
}

// Set defines an ordering.
func (o *Orders) Set(name string, ord vecsort.Order) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.m == nil {
		o.m = make(map[string]vecsort.Order)
	}
	o.m[name] = ord
}

func (o *Orders) Ordering(name string) (vecsort.Order, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	ord, ok := o.m[name]
	return ord, ok
}

// DB bundles the collaborators over one schema.
type DB struct {
	Schema   *Schema
	Store    *Store
	Layouts  *Layouts
	Locales  *Locales
	Computer *Computations
	Orders   *Orders

	// Root is the object documents are rendered from, 0 when not set.
	Root model.Handle
}

// New returns an empty database.
func New() *DB {
	schema := NewSchema()
	store := NewStore(schema)
	locales := NewLocales()
	return &DB{
		Schema:   schema,
		Store:    store,
		Layouts:  NewLayouts(schema),
		Locales:  locales,
		Computer: NewComputations(schema, store, locales),
		Orders:   &Orders{},
	}
}
