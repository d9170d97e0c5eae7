package memdb

import (
	"sync"

	"golang.org/x/text/language/display"

	"viewspec/internal/model"
)

// Locales is the locale enumeration service: named, ordered locale lists
// ("vernacular", "analysis") and the labels shown before values.
type Locales struct {
	mu     sync.RWMutex
	lists  map[string][]model.Locale
	labels map[model.Locale]string
}

// NewLocales returns a service without lists.
func NewLocales() *Locales {
	return &Locales{lists: make(map[string][]model.Locale), labels: make(map[model.Locale]string)}
}

// SetList defines or replaces a list.
func (l *Locales) SetList(name string, locs ...model.Locale) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lists[name] = append([]model.Locale(nil), locs...)
}

// SetLabel overrides the label of loc.
func (l *Locales) SetLabel(loc model.Locale, label string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.labels[loc] = label
}

func (l *Locales) HasList(name string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.lists[name]
	return ok
}

// Locales ignores the field: every field of a list shares its locales.
func (l *Locales) Locales(list string, _ model.FieldID) []model.Locale {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]model.Locale(nil), l.lists[list]...)
}

// Label returns the configured label, else the locale's own name for itself
// ("français"), else the tag.
func (l *Locales) Label(loc model.Locale) string {
	l.mu.RLock()
	label, ok := l.labels[loc]
	l.mu.RUnlock()
	if ok {
		return label
	}
	if name := display.Self.Name(loc.Tag()); name != "" {
		return name
	}
	return string(loc)
}
