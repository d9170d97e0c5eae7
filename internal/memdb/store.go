package memdb

import (
	"fmt"
	"slices"
	"sync"

	"viewspec/internal/model"
)

type object struct {
	typ  model.TypeID
	ints map[model.FieldID]int64
	strs map[model.FieldID]string
	ml   map[model.FieldID]map[model.Locale]string
	ref  map[model.FieldID]model.Handle
	refs map[model.FieldID][]model.Handle
}

func newObject(t model.TypeID) *object {
	return &object{
		typ:  t,
		ints: make(map[model.FieldID]int64),
		strs: make(map[model.FieldID]string),
		ml:   make(map[model.FieldID]map[model.Locale]string),
		ref:  make(map[model.FieldID]model.Handle),
		refs: make(map[model.FieldID][]model.Handle),
	}
}

// Store is an in-memory Object Store. Reads are safe for concurrent use;
// reads of missing objects or unset fields return zero values.
type Store struct {
	schema *Schema

	mu      sync.RWMutex
	objects map[model.Handle]*object
	next    model.Handle

	subMu  sync.Mutex
	subs   map[int]func(model.Change)
	nextID int
}

// NewStore creates an empty store over schema.
func NewStore(schema *Schema) *Store {
	return &Store{
		schema:  schema,
		objects: make(map[model.Handle]*object),
		next:    1,
		subs:    make(map[int]func(model.Change)),
	}
}

// Create adds an object of type t with the next free handle.
func (s *Store) Create(t model.TypeID) model.Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	for s.objects[s.next] != nil {
		s.next++
	}
	h := s.next
	s.next++
	s.objects[h] = newObject(t)
	return h
}

// CreateWithHandle adds an object under a caller-chosen handle.
func (s *Store) CreateWithHandle(h model.Handle, t model.TypeID) error {
	if h == model.NoHandle {
		return fmt.Errorf("handle 0 is reserved")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.objects[h]; dup {
		return fmt.Errorf("object %d already exists", h)
	}
	s.objects[h] = newObject(t)
	return nil
}

// Len is the number of objects.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

// Handles returns every handle in ascending order.
func (s *Store) Handles() []model.Handle {
	s.mu.RLock()
	out := make([]model.Handle, 0, len(s.objects))
	for h := range s.objects {
		out = append(out, h)
	}
	s.mu.RUnlock()
	slices.Sort(out)
	return out
}

func (s *Store) get(h model.Handle) *object {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.objects[h]
}

func (s *Store) TypeOf(h model.Handle) model.TypeID {
	if o := s.get(h); o != nil {
		return o.typ
	}
	return model.NoType
}

func (s *Store) Int(h model.Handle, f model.FieldID) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if o := s.objects[h]; o != nil {
		return o.ints[f]
	}
	return 0
}

func (s *Store) String(h model.Handle, f model.FieldID) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if o := s.objects[h]; o != nil {
		return o.strs[f]
	}
	return ""
}

func (s *Store) LocaleString(h model.Handle, f model.FieldID, loc model.Locale) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if o := s.objects[h]; o != nil {
		return o.ml[f][loc]
	}
	return ""
}

func (s *Store) Ref(h model.Handle, f model.FieldID) model.Handle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if o := s.objects[h]; o != nil {
		return o.ref[f]
	}
	return model.NoHandle
}

// Refs returns a copy of the collection.
func (s *Store) Refs(h model.Handle, f model.FieldID) []model.Handle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if o := s.objects[h]; o != nil {
		return slices.Clone(o.refs[f])
	}
	return nil
}

// check validates that h exists and f is a field of its type with one of kinds.
func (s *Store) check(h model.Handle, f model.FieldID, kinds ...model.FieldKind) (*object, error) {
	o := s.objects[h]
	if o == nil {
		return nil, fmt.Errorf("no object %d", h)
	}
	fi, ok := s.schema.Field(f)
	if !ok {
		return nil, fmt.Errorf("no field %d", f)
	}
	if !s.schema.IsA(o.typ, s.schema.TypeName(fi.Owner)) {
		return nil, fmt.Errorf("object %d (%s) has no field %s", h, s.schema.TypeName(o.typ), fi.Name)
	}
	if !slices.Contains(kinds, fi.Kind) {
		return nil, fmt.Errorf("field %s is %s", fi.Name, fi.Kind)
	}
	return o, nil
}

func (s *Store) SetInt(h model.Handle, f model.FieldID, v int64) error {
	s.mu.Lock()
	o, err := s.check(h, f, model.FieldInt, model.FieldBool)
	if err == nil {
		o.ints[f] = v
	}
	s.mu.Unlock()
	return s.changed(err, model.Change{Object: h, Field: f})
}

func (s *Store) SetString(h model.Handle, f model.FieldID, v string) error {
	s.mu.Lock()
	o, err := s.check(h, f, model.FieldString)
	if err == nil {
		o.strs[f] = v
	}
	s.mu.Unlock()
	return s.changed(err, model.Change{Object: h, Field: f})
}

func (s *Store) SetLocaleString(h model.Handle, f model.FieldID, loc model.Locale, v string) error {
	s.mu.Lock()
	o, err := s.check(h, f, model.FieldLocaleString)
	if err == nil {
		m := o.ml[f]
		if m == nil {
			m = make(map[model.Locale]string)
			o.ml[f] = m
		}
		m[loc] = v
	}
	s.mu.Unlock()
	return s.changed(err, model.Change{Object: h, Field: f, Locale: loc})
}

func (s *Store) SetRef(h model.Handle, f model.FieldID, target model.Handle) error {
	s.mu.Lock()
	o, err := s.check(h, f, model.FieldRef)
	if err == nil {
		o.ref[f] = target
	}
	s.mu.Unlock()
	return s.changed(err, model.Change{Object: h, Field: f})
}

func (s *Store) SetRefs(h model.Handle, f model.FieldID, targets []model.Handle) error {
	s.mu.Lock()
	o, err := s.check(h, f, model.FieldRefSeq)
	if err == nil {
		o.refs[f] = slices.Clone(targets)
	}
	s.mu.Unlock()
	return s.changed(err, model.Change{Object: h, Field: f})
}

// changed notifies subscribers outside the data lock.
func (s *Store) changed(err error, c model.Change) error {
	if err != nil {
		return err
	}
	s.subMu.Lock()
	fns := make([]func(model.Change), 0, len(s.subs))
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		fns = append(fns, s.subs[id])
	}
	s.subMu.Unlock()
	for _, fn := range fns {
		fn(c)
	}
	return nil
}

func (s *Store) Subscribe(fn func(model.Change)) (cancel func()) {
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subMu.Unlock()
	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
}
