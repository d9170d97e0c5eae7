package memdb

import (
	"fmt"
	"sync"
	"sync/atomic"

	"viewspec/internal/model"
)

type typeInfo struct {
	id     model.TypeID
	name   string
	super  model.TypeID
	fields map[string]model.FieldID
}

// Schema is the Field Metadata Service: types, single inheritance and
// fields. Custom fields may be added and removed while interpreters run.
type Schema struct {
	mu     sync.RWMutex
	types  []*typeInfo // index = TypeID-1
	byName map[string]model.TypeID
	fields []model.FieldInfo // index = FieldID-1; removed fields have ID 0

	custom atomic.Uint64
}

// NewSchema returns an empty schema.
func NewSchema() *Schema {
	return &Schema{byName: make(map[string]model.TypeID)}
}

// AddType registers a type. super may be "" or an already registered type.
func (s *Schema) AddType(name, super string) (model.TypeID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.byName[name]; dup {
		return model.NoType, fmt.Errorf("type %q already defined", name)
	}
	var sup model.TypeID
	if super != "" {
		var ok bool
		if sup, ok = s.byName[super]; !ok {
			return model.NoType, fmt.Errorf("type %q: unknown supertype %q", name, super)
		}
	}
	id := model.TypeID(len(s.types) + 1)
	s.types = append(s.types, &typeInfo{id: id, name: name, super: sup, fields: make(map[string]model.FieldID)})
	s.byName[name] = id
	return id, nil
}

// MustType is AddType for fixtures.
func (s *Schema) MustType(name, super string) model.TypeID {
	id, err := s.AddType(name, super)
	if err != nil {
		panic(err)
	}
	return id
}

// AddField registers a field on owner. target names the referenced type and
// is required for references.
func (s *Schema) AddField(owner model.TypeID, name string, kind model.FieldKind, target string) (model.FieldID, error) {
	return s.addField(owner, name, kind, target, false)
}

// MustField is AddField for fixtures.
func (s *Schema) MustField(owner model.TypeID, name string, kind model.FieldKind, target string) model.FieldID {
	id, err := s.AddField(owner, name, kind, target)
	if err != nil {
		panic(err)
	}
	return id
}

// AddCustomField registers a field at run time and bumps CustomVersion.
func (s *Schema) AddCustomField(owner model.TypeID, name string, kind model.FieldKind) (model.FieldID, error) {
	if kind.IsReference() {
		return model.NoField, fmt.Errorf("custom field %q: references are not supported", name)
	}
	id, err := s.addField(owner, name, kind, "", true)
	if err != nil {
		return id, err
	}
	s.custom.Add(1)
	return id, nil
}

// RemoveCustomField drops a custom field and bumps CustomVersion.
func (s *Schema) RemoveCustomField(id model.FieldID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	fi, ok := s.fieldLocked(id)
	if !ok || !fi.Custom {
		return fmt.Errorf("field %d is not a custom field", id)
	}
	delete(s.types[fi.Owner-1].fields, fi.Name)
	s.fields[id-1] = model.FieldInfo{}
	s.custom.Add(1)
	return nil
}

func (s *Schema) addField(owner model.TypeID, name string, kind model.FieldKind, target string, custom bool) (model.FieldID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ti, ok := s.typeLocked(owner)
	if !ok {
		return model.NoField, fmt.Errorf("field %q: unknown owner type %d", name, owner)
	}
	if _, dup := ti.fields[name]; dup {
		return model.NoField, fmt.Errorf("type %s already has field %q", ti.name, name)
	}
	if kind == model.FieldUnknown {
		return model.NoField, fmt.Errorf("field %s.%s: no kind", ti.name, name)
	}
	var tgt model.TypeID
	if kind.IsReference() {
		if tgt, ok = s.byName[target]; !ok {
			return model.NoField, fmt.Errorf("field %s.%s: unknown target type %q", ti.name, name, target)
		}
	}
	id := model.FieldID(len(s.fields) + 1)
	s.fields = append(s.fields, model.FieldInfo{ID: id, Name: name, Owner: owner, Kind: kind, Target: tgt, Custom: custom})
	ti.fields[name] = id
	return id, nil
}

func (s *Schema) typeLocked(t model.TypeID) (*typeInfo, bool) {
	if t == model.NoType || int(t) > len(s.types) {
		return nil, false
	}
	return s.types[t-1], true
}

func (s *Schema) fieldLocked(id model.FieldID) (model.FieldInfo, bool) {
	if id == model.NoField || int(id) > len(s.fields) {
		return model.FieldInfo{}, false
	}
	fi := s.fields[id-1]
	return fi, fi.ID != model.NoField
}

// TypeByName resolves a type name.
func (s *Schema) TypeByName(name string) (model.TypeID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byName[name]
	return id, ok
}

// FieldID looks the field up on t and then on its supertypes.
func (s *Schema) FieldID(t model.TypeID, name string) (model.FieldID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for ti, ok := s.typeLocked(t); ok; ti, ok = s.typeLocked(ti.super) {
		if id, found := ti.fields[name]; found {
			return id, true
		}
	}
	return model.NoField, false
}

func (s *Schema) Field(id model.FieldID) (model.FieldInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fieldLocked(id)
}

func (s *Schema) IsCustomField(id model.FieldID) bool {
	fi, ok := s.Field(id)
	return ok && fi.Custom
}

func (s *Schema) TypeName(t model.TypeID) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if ti, ok := s.typeLocked(t); ok {
		return ti.name
	}
	return fmt.Sprintf("type#%d", t)
}

func (s *Schema) IsA(t model.TypeID, name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for ti, ok := s.typeLocked(t); ok; ti, ok = s.typeLocked(ti.super) {
		if ti.name == name {
			return true
		}
	}
	return false
}

// Supertypes returns t followed by its ancestors.
func (s *Schema) Supertypes(t model.TypeID) []model.TypeID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.TypeID
	for ti, ok := s.typeLocked(t); ok; ti, ok = s.typeLocked(ti.super) {
		out = append(out, ti.id)
	}
	return out
}

func (s *Schema) CustomVersion() uint64 { return s.custom.Load() }

// Types returns every registered type id in registration order.
func (s *Schema) Types() []model.TypeID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.TypeID, len(s.types))
	for i, ti := range s.types {
		out[i] = ti.id
	}
	return out
}
