package model

import (
	"viewspec/internal/spec"
	"viewspec/internal/style"
	"viewspec/internal/vecsort"
)

// SpecStore hands out the specification subtree for a type and named layout.
type SpecStore interface {
	// GetSpecNode returns nil when no layout matches. With fallback set the
	// store may walk supertypes and default layouts.
	GetSpecNode(t TypeID, layout string, fallback bool) *spec.Node
	// Unify merges caller-supplied override children into a looked-up layout.
	// The result is a new tree; neither argument is modified.
	Unify(base, override *spec.Node) *spec.Node
	// Version changes whenever the stored layouts change.
	Version() uint64
}

// FieldMetadata resolves field names and storage kinds.
type FieldMetadata interface {
	FieldID(t TypeID, name string) (FieldID, bool)
	Field(id FieldID) (FieldInfo, bool)
	IsCustomField(id FieldID) bool
	TypeName(t TypeID) string
	// IsA reports whether t is the type called name or one of its subtypes.
	IsA(t TypeID, name string) bool
	// CustomVersion is bumped whenever custom fields are added or removed.
	CustomVersion() uint64
}

// Change is a value-change notification from the Object Store.
type Change struct {
	Object Handle
	Field  FieldID
	Locale Locale
}

// ObjectStore exposes typed field access. Reads of missing data return zero
// values, never errors.
type ObjectStore interface {
	TypeOf(h Handle) TypeID
	Int(h Handle, f FieldID) int64
	String(h Handle, f FieldID) string
	LocaleString(h Handle, f FieldID, loc Locale) string
	Ref(h Handle, f FieldID) Handle
	Refs(h Handle, f FieldID) []Handle

	SetInt(h Handle, f FieldID, v int64) error
	SetString(h Handle, f FieldID, v string) error
	SetLocaleString(h Handle, f FieldID, loc Locale, v string) error
	SetRef(h Handle, f FieldID, target Handle) error
	SetRefs(h Handle, f FieldID, targets []Handle) error

	// Subscribe registers fn for change notifications; call cancel to stop.
	Subscribe(fn func(Change)) (cancel func())
}

// LocaleService enumerates configured locales.
type LocaleService interface {
	// HasList reports whether name is a locale list ("vernacular", ...).
	HasList(name string) bool
	// Locales returns the ordered locales of a list for a field.
	Locales(list string, f FieldID) []Locale
	// Label is the short label shown before a value when labels are on.
	Label(loc Locale) string
}

// Computer evaluates named computations for `computed` nodes.
type Computer interface {
	Compute(h Handle, method string, args []string) (string, bool)
}

// OrderSource supplies semantic-type ordering maps by name.
type OrderSource interface {
	Ordering(name string) (vecsort.Order, bool)
}

// Run is one text run appended to a surface.
type Run struct {
	Text   string
	Locale Locale
	Props  style.Props
}

// Displayer is what a surface calls back to display an object with a fragment.
type Displayer interface {
	Display(s Surface, obj Handle, frag FragID) error
}

// Surface is the sink that accumulates structure and text.
type Surface interface {
	// OpenRegion starts a structural region; properties for it follow through
	// SetProperty.
	OpenRegion(kind style.RegionKind)
	CloseRegion(kind style.RegionKind)
	AppendText(r Run)
	// SetProperty applies to following output until the enclosing region closes.
	SetProperty(p style.Prop, v style.Value)
	// RecurseInto displays obj with frag. The surface may do it now or later.
	RecurseInto(obj Handle, frag FragID, d Displayer) error
	// RecurseIntoSeq displays a collection of owner.field, one frag per item.
	// Lazy is a hint that the items may be virtualised.
	RecurseIntoSeq(owner Handle, field FieldID, items []Handle, frag FragID, d Displayer, lazy bool) error
	// NoteDependency declares that the output depends on obj.field[loc].
	NoteDependency(obj Handle, field FieldID, loc Locale)
}
