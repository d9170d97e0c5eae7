package model

import "fmt"

// Handle identifies an object in the Object Store. NoHandle means "no object".
type Handle uint64

const NoHandle Handle = 0

// TypeID identifies an object type (class).
type TypeID uint32

const NoType TypeID = 0

// FieldID identifies a field of a type.
type FieldID uint32

const NoField FieldID = 0

// FragID is a fragment handle minted by the fragment table.
type FragID uint32

// FieldKind is the storage kind of a field.
type FieldKind uint8

const (
	FieldUnknown FieldKind = iota
	FieldInt
	FieldBool
	FieldString
	FieldLocaleString
	FieldRef
	FieldRefSeq
)

func (k FieldKind) String() string {
	switch k {
	case FieldInt:
		return "int"
	case FieldBool:
		return "bool"
	case FieldString:
		return "string"
	case FieldLocaleString:
		return "multistring"
	case FieldRef:
		return "ref"
	case FieldRefSeq:
		return "refseq"
	}
	return "unknown"
}

// ParseFieldKind is the inverse of FieldKind.String.
func ParseFieldKind(s string) (FieldKind, error) {
	switch s {
	case "int":
		return FieldInt, nil
	case "bool":
		return FieldBool, nil
	case "string":
		return FieldString, nil
	case "multistring":
		return FieldLocaleString, nil
	case "ref":
		return FieldRef, nil
	case "refseq":
		return FieldRefSeq, nil
	}
	return FieldUnknown, fmt.Errorf("unknown field kind %q", s)
}

// IsReference reports whether the field points at other objects.
func (k FieldKind) IsReference() bool { return k == FieldRef || k == FieldRefSeq }

// FieldInfo describes a field as known to the Field Metadata Service.
type FieldInfo struct {
	ID     FieldID
	Name   string
	Owner  TypeID
	Kind   FieldKind
	Target TypeID // destination type for references
	Custom bool   // dynamically registered
}
