package types

import (
	"fmt"
	"net/url"
	"reflect"
	"strings"
	"sync"
	"time"
)

// TypeKind classifies a type descriptor.
type TypeKind uint8

const (
	TypePrimitive TypeKind = iota
	TypeClass
	TypeStruct
	TypeInterface
	TypeEnum
	TypeArray
	TypeNullable
	TypeFunc
)

var typeKindNames = [...]string{
	TypePrimitive: "primitive",
	TypeClass:     "class",
	TypeStruct:    "struct",
	TypeInterface: "interface",
	TypeEnum:      "enum",
	TypeArray:     "array",
	TypeNullable:  "nullable",
	TypeFunc:      "func",
}

func (k TypeKind) String() string {
	if int(k) < len(typeKindNames) {
		return typeKindNames[k]
	}
	return "unknown"
}

// ParseTypeKind maps a textual kind back to its TypeKind.
func ParseTypeKind(s string) (TypeKind, bool) {
	for i, n := range typeKindNames {
		if n == s {
			return TypeKind(i), true
		}
	}
	return 0, false
}

// Type describes a runtime type known to the codec.
//
// Descriptors are compared by pointer. Named descriptors are created by a
// metadata provider; composite descriptors (arrays, nullables, funcs) must be
// obtained through ArrayOf, NullableOf and FuncOf, which canonicalize them.
//
// Members are attached while a metadata table is being built and are
// read-only afterwards.
type Type struct {
	Name   string
	Kind   TypeKind
	Elem   *Type   // array and nullable element
	Params []*Type // func parameters
	Result *Type   // func result
	Base   *Type

	// GoType is the Go type backing values of this descriptor, when known.
	GoType reflect.Type

	members []*Member
}

// NewType creates a named descriptor. base may be nil.
func NewType(name string, kind TypeKind, base *Type) *Type {
	return &Type{Name: name, Kind: kind, Base: base}
}

// Members returns the members declared directly on t.
func (t *Type) Members() []*Member {
	return t.members
}

// AddMember attaches m to t and sets its declaring type.
// Not safe for use once t is shared between goroutines.
func (t *Type) AddMember(m *Member) *Member {
	m.DeclaringType = t
	t.members = append(t.members, m)
	return m
}

// IsValueType reports whether values of t cannot be nil.
func (t *Type) IsValueType() bool {
	switch t.Kind {
	case TypeStruct, TypeEnum:
		return true
	case TypePrimitive:
		switch t {
		case String, Object, Uri, Void, DBNull, Custom, Enum, NullableOpen, RuntimeVariables:
			return false
		}
		return true
	}
	return false
}

// AssignableTo reports whether t is u or derives from it.
func (t *Type) AssignableTo(u *Type) bool {
	for c := t; c != nil; c = c.Base {
		if c == u {
			return true
		}
	}
	return u == Object
}

func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case TypeArray:
		return t.Elem.String() + "[]"
	case TypeNullable:
		return t.Elem.String() + "?"
	case TypeFunc:
		var b strings.Builder
		b.WriteString("func(")
		for i, p := range t.Params {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(p.String())
		}
		b.WriteByte(')')
		b.WriteString(t.Result.String())
		return b.String()
	}
	return t.Name
}

// Primitive descriptors. Their names are the pre-seeded canonical aliases.
var (
	Void             = primitive("void", nil)
	Bool             = primitive("boolean", reflect.TypeFor[bool]())
	Byte             = primitive("byte", reflect.TypeFor[uint8]())
	SByte            = primitive("sbyte", reflect.TypeFor[int8]())
	Int16            = primitive("int16", reflect.TypeFor[int16]())
	UInt16           = primitive("uint16", reflect.TypeFor[uint16]())
	Int32            = primitive("int32", reflect.TypeFor[int32]())
	UInt32           = primitive("uint32", reflect.TypeFor[uint32]())
	Int64            = primitive("int64", reflect.TypeFor[int64]())
	UInt64           = primitive("uint64", reflect.TypeFor[uint64]())
	Float32          = primitive("float32", reflect.TypeFor[float32]())
	Float64          = primitive("float64", reflect.TypeFor[float64]())
	Decimal          = primitive("decimal", reflect.TypeFor[DecimalValue]())
	Char             = primitive("char", reflect.TypeFor[rune]())
	Guid             = primitive("guid", reflect.TypeFor[GUID]())
	Uri              = primitive("uri", reflect.TypeFor[*url.URL]())
	String           = primitive("string", reflect.TypeFor[string]())
	Duration         = primitive("duration", reflect.TypeFor[time.Duration]())
	DateTime         = primitive("datetime", reflect.TypeFor[time.Time]())
	DBNull           = primitive("dbnull", reflect.TypeFor[DBNullValue]())
	Object           = primitive("object", nil)
	NullableOpen     = primitive("nullable", nil)
	Enum             = primitive("enum", nil)
	Custom           = primitive("custom", nil)
	RuntimeVariables = primitive("runtimeVariables", nil)
)

// Primitives lists the pre-seeded descriptors in a stable order.
func Primitives() []*Type {
	return []*Type{
		Void, Bool, Byte, SByte, Int16, UInt16, Int32, UInt32, Int64, UInt64,
		Float32, Float64, Decimal, Char, Guid, Uri, String, Duration, DateTime,
		DBNull, Object, NullableOpen, Enum, Custom, RuntimeVariables,
	}
}

func primitive(name string, gt reflect.Type) *Type {
	return &Type{Name: name, Kind: TypePrimitive, GoType: gt}
}

// compositeCache holds canonical array, nullable and func descriptors.
//
// Entries are write-once: LoadOrStore guarantees that concurrent callers
// building the same composite observe a single pointer.
var compositeCache sync.Map // map[string]*Type

// ArrayOf returns the canonical one-dimensional array descriptor of elem.
func ArrayOf(elem *Type) *Type {
	key := fmt.Sprintf("a%p", elem)
	if v, ok := compositeCache.Load(key); ok {
		return v.(*Type)
	}
	v, _ := compositeCache.LoadOrStore(key, &Type{Kind: TypeArray, Elem: elem})
	return v.(*Type)
}

// NullableOf returns the canonical nullable descriptor of elem.
// Nullable of a nullable is the nullable itself.
func NullableOf(elem *Type) *Type {
	if elem.Kind == TypeNullable {
		return elem
	}
	key := fmt.Sprintf("n%p", elem)
	if v, ok := compositeCache.Load(key); ok {
		return v.(*Type)
	}
	v, _ := compositeCache.LoadOrStore(key, &Type{Kind: TypeNullable, Elem: elem, Base: NullableOpen})
	return v.(*Type)
}

// FuncOf returns the canonical delegate descriptor for the signature.
// A nil result means void.
func FuncOf(params []*Type, result *Type) *Type {
	if result == nil {
		result = Void
	}
	var b strings.Builder
	b.WriteByte('f')
	for _, p := range params {
		fmt.Fprintf(&b, "%p,", p)
	}
	fmt.Fprintf(&b, ")%p", result)
	key := b.String()
	if v, ok := compositeCache.Load(key); ok {
		return v.(*Type)
	}
	ps := make([]*Type, len(params))
	copy(ps, params)
	v, _ := compositeCache.LoadOrStore(key, &Type{Kind: TypeFunc, Params: ps, Result: result})
	return v.(*Type)
}

// ElemOf returns the element type of an array or nullable, or nil.
func ElemOf(t *Type) *Type {
	if t == nil {
		return nil
	}
	return t.Elem
}

// GUID is the value representation of guid constants.
type GUID [16]byte

func (g GUID) String() string {
	return fmt.Sprintf("%x-%x-%x-%x-%x", g[0:4], g[4:6], g[6:8], g[8:10], g[10:16])
}

// ParseGUID parses the 8-4-4-4-12 hexadecimal form.
func ParseGUID(s string) (GUID, error) {
	var g GUID
	if len(s) != 36 || s[8] != '-' || s[13] != '-' || s[18] != '-' || s[23] != '-' {
		return g, fmt.Errorf("invalid guid %q", s)
	}
	hex := strings.ReplaceAll(s, "-", "")
	for i := range g {
		var v byte
		for j := 0; j < 2; j++ {
			c := hex[i*2+j]
			switch {
			case c >= '0' && c <= '9':
				v = v<<4 | (c - '0')
			case c >= 'a' && c <= 'f':
				v = v<<4 | (c - 'a' + 10)
			case c >= 'A' && c <= 'F':
				v = v<<4 | (c - 'A' + 10)
			default:
				return GUID{}, fmt.Errorf("invalid guid %q", s)
			}
		}
		g[i] = v
	}
	return g, nil
}

// DecimalValue carries a decimal literal verbatim.
type DecimalValue string

// DBNullValue is the single value of the dbnull type.
type DBNullValue struct{}
