package types

import (
	"strings"
)

// MemberKind identifies what a Member describes.
type MemberKind uint8

const (
	MemberConstructor MemberKind = iota
	MemberMethod
	MemberField
	MemberProperty
	MemberEvent
)

var memberKindNames = [...]string{
	MemberConstructor: "constructor",
	MemberMethod:      "method",
	MemberField:       "field",
	MemberProperty:    "property",
	MemberEvent:       "event",
}

func (k MemberKind) String() string {
	if int(k) < len(memberKindNames) {
		return memberKindNames[k]
	}
	return "unknown"
}

// ParseMemberKind maps a member sub-node tag to its kind.
func ParseMemberKind(s string) (MemberKind, bool) {
	for i, n := range memberKindNames {
		if n == s {
			return MemberKind(i), true
		}
	}
	return 0, false
}

// Callable reports whether members of this kind are matched by parameter list.
func (k MemberKind) Callable() bool {
	return k == MemberConstructor || k == MemberMethod
}

// Visibility is the declared accessibility of a member.
type Visibility uint8

const (
	Public Visibility = iota
	Private
	Family
	Assembly
	FamilyAndAssembly
	FamilyOrAssembly
)

var visibilityNames = [...]string{
	Public:            "public",
	Private:           "private",
	Family:            "family",
	Assembly:          "assembly",
	FamilyAndAssembly: "familyAndAssembly",
	FamilyOrAssembly:  "familyOrAssembly",
}

func (v Visibility) String() string {
	if int(v) < len(visibilityNames) {
		return visibilityNames[v]
	}
	return "unknown"
}

// ParseVisibility maps the visibility attribute to a Visibility.
// The empty string is public.
func ParseVisibility(s string) (Visibility, bool) {
	if s == "" {
		return Public, true
	}
	for i, n := range visibilityNames {
		if n == s {
			return Visibility(i), true
		}
	}
	return 0, false
}

// Member describes a constructor, method, field, property or event.
type Member struct {
	DeclaringType *Type
	Kind          MemberKind
	Name          string
	Static        bool
	Visibility    Visibility

	// Params lists parameter types of constructors, methods and indexers.
	Params []*Type
	// Result is the return type of a method, the value type of a field or
	// property, and the handler type of an event. Constructors leave it nil.
	Result *Type
}

// Type returns the type produced by accessing or invoking the member.
func (m *Member) Type() *Type {
	if m.Kind == MemberConstructor {
		return m.DeclaringType
	}
	if m.Result == nil {
		return Void
	}
	return m.Result
}

// Matches reports whether m has exactly the given signature.
func (m *Member) Matches(kind MemberKind, name string, static bool, vis Visibility, params []*Type) bool {
	if m.Kind != kind || m.Static != static || m.Visibility != vis {
		return false
	}
	if kind != MemberConstructor && m.Name != name {
		return false
	}
	if kind.Callable() || len(params) > 0 || len(m.Params) > 0 {
		if len(m.Params) != len(params) {
			return false
		}
		for i, p := range m.Params {
			if p != params[i] {
				return false
			}
		}
	}
	return true
}

func (m *Member) String() string {
	var b strings.Builder
	b.WriteString(m.Kind.String())
	b.WriteByte(' ')
	if m.Static {
		b.WriteString("static ")
	}
	b.WriteString(m.DeclaringType.String())
	if m.Kind != MemberConstructor {
		b.WriteByte('.')
		b.WriteString(m.Name)
	}
	if m.Kind.Callable() || len(m.Params) > 0 {
		b.WriteByte('(')
		for i, p := range m.Params {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(p.String())
		}
		b.WriteByte(')')
	}
	return b.String()
}
