// Package metadata provides the type and member metadata the codec resolves
// textual descriptors against.
//
// A Provider answers two questions: what type does a name denote, and which
// member of a type matches a signature. Table is the in-memory provider; it
// is filled in code with Define/AddMember, from Go types with Import, or from
// a YAML document with LoadYAML.
package metadata

import (
	"fmt"
	"slices"
	"sync"

	"github.com/sandrolain/exprtree/pkg/types"
)

// Query is a member signature to look up.
type Query struct {
	DeclaringType *types.Type
	Kind          types.MemberKind
	Name          string
	Static        bool
	Visibility    types.Visibility
	Params        []*types.Type
}

// Provider describes types and finds members.
type Provider interface {
	DescribeType(name string) (*types.Type, bool)
	FindMember(q Query) (*types.Member, bool)
}

// FindMember searches the declared members of q.DeclaringType, then its base
// types for anything but constructors. Matching is exact: same arity, same
// parameter descriptors, no widening.
func FindMember(q Query) (*types.Member, bool) {
	for t := q.DeclaringType; t != nil; t = t.Base {
		for _, m := range t.Members() {
			if m.Matches(q.Kind, q.Name, q.Static, q.Visibility, q.Params) {
				return m, true
			}
		}
		if q.Kind == types.MemberConstructor {
			break
		}
	}
	return nil, false
}

// Table is a thread-safe set of named descriptors.
type Table struct {
	mu    sync.RWMutex
	types map[string]*types.Type
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{types: make(map[string]*types.Type)}
}

// Add inserts a named descriptor. Adding a different descriptor under an
// existing name fails.
func (tb *Table) Add(t *types.Type) error {
	if t.Name == "" {
		return fmt.Errorf("metadata: cannot add unnamed %s type", t.Kind)
	}
	tb.mu.Lock()
	defer tb.mu.Unlock()
	if cur, ok := tb.types[t.Name]; ok && cur != t {
		return fmt.Errorf("metadata: type %q already defined", t.Name)
	}
	tb.types[t.Name] = t
	return nil
}

// Define creates and adds a named descriptor. A nil base defaults to
// custom for classes and structs, enum for enums.
func (tb *Table) Define(name string, kind types.TypeKind, base *types.Type) (*types.Type, error) {
	if base == nil {
		switch kind {
		case types.TypeClass, types.TypeStruct:
			base = types.Custom
		case types.TypeEnum:
			base = types.Enum
		}
	}
	t := types.NewType(name, kind, base)
	if err := tb.Add(t); err != nil {
		return nil, err
	}
	return t, nil
}

// MustDefine is like Define but panics on error.
func (tb *Table) MustDefine(name string, kind types.TypeKind, base *types.Type) *types.Type {
	t, err := tb.Define(name, kind, base)
	if err != nil {
		panic(err)
	}
	return t
}

// DescribeType implements Provider.
func (tb *Table) DescribeType(name string) (*types.Type, bool) {
	tb.mu.RLock()
	t, ok := tb.types[name]
	tb.mu.RUnlock()
	return t, ok
}

// FindMember implements Provider.
func (tb *Table) FindMember(q Query) (*types.Member, bool) {
	return FindMember(q)
}

// Names returns the sorted names of all descriptors in the table.
func (tb *Table) Names() []string {
	tb.mu.RLock()
	out := make([]string, 0, len(tb.types))
	for n := range tb.types {
		out = append(out, n)
	}
	tb.mu.RUnlock()
	slices.Sort(out)
	return out
}

// Len returns the number of descriptors.
func (tb *Table) Len() int {
	tb.mu.RLock()
	defer tb.mu.RUnlock()
	return len(tb.types)
}

// Chain asks each provider in turn.
type Chain []Provider

// DescribeType implements Provider.
func (c Chain) DescribeType(name string) (*types.Type, bool) {
	for _, p := range c {
		if t, ok := p.DescribeType(name); ok {
			return t, true
		}
	}
	return nil, false
}

// FindMember implements Provider.
func (c Chain) FindMember(q Query) (*types.Member, bool) {
	for _, p := range c {
		if m, ok := p.FindMember(q); ok {
			return m, true
		}
	}
	return nil, false
}

// Method adds a public instance method to t.
func Method(t *types.Type, name string, result *types.Type, params ...*types.Type) *types.Member {
	return t.AddMember(&types.Member{Kind: types.MemberMethod, Name: name, Result: result, Params: params})
}

// StaticMethod adds a public static method to t.
func StaticMethod(t *types.Type, name string, result *types.Type, params ...*types.Type) *types.Member {
	return t.AddMember(&types.Member{Kind: types.MemberMethod, Name: name, Static: true, Result: result, Params: params})
}

// Constructor adds a public constructor to t.
func Constructor(t *types.Type, params ...*types.Type) *types.Member {
	return t.AddMember(&types.Member{Kind: types.MemberConstructor, Params: params})
}

// Field adds a public instance field to t.
func Field(t *types.Type, name string, ft *types.Type) *types.Member {
	return t.AddMember(&types.Member{Kind: types.MemberField, Name: name, Result: ft})
}

// Property adds a public instance property to t. Params make it an indexer.
func Property(t *types.Type, name string, pt *types.Type, params ...*types.Type) *types.Member {
	return t.AddMember(&types.Member{Kind: types.MemberProperty, Name: name, Result: pt, Params: params})
}

// Event adds a public instance event to t.
func Event(t *types.Type, name string, handler *types.Type) *types.Member {
	return t.AddMember(&types.Member{Kind: types.MemberEvent, Name: name, Result: handler})
}

// Members of the primitive descriptors are attached once at import time,
// before any provider can be queried.
func init() {
	Method(types.Object, "ToString", types.String)
	Method(types.Object, "Equals", types.Bool, types.Object)
	Method(types.Object, "GetHashCode", types.Int32)

	Property(types.String, "Length", types.Int32)
	Property(types.String, "Chars", types.Char, types.Int32)
	Method(types.String, "Contains", types.Bool, types.String)
	Method(types.String, "ToUpper", types.String)
	Method(types.String, "ToLower", types.String)
	Method(types.String, "Substring", types.String, types.Int32, types.Int32)
	StaticMethod(types.String, "Concat", types.String, types.String, types.String)
	StaticMethod(types.String, "IsNullOrEmpty", types.Bool, types.String)

	StaticMethod(types.Float64, "Pow", types.Float64, types.Float64, types.Float64)
	StaticMethod(types.Int32, "Parse", types.Int32, types.String)

	Property(types.DateTime, "Year", types.Int32)
	Method(types.DateTime, "Add", types.DateTime, types.Duration)
}

var builtin = sync.OnceValue(func() *Table {
	tb := NewTable()

	exc := tb.MustDefine("exception", types.TypeClass, nil)
	Constructor(exc)
	Constructor(exc, types.String)
	Property(exc, "Message", types.String)

	invalid := tb.MustDefine("invalidOperationException", types.TypeClass, exc)
	Constructor(invalid, types.String)

	arg := tb.MustDefine("argumentException", types.TypeClass, exc)
	Constructor(arg, types.String)

	return tb
})

// Builtin returns the table describing the exception hierarchy. Members of
// the primitive descriptors are available without it. It is built once and
// shared.
func Builtin() *Table {
	return builtin()
}
