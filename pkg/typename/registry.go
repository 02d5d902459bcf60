// Package typename provides the process-wide bijection between type
// descriptors and their canonical textual names.
//
// The registry is pre-seeded with the primitive aliases (void, boolean,
// int32, guid, datetime, ...). Every other name is added lazily the first
// time it is resolved or named, and entries are never removed.
//
// # Example
//
//	reg := typename.New(table)
//	t, err := reg.Resolve("demo.Point[]")
//	name, _ := reg.NameOf(t) // "demo.Point[]"
package typename

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/sandrolain/exprtree/pkg/types"
)

// Lookup describes named types the registry does not know yet.
// metadata.Provider satisfies it.
type Lookup interface {
	DescribeType(name string) (*types.Type, bool)
}

// ErrConflict is returned by Register when the pair would break the
// bijection.
var ErrConflict = errors.New("typename: mapping conflicts with an existing entry")

// Registry is a thread-safe bijection between descriptors and names.
//
// Reads take the shared lock. A miss releases it, resolves the name outside
// any lock, then takes the exclusive lock and re-checks before inserting in
// both directions, so concurrent first uses of a name agree on one entry.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]*types.Type
	byType map[*types.Type]string
	lookup Lookup
	logger *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for lazy insertions.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// New creates a registry seeded with the primitive aliases. lookup may be nil.
func New(lookup Lookup, opts ...Option) *Registry {
	r := &Registry{
		byName: make(map[string]*types.Type, 64),
		byType: make(map[*types.Type]string, 64),
		lookup: lookup,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	for _, t := range types.Primitives() {
		r.byName[t.Name] = t
		r.byType[t] = t.Name
	}
	return r
}

// Len returns the number of entries.
func (r *Registry) Len() int {
	r.mu.RLock()
	n := len(r.byName)
	r.mu.RUnlock()
	return n
}

func (r *Registry) load(name string) (*types.Type, bool) {
	r.mu.RLock()
	t, ok := r.byName[name]
	r.mu.RUnlock()
	return t, ok
}

func (r *Registry) loadName(t *types.Type) (string, bool) {
	r.mu.RLock()
	n, ok := r.byType[t]
	r.mu.RUnlock()
	return n, ok
}

// insert adds the pair unless either side is already mapped. It returns the
// descriptor now bound to name.
func (r *Registry) insert(t *types.Type, name string) (*types.Type, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cur, ok := r.byName[name]; ok {
		if cur == t {
			return cur, nil
		}
		if _, named := r.byType[t]; named {
			return nil, fmt.Errorf("%w: %q already names %s", ErrConflict, name, cur)
		}
		// Another goroutine resolved the same name first; keep its entry.
		return cur, nil
	}
	if cur, ok := r.byType[t]; ok {
		return nil, fmt.Errorf("%w: %s is already named %q", ErrConflict, t, cur)
	}
	r.byName[name] = t
	r.byType[t] = name
	r.logger.Debug("registered type name", "name", name, "kind", t.Kind.String())
	return t, nil
}

// Resolve returns the descriptor for a canonical name, describing it through
// the lookup and composing arrays, nullables and funcs on first use.
func (r *Registry) Resolve(name string) (*types.Type, error) {
	name = Canonical(name)
	if t, ok := r.load(name); ok {
		return t, nil
	}

	pn, err := parseName(name)
	if err != nil {
		return nil, types.NewError(types.ErrCodeUnresolvedType, err.Error()).WithName(name)
	}
	t, err := r.build(pn)
	if err != nil {
		return nil, err
	}
	if t, err = r.insert(t, name); err != nil {
		return nil, types.NewError(types.ErrCodeUnresolvedType, "name conflict").WithName(name).WithCause(err)
	}
	return t, nil
}

func (r *Registry) build(pn *parsedName) (*types.Type, error) {
	switch pn.kind {
	case nameArray, nameNullable:
		elem, err := r.Resolve(format(pn.elem))
		if err != nil {
			return nil, err
		}
		if pn.kind == nameArray {
			return types.ArrayOf(elem), nil
		}
		return types.NullableOf(elem), nil
	case nameFunc:
		params := make([]*types.Type, len(pn.params))
		for i, p := range pn.params {
			pt, err := r.Resolve(format(p))
			if err != nil {
				return nil, err
			}
			params[i] = pt
		}
		res, err := r.Resolve(format(pn.result))
		if err != nil {
			return nil, err
		}
		return types.FuncOf(params, res), nil
	}
	if t, ok := r.load(pn.ident); ok {
		return t, nil
	}
	if r.lookup != nil {
		if t, ok := r.lookup.DescribeType(pn.ident); ok {
			return t, nil
		}
	}
	return nil, types.NewError(types.ErrCodeUnresolvedType, "no such type").WithName(pn.ident)
}

// NameOf returns the canonical name of t, registering it on first use.
// It reports false for nil or unnamed descriptors and for names that
// would collide with a different descriptor.
func (r *Registry) NameOf(t *types.Type) (string, bool) {
	if t == nil {
		return "", false
	}
	if n, ok := r.loadName(t); ok {
		return n, true
	}

	var name string
	switch t.Kind {
	case types.TypeArray, types.TypeNullable:
		en, ok := r.NameOf(t.Elem)
		if !ok {
			return "", false
		}
		if t.Kind == types.TypeArray {
			name = en + "[]"
		} else {
			name = en + "?"
		}
	case types.TypeFunc:
		var b strings.Builder
		b.WriteString("func(")
		for i, p := range t.Params {
			pn, ok := r.NameOf(p)
			if !ok {
				return "", false
			}
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(pn)
		}
		b.WriteByte(')')
		rn, ok := r.NameOf(t.Result)
		if !ok {
			return "", false
		}
		b.WriteString(rn)
		name = b.String()
	default:
		if t.Name == "" {
			return "", false
		}
		name = Canonical(t.Name)
	}

	got, err := r.insert(t, name)
	if err != nil || got != t {
		return "", false
	}
	return name, true
}

// Register binds t to name. Registering an existing pair is a no-op that
// returns the existing name; a pair that would map either side twice fails
// with ErrConflict and leaves the registry unchanged.
func (r *Registry) Register(t *types.Type, name string) (string, error) {
	if t == nil {
		return "", fmt.Errorf("typename: nil type for %q", name)
	}
	name = Canonical(name)
	if _, err := parseName(name); err != nil {
		return "", fmt.Errorf("typename: %w", err)
	}
	got, err := r.insert(t, name)
	if err != nil {
		return "", err
	}
	if got != t {
		return "", fmt.Errorf("%w: %q already names %s", ErrConflict, name, got)
	}
	return name, nil
}

// format renders a parsed name back to canonical text.
func format(pn *parsedName) string {
	switch pn.kind {
	case nameArray:
		return format(pn.elem) + "[]"
	case nameNullable:
		return format(pn.elem) + "?"
	case nameFunc:
		var b strings.Builder
		b.WriteString("func(")
		for i, p := range pn.params {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(format(p))
		}
		b.WriteByte(')')
		b.WriteString(format(pn.result))
		return b.String()
	}
	return pn.ident
}
