// Package resolver resolves textual member descriptors to member metadata.
//
// A MemberRef names a member the way the serialized tree does: declaring
// type name, member kind and name, static flag, visibility and the
// parameter type names. Resolution is exact: same arity, same parameter
// types, no implicit widening.
package resolver

import (
	"log/slog"
	"strings"

	"github.com/sandrolain/exprtree/pkg/cache"
	"github.com/sandrolain/exprtree/pkg/metadata"
	"github.com/sandrolain/exprtree/pkg/typename"
	"github.com/sandrolain/exprtree/pkg/types"
)

// MemberRef is the textual identity of a member.
type MemberRef struct {
	DeclaringType string
	Kind          types.MemberKind
	Name          string
	Static        bool
	Visibility    types.Visibility
	ParamTypes    []string
}

// Signature renders the reference in a stable, human readable form. It is
// also the cache key.
func (r MemberRef) Signature() string {
	var b strings.Builder
	if r.Visibility != types.Public {
		b.WriteString(r.Visibility.String())
		b.WriteByte(' ')
	}
	if r.Static {
		b.WriteString("static ")
	}
	b.WriteString(r.Kind.String())
	b.WriteByte(' ')
	b.WriteString(r.DeclaringType)
	if r.Kind != types.MemberConstructor {
		b.WriteByte('.')
		b.WriteString(r.Name)
	}
	if r.Kind.Callable() || len(r.ParamTypes) > 0 {
		b.WriteByte('(')
		b.WriteString(strings.Join(r.ParamTypes, ","))
		b.WriteByte(')')
	}
	return b.String()
}

// Resolver maps MemberRefs to members. It only reads metadata and is safe
// for concurrent use.
type Resolver struct {
	names    *typename.Registry
	provider metadata.Provider
	cache    *cache.Cache
	logger   *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithCache attaches an external member cache.
func WithCache(c *cache.Cache) Option {
	return func(r *Resolver) {
		r.cache = c
	}
}

// WithCacheSize sets the capacity of the member cache created by New.
func WithCacheSize(size int) Option {
	return func(r *Resolver) {
		r.cache = cache.New(size)
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// New creates a resolver naming types through names and finding members
// through provider. A nil provider searches the declared members of the
// resolved types directly.
func New(names *typename.Registry, provider metadata.Provider, opts ...Option) *Resolver {
	r := &Resolver{
		names:    names,
		provider: provider,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.cache == nil {
		r.cache = cache.New(256)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// Names returns the registry used to resolve type names.
func (r *Resolver) Names() *typename.Registry {
	return r.names
}

// Cache returns the member cache.
func (r *Resolver) Cache() *cache.Cache {
	return r.cache
}

// Resolve finds the member ref denotes.
// It fails with an UnresolvedType error when a type name is unknown and
// with an UnresolvedMember error when no member has the signature.
func (r *Resolver) Resolve(ref MemberRef) (*types.Member, error) {
	return r.cache.GetOrResolve(ref.Signature(), func() (*types.Member, error) {
		return r.resolve(ref)
	})
}

func (r *Resolver) resolve(ref MemberRef) (*types.Member, error) {
	decl, err := r.names.Resolve(ref.DeclaringType)
	if err != nil {
		return nil, err
	}
	params := make([]*types.Type, len(ref.ParamTypes))
	for i, pn := range ref.ParamTypes {
		if params[i], err = r.names.Resolve(pn); err != nil {
			return nil, err
		}
	}

	q := metadata.Query{
		DeclaringType: decl,
		Kind:          ref.Kind,
		Name:          typename.Canonical(ref.Name),
		Static:        ref.Static,
		Visibility:    ref.Visibility,
		Params:        params,
	}
	var (
		m  *types.Member
		ok bool
	)
	if r.provider != nil {
		m, ok = r.provider.FindMember(q)
	} else {
		m, ok = metadata.FindMember(q)
	}
	if !ok {
		return nil, types.NewError(types.ErrCodeUnresolvedMember, "no member matches").WithName(ref.Signature())
	}
	r.logger.Debug("resolved member", "signature", ref.Signature())
	return m, nil
}

// Describe is the inverse of Resolve: it names the member's declaring type
// and parameter types through the registry.
func (r *Resolver) Describe(m *types.Member) (MemberRef, error) {
	decl, ok := r.names.NameOf(m.DeclaringType)
	if !ok {
		return MemberRef{}, types.NewError(types.ErrCodeUnresolvedType, "declaring type has no canonical name").WithName(m.DeclaringType.String())
	}
	ref := MemberRef{
		DeclaringType: decl,
		Kind:          m.Kind,
		Name:          m.Name,
		Static:        m.Static,
		Visibility:    m.Visibility,
	}
	for _, p := range m.Params {
		pn, ok := r.names.NameOf(p)
		if !ok {
			return MemberRef{}, types.NewError(types.ErrCodeUnresolvedType, "parameter type has no canonical name").WithName(p.String())
		}
		ref.ParamTypes = append(ref.ParamTypes, pn)
	}
	return ref, nil
}
