// Package codec translates executable-expression trees to a textual tree
// and back.
//
// Encoding walks the tree children first and groups completed child
// elements under their parent through an explicit value stack. Parameters
// are written in full where a lambda, block or catch declares them and as
// bare name references everywhere else. Decoding walks the text top down,
// keeping references consistent through a stack of scope frames and a uid
// table for label targets.
//
// Both directions are all-or-nothing: any error aborts the call and no
// partial result is returned.
//
// # Example
//
//	c := codec.New()
//	text, err := c.Encode(tree)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	back, err := c.Decode(text)
package codec

import (
	"log/slog"
	"sync"

	"github.com/sandrolain/exprtree/pkg/metadata"
	"github.com/sandrolain/exprtree/pkg/resolver"
	"github.com/sandrolain/exprtree/pkg/typename"
	"github.com/sandrolain/exprtree/pkg/types"
)

const defaultMaxDepth = 10000

var (
	sharedRegistry = sync.OnceValue(func() *typename.Registry {
		return typename.New(metadata.Builtin())
	})
	sharedResolver = sync.OnceValue(func() *resolver.Resolver {
		return resolver.New(SharedRegistry(), metadata.Builtin())
	})
)

// SharedRegistry returns the process-wide type name registry over the
// built-in metadata. It is created on first use and never cleared.
func SharedRegistry() *typename.Registry {
	return sharedRegistry()
}

// Codec encodes and decodes trees. It is safe for concurrent use; every
// call runs its own single-use walker.
type Codec struct {
	opts    Options
	names   *typename.Registry
	members *resolver.Resolver
	logger  *slog.Logger
}

// New creates a codec. Without options it uses the process-wide registry
// and the built-in metadata.
func New(opts ...Option) *Codec {
	options := Options{
		MaxDepth: defaultMaxDepth,
	}
	for _, opt := range opts {
		opt(&options)
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}
	if options.MaxDepth <= 0 {
		options.MaxDepth = defaultMaxDepth
	}

	c := &Codec{opts: options, logger: options.Logger}
	switch {
	case options.Resolver != nil:
		c.members = options.Resolver
		c.names = options.Resolver.Names()
	case options.Provider == nil && options.Registry == nil && options.CacheSize <= 0:
		c.members = sharedResolver()
		c.names = c.members.Names()
	default:
		provider := options.Provider
		if provider == nil {
			provider = metadata.Builtin()
		}
		c.names = options.Registry
		if c.names == nil {
			if options.Provider == nil {
				c.names = SharedRegistry()
			} else {
				c.names = typename.New(provider, typename.WithLogger(options.Logger))
			}
		}
		ropts := []resolver.Option{resolver.WithLogger(options.Logger)}
		if options.CacheSize > 0 {
			ropts = append(ropts, resolver.WithCacheSize(options.CacheSize))
		}
		c.members = resolver.New(c.names, provider, ropts...)
	}
	return c
}

// Registry returns the type name registry in use.
func (c *Codec) Registry() *typename.Registry {
	return c.names
}

// Resolver returns the member resolver in use.
func (c *Codec) Resolver() *resolver.Resolver {
	return c.members
}

// Encode serializes root to text.
func (c *Codec) Encode(root *types.Node) ([]byte, error) {
	el, err := c.EncodeElement(root)
	if err != nil {
		return nil, err
	}
	out, err := FormatElement(el, c.opts.Indent)
	if err != nil {
		return nil, types.NewError(types.ErrCodeMalformedTree, "cannot render tree").WithCause(err)
	}
	return out, nil
}

// EncodeElement serializes root to an element tree.
func (c *Codec) EncodeElement(root *types.Node) (*Element, error) {
	return newEncoder(c).encode(root)
}

// Decode parses text and rebuilds the tree.
func (c *Codec) Decode(text []byte) (*types.Node, error) {
	el, err := ParseElement(text)
	if err != nil {
		return nil, err
	}
	return c.DecodeElement(el)
}

// DecodeElement rebuilds the tree from an element tree.
func (c *Codec) DecodeElement(root *Element) (*types.Node, error) {
	if root == nil {
		return nil, types.NewError(types.ErrCodeMalformedTree, "empty tree")
	}
	return newDecoder(c).decode(root)
}
