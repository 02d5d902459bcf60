// Package exprtree serializes executable-expression trees to a textual tree
// and back.
//
// A tree is built from types.Node values (see the builders in pkg/types),
// encoded to text, and decoded into a tree that is structurally equal to
// the original: same kinds, same child order, same member descriptors, and
// bindings and jump targets shared exactly where the original shared them.
//
// # Quick Start
//
//	x := types.Param("x", types.Int32)
//	tree := types.Lambda(types.Add(types.Ref(x), types.Constant(int32(1), types.Int32)), x)
//
//	text, err := exprtree.Encode(tree)
//	back, err := exprtree.Decode(text)
//	types.Equal(tree, back) // true
//
// # Metadata
//
// Member descriptors (constructors, methods, fields, properties, events) are
// resolved by name and signature through a metadata provider. The built-in
// provider describes the primitive types and a few exception types; host
// types are added with metadata.Table (Define, Import, LoadYAML) and passed
// with codec.WithProvider.
//
// # More Information
//
//   - Codec: github.com/sandrolain/exprtree/pkg/codec
//   - Types: github.com/sandrolain/exprtree/pkg/types
//   - Type names: github.com/sandrolain/exprtree/pkg/typename
//   - Metadata: github.com/sandrolain/exprtree/pkg/metadata
package exprtree

import (
	"fmt"
	"sync"

	"github.com/sandrolain/exprtree/pkg/codec"
	"github.com/sandrolain/exprtree/pkg/types"
)

// Version returns the current version of exprtree.
func Version() string {
	return "v0.1.0-dev"
}

var defaultCodec = sync.OnceValue(func() *codec.Codec {
	return codec.New()
})

// Default returns the process-wide codec over the built-in metadata.
func Default() *codec.Codec {
	return defaultCodec()
}

func codecFor(opts []codec.Option) *codec.Codec {
	if len(opts) == 0 {
		return Default()
	}
	return codec.New(opts...)
}

// Encode serializes root.
//
// Example:
//
//	text, err := exprtree.Encode(tree, codec.WithIndent(true))
func Encode(root *types.Node, opts ...codec.Option) ([]byte, error) {
	return codecFor(opts).Encode(root)
}

// Decode rebuilds a tree from text.
func Decode(text []byte, opts ...codec.Option) (*types.Node, error) {
	return codecFor(opts).Decode(text)
}

// MustDecode is like Decode but panics if the text cannot be decoded.
// It simplifies safe initialization of global variables.
func MustDecode(text string) *types.Node {
	n, err := Decode([]byte(text))
	if err != nil {
		panic(fmt.Sprintf("exprtree: Decode(%q): %v", text, err))
	}
	return n
}

// Canonicalize decodes text and encodes the tree again, yielding the
// canonical form: folded references, minimal type attributes and uids
// numbered in visiting order.
func Canonicalize(text []byte, opts ...codec.Option) ([]byte, error) {
	c := codecFor(opts)
	tree, err := c.Decode(text)
	if err != nil {
		return nil, err
	}
	return c.Encode(tree)
}
