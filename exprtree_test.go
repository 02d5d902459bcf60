package exprtree_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/sandrolain/exprtree"
	"github.com/sandrolain/exprtree/pkg/codec"
	"github.com/sandrolain/exprtree/pkg/types"
)

func TestEncodeDecode(t *testing.T) {
	x := types.Param("x", types.Int32)
	tree := types.Lambda(types.Add(types.Ref(x), types.Constant(int32(1), types.Int32)), x)

	text, err := exprtree.Encode(tree)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	back, err := exprtree.Decode(text)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !types.Equal(tree, back) {
		t.Fatalf("round trip changed the tree:\n%s", text)
	}
}

func TestEncodeWithOptions(t *testing.T) {
	tree := types.Constant("hello", types.String)
	text, err := exprtree.Encode(tree, codec.WithIndent(true))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(text), "\n") {
		t.Fatalf("expected indented output, got %s", text)
	}
	if _, err := exprtree.Decode(text, codec.WithMaxDepth(1)); err != nil {
		t.Fatalf("Decode: %v", err)
	}
}

func TestMustDecode(t *testing.T) {
	n := exprtree.MustDecode(`{"tag":"default","attrs":{"type":"datetime"}}`)
	if n.Kind != types.KindDefault || n.Type != types.DateTime {
		t.Fatalf("unexpected node %v", n)
	}

	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic")
		}
	}()
	exprtree.MustDecode(`{"tag":"parameter","attrs":{"name":"x"}}`)
}

func TestDefaultIsShared(t *testing.T) {
	if exprtree.Default() != exprtree.Default() {
		t.Fatal("Default must return the same codec")
	}
	if exprtree.Default().Registry() != codec.SharedRegistry() {
		t.Fatal("Default must use the shared registry")
	}
}

func TestVersion(t *testing.T) {
	if !strings.HasPrefix(exprtree.Version(), "v") {
		t.Fatalf("unexpected version %q", exprtree.Version())
	}
}

func TestCanonicalize(t *testing.T) {
	// A fully typed reference inside its lambda folds to a bare name.
	in := `{
		"tag": "lambda",
		"children": [
			{"tag": "parameters", "children": [{"tag": "parameter", "attrs": {"name": "s", "type": "string"}}]},
			{"tag": "parameter", "attrs": {"name": "s", "type": "string"}}, // typed on purpose
		],
	}`
	out, err := exprtree.Canonicalize([]byte(in))
	if err != nil {
		t.Fatalf("Canonicalize: %v", err)
	}
	want := `{"tag":"lambda","children":[{"tag":"parameters","children":[{"tag":"parameter","attrs":{"name":"s","type":"string"}}]},{"tag":"parameter","attrs":{"name":"s"}}]}`
	if string(out) != want {
		t.Fatalf("got  %s\nwant %s", out, want)
	}

	if _, err := exprtree.Canonicalize([]byte(`{"tag":"nope"}`)); !errors.Is(err, types.ErrMalformedTree) {
		t.Fatalf("expected malformed tree, got %v", err)
	}
}
