package codec_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/sandrolain/exprtree/pkg/codec"
	"github.com/sandrolain/exprtree/pkg/metadata"
	"github.com/sandrolain/exprtree/pkg/types"
)

// roundTrip encodes tree, decodes the text and checks that the result is
// structurally equal and encodes to the same text.
func roundTrip(t *testing.T, c *codec.Codec, tree *types.Node) *types.Node {
	t.Helper()
	text, err := c.Encode(tree)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	back, err := c.Decode(text)
	if err != nil {
		t.Fatalf("Decode: %v\n%s", err, text)
	}
	if !types.Equal(tree, back) {
		t.Fatalf("decoded tree differs from the original:\n%s", text)
	}
	again, err := c.Encode(back)
	if err != nil {
		t.Fatalf("re-Encode: %v", err)
	}
	if !bytes.Equal(text, again) {
		t.Fatalf("re-encoding changed the text:\n%s\n%s", text, again)
	}
	return back
}

// expectCode fails unless err is a codec error with the given code.
func expectCode(t *testing.T, err error, want error) *types.Error {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v, got nil", want)
	}
	if !errors.Is(err, want) {
		t.Fatalf("expected %v, got %v", want, err)
	}
	var ce *types.Error
	if !errors.As(err, &ce) {
		t.Fatalf("error %v is not a *types.Error", err)
	}
	return ce
}

func decodeErr(t *testing.T, c *codec.Codec, text string) error {
	t.Helper()
	n, err := c.Decode([]byte(text))
	if err == nil {
		t.Fatalf("expected an error, decoded %v", n)
	}
	if n != nil {
		t.Fatal("a failed Decode returned a partial tree")
	}
	return err
}

// find looks up a member on t or its bases.
func find(t *testing.T, typ *types.Type, kind types.MemberKind, name string, static bool, params ...*types.Type) *types.Member {
	t.Helper()
	m, ok := metadata.FindMember(metadata.Query{
		DeclaringType: typ,
		Kind:          kind,
		Name:          name,
		Static:        static,
		Params:        params,
	})
	if !ok {
		t.Fatalf("no %s %s.%s", kind, typ, name)
	}
	return m
}

func builtin(t *testing.T, name string) *types.Type {
	t.Helper()
	typ, ok := metadata.Builtin().DescribeType(name)
	if !ok {
		t.Fatalf("builtin type %q missing", name)
	}
	return typ
}

func i32(v int32) *types.Node { return types.Constant(v, types.Int32) }

func str(s string) *types.Node { return types.Constant(s, types.String) }

// demo is a host type table used by tests that need user types. Each call
// builds fresh descriptors so tests never share registry entries.
type demo struct {
	codec *codec.Codec

	bag    *types.Type
	bagNew *types.Member
	bagAdd *types.Member

	point    *types.Type
	pointNew *types.Member
	pointXY  *types.Member
	x        *types.Member
	origin   *types.Member
	tags     *types.Member
	zero     *types.Member
	color    *types.Type
}

func newDemo(t *testing.T, opts ...codec.Option) *demo {
	t.Helper()
	tb := metadata.NewTable()
	d := &demo{}

	d.bag = tb.MustDefine("demo.Bag", types.TypeClass, nil)
	d.bagNew = metadata.Constructor(d.bag)
	d.bagAdd = metadata.Method(d.bag, "Add", types.Void, types.Int32)

	d.point = tb.MustDefine("demo.Point", types.TypeStruct, nil)
	d.pointNew = metadata.Constructor(d.point)
	d.pointXY = metadata.Constructor(d.point, types.Int32, types.Int32)
	d.x = metadata.Field(d.point, "X", types.Int32)
	d.origin = metadata.Field(d.point, "Origin", d.point)
	d.tags = metadata.Property(d.point, "Tags", d.bag)
	d.zero = d.point.AddMember(&types.Member{Kind: types.MemberField, Name: "Zero", Static: true, Result: d.point})

	d.color = tb.MustDefine("demo.Color", types.TypeEnum, nil)

	opts = append([]codec.Option{codec.WithProvider(metadata.Chain{tb, metadata.Builtin()})}, opts...)
	d.codec = codec.New(opts...)
	return d
}
