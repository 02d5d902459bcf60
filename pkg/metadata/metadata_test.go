package metadata_test

import (
	"reflect"
	"strings"
	"testing"

	"github.com/sandrolain/exprtree/pkg/metadata"
	"github.com/sandrolain/exprtree/pkg/types"
)

func TestFindMemberWalksBases(t *testing.T) {
	tb := metadata.NewTable()
	animal := tb.MustDefine("zoo.Animal", types.TypeClass, nil)
	dog := tb.MustDefine("zoo.Dog", types.TypeClass, animal)
	speak := metadata.Method(animal, "Speak", types.String)
	metadata.Constructor(animal, types.String)
	bark := metadata.Method(dog, "Speak", types.String, types.Int32)

	tests := []struct {
		name string
		q    metadata.Query
		want *types.Member
	}{
		{"inherited method", metadata.Query{DeclaringType: dog, Kind: types.MemberMethod, Name: "Speak"}, speak},
		{"overload on derived", metadata.Query{DeclaringType: dog, Kind: types.MemberMethod, Name: "Speak", Params: []*types.Type{types.Int32}}, bark},
		{"constructors are not inherited", metadata.Query{DeclaringType: dog, Kind: types.MemberConstructor, Params: []*types.Type{types.String}}, nil},
		{"static mismatch", metadata.Query{DeclaringType: animal, Kind: types.MemberMethod, Name: "Speak", Static: true}, nil},
		{"no widening", metadata.Query{DeclaringType: dog, Kind: types.MemberMethod, Name: "Speak", Params: []*types.Type{types.Int16}}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tb.FindMember(tt.q)
			if tt.want == nil {
				if ok {
					t.Fatalf("expected no match, got %v", got)
				}
				return
			}
			if !ok || got != tt.want {
				t.Fatalf("FindMember = %v, %v; want %v", got, ok, tt.want)
			}
		})
	}
}

func TestTableAddRejectsRedefinition(t *testing.T) {
	tb := metadata.NewTable()
	p := tb.MustDefine("demo.Point", types.TypeStruct, nil)
	if p.Base != types.Custom {
		t.Fatalf("struct base = %v, want custom", p.Base)
	}
	if err := tb.Add(p); err != nil {
		t.Fatalf("re-adding the same descriptor: %v", err)
	}
	if _, err := tb.Define("demo.Point", types.TypeClass, nil); err == nil {
		t.Fatal("expected an error for a second demo.Point")
	}
	if err := tb.Add(types.NewType("", types.TypeClass, nil)); err == nil {
		t.Fatal("expected an error for an unnamed type")
	}
	if got := tb.Names(); len(got) != 1 || got[0] != "demo.Point" {
		t.Fatalf("Names = %v", got)
	}
}

func TestChainAsksInOrder(t *testing.T) {
	first := metadata.NewTable()
	second := metadata.NewTable()
	a := first.MustDefine("shared.T", types.TypeClass, nil)
	second.MustDefine("shared.T", types.TypeClass, nil)
	only := second.MustDefine("second.Only", types.TypeClass, nil)

	c := metadata.Chain{first, second}
	if got, _ := c.DescribeType("shared.T"); got != a {
		t.Fatal("chain did not prefer the first provider")
	}
	if got, ok := c.DescribeType("second.Only"); !ok || got != only {
		t.Fatal("chain did not fall through to the second provider")
	}
	if _, ok := c.DescribeType("nowhere.T"); ok {
		t.Fatal("unexpected match")
	}
}

func TestBuiltinExceptions(t *testing.T) {
	tb := metadata.Builtin()
	exc, ok := tb.DescribeType("exception")
	if !ok {
		t.Fatal("exception not described")
	}
	inv, ok := tb.DescribeType("invalidOperationException")
	if !ok || inv.Base != exc {
		t.Fatal("invalidOperationException must derive from exception")
	}
	msg, ok := tb.FindMember(metadata.Query{DeclaringType: inv, Kind: types.MemberProperty, Name: "Message"})
	if !ok || msg.DeclaringType != exc {
		t.Fatalf("Message lookup = %v, %v", msg, ok)
	}
	if _, ok := tb.FindMember(metadata.Query{DeclaringType: types.String, Kind: types.MemberProperty, Name: "Length"}); !ok {
		t.Fatal("string.Length not attached")
	}
}

const pointYAML = `
types:
  - name: demo.Shape
    kind: class
    members:
      - kind: property
        name: Area
        type: float64
  # defined before its base type
  - name: demo.Circle
    base: demo.Shape
    members:
      - kind: constructor
        params: [float64]
      - kind: method
        name: Scale
        params: [float64]
        type: demo.Circle
      - kind: method
        name: Merge
        static: true
        visibility: assembly
        params: ["demo.Circle[]"]
        type: demo.Circle
  - name: demo.Color
    kind: enum
`

func TestLoadYAML(t *testing.T) {
	tb, err := metadata.LoadYAML(strings.NewReader(pointYAML))
	if err != nil {
		t.Fatalf("LoadYAML: %v", err)
	}
	if tb.Len() != 3 {
		t.Fatalf("Len = %d, want 3", tb.Len())
	}
	shape, _ := tb.DescribeType("demo.Shape")
	circle, _ := tb.DescribeType("demo.Circle")
	color, _ := tb.DescribeType("demo.Color")
	if circle.Base != shape || shape.Base != types.Custom || color.Base != types.Enum {
		t.Fatal("bases not wired")
	}
	if color.Kind != types.TypeEnum {
		t.Fatalf("color kind = %v", color.Kind)
	}

	scale, ok := tb.FindMember(metadata.Query{DeclaringType: circle, Kind: types.MemberMethod, Name: "Scale", Params: []*types.Type{types.Float64}})
	if !ok || scale.Result != circle {
		t.Fatalf("Scale = %v, %v", scale, ok)
	}
	merge, ok := tb.FindMember(metadata.Query{
		DeclaringType: circle,
		Kind:          types.MemberMethod,
		Name:          "Merge",
		Static:        true,
		Visibility:    types.Assembly,
		Params:        []*types.Type{types.ArrayOf(circle)},
	})
	if !ok || merge.Result != circle {
		t.Fatalf("Merge = %v, %v", merge, ok)
	}
	if _, ok := tb.FindMember(metadata.Query{DeclaringType: circle, Kind: types.MemberProperty, Name: "Area"}); !ok {
		t.Fatal("inherited Area not found")
	}
}

func TestLoadYAMLErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"unknown field", "types:\n  - name: a.B\n    colour: red\n", "decode yaml"},
		{"bad kind", "types:\n  - name: a.B\n    kind: array\n", "invalid kind"},
		{"unknown type reference", "types:\n  - name: a.B\n    members:\n      - kind: field\n        name: F\n        type: a.Missing\n", "a.Missing"},
		{"bad member kind", "types:\n  - name: a.B\n    members:\n      - kind: slot\n        name: F\n", "invalid member kind"},
		{"missing member name", "types:\n  - name: a.B\n    members:\n      - kind: method\n", "without a name"},
		{"duplicate type", "types:\n  - name: a.B\n  - name: a.B\n", "already defined"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := metadata.LoadYAML(strings.NewReader(tt.doc))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadYAMLEmpty(t *testing.T) {
	tb, err := metadata.LoadYAML(strings.NewReader(""))
	if err != nil {
		t.Fatalf("LoadYAML: %v", err)
	}
	if tb.Len() != 0 {
		t.Fatalf("Len = %d", tb.Len())
	}
}

type Color int8

type Point struct {
	X, Y   int32
	Labels []string
	Tint   Color
	hidden int
}

func (p *Point) Scale(f int32) Point { return Point{X: p.X * f, Y: p.Y * f} }

func (p Point) Norm() (float64, error) { return 0, nil }

func TestImportStruct(t *testing.T) {
	tb := metadata.NewTable()
	rt := reflect.TypeFor[Point]()
	pt, err := tb.Import(rt)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if pt.Name != rt.PkgPath()+".Point" || pt.Kind != types.TypeStruct || pt.GoType != rt {
		t.Fatalf("descriptor = %+v", pt)
	}
	again, err := tb.Import(reflect.PointerTo(rt))
	if err != nil || again != pt {
		t.Fatal("importing *Point must return the same descriptor")
	}

	color, ok := tb.DescribeType(rt.PkgPath() + ".Color")
	if !ok || color.Kind != types.TypeEnum {
		t.Fatal("Color not imported as an enum")
	}

	fields := map[string]*types.Type{
		"X":      types.Int32,
		"Y":      types.Int32,
		"Labels": types.ArrayOf(types.String),
		"Tint":   color,
	}
	for name, want := range fields {
		m, ok := tb.FindMember(metadata.Query{DeclaringType: pt, Kind: types.MemberField, Name: name})
		if !ok || m.Result != want {
			t.Errorf("field %s = %v, %v", name, m, ok)
		}
	}
	if _, ok := tb.FindMember(metadata.Query{DeclaringType: pt, Kind: types.MemberField, Name: "hidden"}); ok {
		t.Error("unexported field imported")
	}
	if _, ok := tb.FindMember(metadata.Query{DeclaringType: pt, Kind: types.MemberConstructor}); !ok {
		t.Error("parameterless constructor missing")
	}

	scale, ok := tb.FindMember(metadata.Query{DeclaringType: pt, Kind: types.MemberMethod, Name: "Scale", Params: []*types.Type{types.Int32}})
	if !ok || scale.Result != pt {
		t.Errorf("Scale = %v, %v", scale, ok)
	}
	norm, ok := tb.FindMember(metadata.Query{DeclaringType: pt, Kind: types.MemberMethod, Name: "Norm"})
	if !ok || norm.Result != types.Float64 {
		t.Errorf("Norm = %v, %v", norm, ok)
	}
}
