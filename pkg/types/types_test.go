package types_test

import (
	"errors"
	"math"
	"testing"

	"github.com/sandrolain/exprtree/pkg/types"
)

func TestKindTagsAreUnique(t *testing.T) {
	seen := map[string]types.NodeKind{}
	for k := types.NodeKind(0); k < types.KindCount; k++ {
		tag := k.String()
		if tag == "" || tag == "unknown" {
			t.Fatalf("kind %d has no tag", k)
		}
		if prev, dup := seen[tag]; dup {
			t.Fatalf("tag %q used by kinds %d and %d", tag, prev, k)
		}
		seen[tag] = k
	}
	if got := len(types.KindNames()); got != int(types.KindCount) {
		t.Fatalf("KindNames: expected %d names, got %d", types.KindCount, got)
	}
}

func TestKindClassification(t *testing.T) {
	tests := []struct {
		kind                         types.NodeKind
		binary, unary, assign, compa bool
	}{
		{types.KindAdd, true, false, false, false},
		{types.KindEqual, true, false, false, true},
		{types.KindAndAlso, true, false, false, true},
		{types.KindCoalesce, true, false, false, false},
		{types.KindAddAssign, true, false, true, false},
		{types.KindRightShiftAssign, true, false, true, false},
		{types.KindNegate, false, true, false, false},
		{types.KindThrow, false, true, false, false},
		{types.KindTypeIs, false, false, false, false},
		{types.KindLambda, false, false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			if got := tt.kind.IsBinary(); got != tt.binary {
				t.Errorf("IsBinary = %v", got)
			}
			if got := tt.kind.IsUnary(); got != tt.unary {
				t.Errorf("IsUnary = %v", got)
			}
			if got := tt.kind.IsAssignment(); got != tt.assign {
				t.Errorf("IsAssignment = %v", got)
			}
			if got := tt.kind.IsComparison(); got != tt.compa {
				t.Errorf("IsComparison = %v", got)
			}
		})
	}
	if types.KindCount.Valid() {
		t.Error("KindCount must not be valid")
	}
}

func TestCompositesAreCanonical(t *testing.T) {
	if types.ArrayOf(types.Int32) != types.ArrayOf(types.Int32) {
		t.Error("ArrayOf returned distinct descriptors")
	}
	n := types.NullableOf(types.Int32)
	if n != types.NullableOf(types.Int32) || types.NullableOf(n) != n {
		t.Error("NullableOf is not canonical or not idempotent")
	}
	f1 := types.FuncOf([]*types.Type{types.Int32, types.String}, types.Bool)
	f2 := types.FuncOf([]*types.Type{types.Int32, types.String}, types.Bool)
	if f1 != f2 {
		t.Error("FuncOf returned distinct descriptors")
	}
	if types.FuncOf(nil, nil).Result != types.Void {
		t.Error("FuncOf with nil result must return void")
	}
	if got := f1.String(); got != "func(int32,string)boolean" {
		t.Errorf("String = %q", got)
	}
	if got := types.ArrayOf(n).String(); got != "int32?[]" {
		t.Errorf("String = %q", got)
	}
}

func TestGUIDRoundTrip(t *testing.T) {
	const s = "0123abcd-4567-89ef-0123-456789abcdef"
	g, err := types.ParseGUID(s)
	if err != nil {
		t.Fatal(err)
	}
	if g.String() != s {
		t.Fatalf("got %s", g)
	}
	if _, err := types.ParseGUID("not-a-guid"); err == nil {
		t.Fatal("expected error")
	}
}

func TestImpliedTypes(t *testing.T) {
	x := types.Param("x", types.Int32)
	s := types.Param("s", types.String)
	one := types.Constant(int32(1), types.Int32)
	arr := types.Param("arr", types.ArrayOf(types.Float64))
	brk := &types.LabelTarget{Name: "brk", Type: types.Int32}

	tests := []struct {
		name string
		node *types.Node
		want *types.Type
	}{
		{"parameter", types.Ref(x), types.Int32},
		{"add", types.Add(types.Ref(x), one), types.Int32},
		{"equal", types.MakeBinary(types.KindEqual, types.Ref(x), one), types.Bool},
		{"coalesce", types.MakeBinary(types.KindCoalesce, types.Ref(s), types.Constant("d", types.String)), types.String},
		{"arrayIndex", types.MakeBinary(types.KindArrayIndex, types.Ref(arr), one), types.Float64},
		{"arrayLength", types.MakeUnary(types.KindArrayLength, types.Ref(arr), nil), types.Int32},
		{"not", types.MakeUnary(types.KindNot, types.Ref(x), nil), types.Int32},
		{"throw", types.Throw(nil), types.Void},
		{"typeIs", types.TypeIs(types.Ref(s), types.String), types.Bool},
		{"block", types.Block(nil, one, types.Ref(s)), types.String},
		{"conditional", types.Condition(types.Constant(true, types.Bool), types.Ref(s), types.Ref(s)), types.String},
		{"loop", types.Loop(one, brk, nil), types.Int32},
		{"loop void", types.Loop(one, nil, nil), types.Void},
		{"label", types.Label(brk, one), types.Int32},
		{"goto", types.Goto(types.GotoBreak, brk, one), types.Void},
		{"lambda", types.Lambda(types.Ref(x), x), types.FuncOf([]*types.Type{types.Int32}, types.Int32)},
		{"runtimeVariables", types.RuntimeVars(x), types.RuntimeVariables},
		{"constant without type", types.Constant(nil, nil), types.Object},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.node.ResultType(); got != tt.want {
				t.Fatalf("ResultType = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEqualRenamesBindings(t *testing.T) {
	build := func() *types.Node {
		x := types.Param("x", types.Int32)
		y := types.Param("y", types.Int32)
		return types.Lambda(types.Add(types.Ref(x), types.Ref(y)), x, y)
	}
	a, b := build(), build()
	if !types.Equal(a, b) {
		t.Fatal("structurally equal lambdas compare unequal")
	}

	x := types.Param("x", types.Int32)
	y := types.Param("y", types.Int32)
	swapped := types.Lambda(types.Add(types.Ref(y), types.Ref(x)), x, y)
	if types.Equal(a, swapped) {
		t.Fatal("lambdas with swapped references compare equal")
	}
}

func TestEqualDistinguishesSharing(t *testing.T) {
	x := types.Param("x", types.Int32)
	shared := types.Block([]*types.Parameter{x}, types.Ref(x), types.Ref(x))

	x1 := types.Param("x", types.Int32)
	x2 := types.Param("x", types.Int32)
	split := types.Block([]*types.Parameter{x1}, types.Ref(x1), types.Ref(x2))
	if types.Equal(shared, split) {
		t.Fatal("a shared binding must not equal two distinct bindings")
	}
}

func TestValuesEqual(t *testing.T) {
	if !types.ValuesEqual(math.NaN(), math.NaN()) {
		t.Error("NaN must equal NaN")
	}
	if types.ValuesEqual(int32(1), int64(1)) {
		t.Error("values of different Go types must differ")
	}
	if !types.ValuesEqual([]any{1.0, "a"}, []any{1.0, "a"}) {
		t.Error("deep values must compare equal")
	}
}

func TestConstantFitsUntypedInts(t *testing.T) {
	enum := types.NewType("demo.Level", types.TypeEnum, nil)
	tests := []struct {
		name  string
		value any
		typ   *types.Type
		want  any
	}{
		{"int32", 42, types.Int32, int32(42)},
		{"byte", 255, types.Byte, uint8(255)},
		{"uint64", 7, types.UInt64, uint64(7)},
		{"nullable int16", -3, types.NullableOf(types.Int16), int16(-3)},
		{"enum without Go type", 2, enum, int64(2)},
		{"too large for int16", 1 << 20, types.Int16, 1 << 20},
		{"negative for byte", -1, types.Byte, -1},
		{"not integral", 3, types.Float64, 3},
		{"already typed", int64(5), types.Int32, int64(5)},
		{"no type", 1, nil, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := types.Constant(tt.value, tt.typ).Value
			if got != tt.want {
				t.Fatalf("Value = %#v (%T), want %#v (%T)", got, got, tt.want, tt.want)
			}
		})
	}
}

func TestErrorIsByCode(t *testing.T) {
	err := types.NewError(types.ErrCodeScopeViolation, "no visible binding").
		WithName("x").
		WithPath([]string{"lambda", "add"})
	if !errors.Is(err, types.ErrScopeViolation) {
		t.Fatal("expected errors.Is to match the scope violation sentinel")
	}
	if errors.Is(err, types.ErrMalformedTree) {
		t.Fatal("errors.Is matched a different code")
	}
	want := "E0301 scope violation at lambda/add: no visible binding (x)"
	if got := err.Error(); got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
	err.WithPath([]string{"lambda"})
	if len(err.Path) != 2 {
		t.Fatal("WithPath must keep the first, innermost path")
	}

	cause := errors.New("boom")
	wrapped := types.NewError(types.ErrCodeMalformedTree, "bad").WithCause(cause)
	if !errors.Is(wrapped, cause) {
		t.Fatal("expected the cause to be reachable through Unwrap")
	}
}

func TestWalkVisitsNestedNodes(t *testing.T) {
	e := types.Param("e", types.String)
	tree := types.Try(
		types.Constant(int32(1), types.Int32),
		types.Constant(int32(3), types.Int32),
		types.Catch(types.String, e, types.Constant(int32(2), types.Int32)),
	)
	if got := types.Count(tree); got != 4 {
		t.Fatalf("Count = %d, want 4", got)
	}
}
