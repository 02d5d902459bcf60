package typename_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/sandrolain/exprtree/pkg/metadata"
	"github.com/sandrolain/exprtree/pkg/typename"
	"github.com/sandrolain/exprtree/pkg/types"
)

func newTable(t *testing.T) (*metadata.Table, *types.Type) {
	t.Helper()
	tb := metadata.NewTable()
	point, err := tb.Define("demo.Point", types.TypeStruct, nil)
	if err != nil {
		t.Fatalf("Define: %v", err)
	}
	return tb, point
}

func TestPrimitiveAliases(t *testing.T) {
	r := typename.New(nil)
	for _, p := range types.Primitives() {
		got, err := r.Resolve(p.Name)
		if err != nil {
			t.Fatalf("Resolve(%q): %v", p.Name, err)
		}
		if got != p {
			t.Fatalf("Resolve(%q) returned a different descriptor", p.Name)
		}
		name, ok := r.NameOf(p)
		if !ok || name != p.Name {
			t.Fatalf("NameOf(%s) = %q, %v", p.Name, name, ok)
		}
	}
}

func TestResolveComposites(t *testing.T) {
	tb, point := newTable(t)
	r := typename.New(tb)

	tests := []struct {
		name string
		want *types.Type
	}{
		{"demo.Point", point},
		{"demo.Point[]", types.ArrayOf(point)},
		{"int32?", types.NullableOf(types.Int32)},
		{"int32?[]", types.ArrayOf(types.NullableOf(types.Int32))},
		{"int32[][]", types.ArrayOf(types.ArrayOf(types.Int32))},
		{"func()void", types.FuncOf(nil, types.Void)},
		{"func(int32,demo.Point)boolean", types.FuncOf([]*types.Type{types.Int32, point}, types.Bool)},
		{"func(func(int32)int32)int32[]", types.FuncOf([]*types.Type{types.FuncOf([]*types.Type{types.Int32}, types.Int32)}, types.ArrayOf(types.Int32))},
		{"  string  ", types.String},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(tt.name)
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if got != tt.want {
				t.Fatalf("Resolve returned %v, want %v", got, tt.want)
			}
			name, ok := r.NameOf(got)
			if !ok {
				t.Fatal("NameOf failed")
			}
			again, err := r.Resolve(name)
			if err != nil || again != got {
				t.Fatalf("name %q does not round-trip: %v", name, err)
			}
		})
	}
}

func TestResolveErrors(t *testing.T) {
	r := typename.New(nil)
	for _, name := range []string{"", "demo.Missing", "int32[", "func(int32", "func(int32;int32)void", "int32 extra"} {
		t.Run(name, func(t *testing.T) {
			_, err := r.Resolve(name)
			if !errors.Is(err, types.ErrUnresolvedType) {
				t.Fatalf("expected unresolved type, got %v", err)
			}
		})
	}
}

func TestNameOfIsIdempotent(t *testing.T) {
	tb, point := newTable(t)
	r := typename.New(tb)
	arr := types.ArrayOf(point)

	first, ok := r.NameOf(arr)
	if !ok || first != "demo.Point[]" {
		t.Fatalf("NameOf = %q, %v", first, ok)
	}
	n := r.Len()
	second, _ := r.NameOf(arr)
	if second != first {
		t.Fatalf("NameOf changed from %q to %q", first, second)
	}
	if r.Len() != n {
		t.Fatal("second NameOf inserted an entry")
	}
}

func TestNameOfRejectsCollisions(t *testing.T) {
	r := typename.New(nil)
	impostor := types.NewType("int32", types.TypeStruct, nil)
	if name, ok := r.NameOf(impostor); ok {
		t.Fatalf("a second descriptor took the name %q", name)
	}
	if _, ok := r.NameOf(types.NewType("", types.TypeClass, nil)); ok {
		t.Fatal("an unnamed descriptor got a name")
	}
}

func TestRegisterIsIdempotent(t *testing.T) {
	r := typename.New(nil)
	foo := types.NewType("Foo", types.TypeClass, nil)

	for i := 0; i < 2; i++ {
		name, err := r.Register(foo, "custom.Foo")
		if err != nil {
			t.Fatalf("Register #%d: %v", i+1, err)
		}
		if name != "custom.Foo" {
			t.Fatalf("Register #%d returned %q", i+1, name)
		}
	}
	got, err := r.Resolve("custom.Foo")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != foo {
		t.Fatal("Resolve returned a different descriptor")
	}
	if name, _ := r.NameOf(foo); name != "custom.Foo" {
		t.Fatalf("NameOf = %q", name)
	}
}

func TestRegisterConflicts(t *testing.T) {
	r := typename.New(nil)
	foo := types.NewType("Foo", types.TypeClass, nil)
	bar := types.NewType("Bar", types.TypeClass, nil)

	if _, err := r.Register(foo, "custom.Foo"); err != nil {
		t.Fatal(err)
	}
	n := r.Len()
	if _, err := r.Register(bar, "custom.Foo"); !errors.Is(err, typename.ErrConflict) {
		t.Fatalf("expected ErrConflict for a taken name, got %v", err)
	}
	if _, err := r.Register(foo, "custom.Other"); !errors.Is(err, typename.ErrConflict) {
		t.Fatalf("expected ErrConflict for a named descriptor, got %v", err)
	}
	if _, err := r.Register(types.Int32, "custom.Int"); !errors.Is(err, typename.ErrConflict) {
		t.Fatalf("expected ErrConflict for a primitive, got %v", err)
	}
	if r.Len() != n {
		t.Fatal("a failed Register changed the registry")
	}
}

func TestCanonicalNormalizesUnicode(t *testing.T) {
	// "é" as e + combining acute accent
	decomposed := "demo.Cafe\u0301"
	composed := "demo.Caf\u00e9"
	if got := typename.Canonical(" " + decomposed + " "); got != composed {
		t.Fatalf("Canonical = %q, want %q", got, composed)
	}

	tb := metadata.NewTable()
	cafe := tb.MustDefine(composed, types.TypeClass, nil)
	r := typename.New(tb)
	got, err := r.Resolve(decomposed)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != cafe {
		t.Fatal("decomposed name resolved to a different descriptor")
	}
}

func TestConcurrentResolveAgrees(t *testing.T) {
	tb, point := newTable(t)
	r := typename.New(tb)

	const workers = 32
	results := make([]*types.Type, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got, err := r.Resolve("func(demo.Point[],int32?)demo.Point")
			if err != nil {
				t.Errorf("Resolve: %v", err)
				return
			}
			results[i] = got
		}(i)
	}
	wg.Wait()

	want := types.FuncOf([]*types.Type{types.ArrayOf(point), types.NullableOf(types.Int32)}, point)
	for i, got := range results {
		if got != want {
			t.Fatalf("worker %d got %v", i, got)
		}
	}
}
