// Run the codec benchmarks:
//
//	go test -bench=. -benchmem ./pkg/codec/...
package codec_test

import (
	"testing"

	"github.com/sandrolain/exprtree/pkg/codec"
	"github.com/sandrolain/exprtree/pkg/types"
)

// sumTree builds a lambda summing an int32 array through a loop, with
// nested blocks, labels and a call per element.
func sumTree() *types.Node {
	arr := types.Param("values", types.ArrayOf(types.Int32))
	i := types.Param("i", types.Int32)
	total := types.Param("total", types.Int32)
	brk := &types.LabelTarget{Name: "done", Type: types.Int32}

	body := types.Block([]*types.Parameter{i, total},
		types.Assign(types.Ref(i), types.Constant(int32(0), types.Int32)),
		types.Assign(types.Ref(total), types.Constant(int32(0), types.Int32)),
		types.Loop(
			types.Condition(
				types.MakeBinary(types.KindLessThan, types.Ref(i), types.MakeUnary(types.KindArrayLength, types.Ref(arr), nil)),
				types.Block(nil,
					types.MakeBinary(types.KindAddAssign, types.Ref(total), types.MakeBinary(types.KindArrayIndex, types.Ref(arr), types.Ref(i))),
					types.MakeUnary(types.KindPreIncrementAssign, types.Ref(i), nil),
				),
				types.Goto(types.GotoBreak, brk, types.Ref(total)),
			),
			brk, nil,
		),
	)
	return types.Lambda(body, arr)
}

func BenchmarkEncode(b *testing.B) {
	c := codec.New()
	tree := sumTree()
	b.ReportAllocs()
	for b.Loop() {
		if _, err := c.Encode(tree); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDecode(b *testing.B) {
	c := codec.New()
	text, err := c.Encode(sumTree())
	if err != nil {
		b.Fatal(err)
	}
	b.SetBytes(int64(len(text)))
	b.ReportAllocs()
	for b.Loop() {
		if _, err := c.Decode(text); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEncodeParallel(b *testing.B) {
	c := codec.New()
	tree := sumTree()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := c.Encode(tree); err != nil {
				b.Fatal(err)
			}
		}
	})
}

func TestSumTreeRoundTrip(t *testing.T) {
	roundTrip(t, codec.New(), sumTree())
}
