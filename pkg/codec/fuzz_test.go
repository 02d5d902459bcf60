package codec_test

import (
	"testing"

	"github.com/sandrolain/exprtree/pkg/codec"
)

func FuzzDecode(f *testing.F) {
	seeds := []string{
		`{"tag":"constant","attrs":{"type":"int32"},"text":"42"}`,
		`{"tag":"lambda","children":[{"tag":"parameters","children":[{"tag":"parameter","attrs":{"name":"x","type":"int32"}}]},{"tag":"parameter","attrs":{"name":"x"}}]}`,
		`{"tag":"loop","children":[{"tag":"goto","attrs":{"kind":"break"},"children":[{"tag":"labelTarget","attrs":{"uid":"1"}}]}]}`,
		`{"tag":"call","children":[{"tag":"method","attrs":{"declaringType":"string","name":"ToUpper"}}]}`,
		`{"tag":"parameter","attrs":{"name":"y"}}`,
		`{"tag":"negate"}`,
		`// comment
		{"tag":"default","attrs":{"type":"guid"},}`,
		`{}`,
		`[`,
		``,
	}
	for _, s := range seeds {
		f.Add([]byte(s))
	}
	c := codec.New(codec.WithMaxDepth(256))
	f.Fuzz(func(t *testing.T, text []byte) {
		n, err := c.Decode(text)
		if err != nil && n != nil {
			t.Fatal("failed Decode returned a tree")
		}
	})
}
