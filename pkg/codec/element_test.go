package codec_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/sandrolain/exprtree/pkg/codec"
	"github.com/sandrolain/exprtree/pkg/types"
)

func TestElementAttrs(t *testing.T) {
	el := codec.NewElement("constant")
	el.SetAttr("type", "int32").SetAttr("null", "true").SetAttr("type", "string")
	if len(el.Attrs) != 2 || el.Attrs[0].Name != "type" || el.Attrs[0].Value != "string" {
		t.Fatalf("SetAttr must update in place, got %v", el.Attrs)
	}
	el.RemoveAttr("type")
	if _, ok := el.Attr("type"); ok {
		t.Fatal("attribute survived RemoveAttr")
	}
	if v, ok := el.Attr("null"); !ok || v != "true" {
		t.Fatalf("null = %q, %v", v, ok)
	}
	el.RemoveAttr("missing")
}

func TestFormatPreservesAttrOrder(t *testing.T) {
	el := &codec.Element{
		Tag: "parameter",
		Attrs: []codec.Attr{
			{Name: "name", Value: "x"},
			{Name: "type", Value: "int32"},
			{Name: "byRef", Value: "true"},
		},
	}
	out, err := codec.FormatElement(el, false)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"tag":"parameter","attrs":{"name":"x","type":"int32","byRef":"true"}}`
	if string(out) != want {
		t.Fatalf("got %s\nwant %s", out, want)
	}

	back, err := codec.ParseElement(out)
	if err != nil {
		t.Fatal(err)
	}
	for i, a := range back.Attrs {
		if a != el.Attrs[i] {
			t.Fatalf("attr %d = %v, want %v", i, a, el.Attrs[i])
		}
	}
}

func TestParseElementScalarAttrs(t *testing.T) {
	el, err := codec.ParseElement([]byte(`{"tag": "lambda", "attrs": {"tailCall": true, "depth": 3}}`))
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := el.Attr("tailCall"); v != "true" {
		t.Fatalf("tailCall = %q", v)
	}
	if v, _ := el.Attr("depth"); v != "3" {
		t.Fatalf("depth = %q", v)
	}
}

func TestParseElementErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"not json", `tag: add`},
		{"missing tag", `{"attrs": {}}`},
		{"attrs not an object", `{"tag": "add", "attrs": ["type"]}`},
		{"nested attr", `{"tag": "add", "attrs": {"type": {"name": "int32"}}}`},
		{"null child", `{"tag": "add", "children": [null]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := codec.ParseElement([]byte(tt.text))
			if !errors.Is(err, types.ErrMalformedTree) {
				t.Fatalf("expected malformed tree, got %v", err)
			}
		})
	}
}

func TestFormatIndented(t *testing.T) {
	el := codec.NewElement("negate", codec.NewElement("constant").SetAttr("type", "int32"))
	el.Children[0].Text = "1"

	out, err := codec.FormatElement(el, true)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(out, []byte("\n\t")) {
		t.Fatalf("expected indented output, got %s", out)
	}
	back, err := codec.ParseElement(out)
	if err != nil {
		t.Fatal(err)
	}
	if back.Tag != "negate" || len(back.Children) != 1 || back.Children[0].Text != "1" {
		t.Fatalf("unexpected element %+v", back)
	}
}

func TestWalkOrder(t *testing.T) {
	el := codec.NewElement("a", codec.NewElement("b", codec.NewElement("c")), codec.NewElement("d"))
	var got []string
	el.Walk(func(e *codec.Element) { got = append(got, e.Tag) })
	want := []string{"a", "b", "c", "d"}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
