package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/tailscale/hujson"

	"github.com/sandrolain/exprtree/pkg/types"
)

// Attr is one element attribute.
type Attr struct {
	Name  string
	Value string
}

// Element is one node of the textual tree: a tag, ordered attributes,
// optional text and ordered children.
//
// Its JSON form is
//
//	{"tag": "add", "attrs": {"type": "int32"}, "text": "", "children": [...]}
//
// with empty members omitted. Attribute order is preserved both ways.
type Element struct {
	Tag      string
	Attrs    []Attr
	Text     string
	Children []*Element
}

// NewElement creates an element with the given tag and children.
func NewElement(tag string, children ...*Element) *Element {
	return &Element{Tag: tag, Children: children}
}

// Attr returns the value of the named attribute.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttr sets an attribute, keeping its position when it already exists.
func (e *Element) SetAttr(name, value string) *Element {
	for i := range e.Attrs {
		if e.Attrs[i].Name == name {
			e.Attrs[i].Value = value
			return e
		}
	}
	e.Attrs = append(e.Attrs, Attr{Name: name, Value: value})
	return e
}

// RemoveAttr deletes an attribute if present.
func (e *Element) RemoveAttr(name string) {
	for i := range e.Attrs {
		if e.Attrs[i].Name == name {
			e.Attrs = append(e.Attrs[:i], e.Attrs[i+1:]...)
			return
		}
	}
}

// Append adds children at the end.
func (e *Element) Append(children ...*Element) *Element {
	e.Children = append(e.Children, children...)
	return e
}

// Child returns the first child with the given tag.
func (e *Element) Child(tag string) *Element {
	for _, c := range e.Children {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}

// Walk calls fn for e and every descendant element, depth first.
func (e *Element) Walk(fn func(*Element)) {
	fn(e)
	for _, c := range e.Children {
		c.Walk(fn)
	}
}

type attrList []Attr

func (a attrList) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, at := range a {
		if i > 0 {
			b.WriteByte(',')
		}
		k, err := json.Marshal(at.Name)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(at.Value)
		if err != nil {
			return nil, err
		}
		b.Write(k)
		b.WriteByte(':')
		b.Write(v)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

func (a *attrList) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("attrs must be an object")
	}
	var out attrList
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := kt.(string)
		vt, err := dec.Token()
		if err != nil {
			return err
		}
		var val string
		switch v := vt.(type) {
		case string:
			val = v
		case bool:
			val = strconv.FormatBool(v)
		case json.Number:
			val = v.String()
		default:
			return fmt.Errorf("attribute %q must be a scalar", key)
		}
		out = append(out, Attr{Name: key, Value: val})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*a = out
	return nil
}

type elementJSON struct {
	Tag      string     `json:"tag"`
	Attrs    attrList   `json:"attrs,omitempty"`
	Text     string     `json:"text,omitempty"`
	Children []*Element `json:"children,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (e *Element) MarshalJSON() ([]byte, error) {
	return json.Marshal(elementJSON{
		Tag:      e.Tag,
		Attrs:    attrList(e.Attrs),
		Text:     e.Text,
		Children: e.Children,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *Element) UnmarshalJSON(data []byte) error {
	var raw elementJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Tag == "" {
		return fmt.Errorf("element without tag")
	}
	for i, c := range raw.Children {
		if c == nil {
			return fmt.Errorf("%s: child %d is null", raw.Tag, i)
		}
	}
	*e = Element{
		Tag:      raw.Tag,
		Attrs:    []Attr(raw.Attrs),
		Text:     raw.Text,
		Children: raw.Children,
	}
	return nil
}

// ParseElement parses a textual tree. Comments and trailing commas are
// accepted (HuJSON).
func ParseElement(text []byte) (*Element, error) {
	std, err := hujson.Standardize(bytes.Clone(text))
	if err != nil {
		return nil, types.NewError(types.ErrCodeMalformedTree, "invalid tree text").WithCause(err)
	}
	var root Element
	if err := json.Unmarshal(std, &root); err != nil {
		return nil, types.NewError(types.ErrCodeMalformedTree, "invalid tree text").WithCause(err)
	}
	return &root, nil
}

// FormatElement renders e as text, pretty-printed when indent is set.
func FormatElement(e *Element, indent bool) ([]byte, error) {
	if !indent {
		return json.Marshal(e)
	}
	// hujson.Format only breaks composites that already span lines.
	b, err := json.MarshalIndent(e, "", "\t")
	if err != nil {
		return nil, err
	}
	return hujson.Format(b)
}
