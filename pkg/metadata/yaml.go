package metadata

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sandrolain/exprtree/pkg/typename"
	"github.com/sandrolain/exprtree/pkg/types"
)

// document is the YAML layout of a metadata table:
//
//	types:
//	  - name: demo.Point
//	    kind: struct
//	    base: custom
//	    members:
//	      - kind: constructor
//	        params: [int32, int32]
//	      - kind: field
//	        name: X
//	        type: int32
//	      - kind: method
//	        name: Scale
//	        static: true
//	        visibility: public
//	        params: [demo.Point, int32]
//	        type: demo.Point
type document struct {
	Types []typeDoc `yaml:"types"`
}

type typeDoc struct {
	Name    string      `yaml:"name"`
	Kind    string      `yaml:"kind"`
	Base    string      `yaml:"base"`
	Members []memberDoc `yaml:"members"`
}

type memberDoc struct {
	Kind       string   `yaml:"kind"`
	Name       string   `yaml:"name"`
	Static     bool     `yaml:"static"`
	Visibility string   `yaml:"visibility"`
	Params     []string `yaml:"params"`
	Type       string   `yaml:"type"`
}

// LoadYAML builds a table from a YAML document. Type references may name
// primitives, composites such as "demo.Point[]", and any type defined in the
// same document regardless of order.
func LoadYAML(r io.Reader) (*Table, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("metadata: decode yaml: %w", err)
	}

	tb := NewTable()
	for _, td := range doc.Types {
		kind := types.TypeClass
		if td.Kind != "" {
			k, ok := types.ParseTypeKind(td.Kind)
			if !ok || k == types.TypePrimitive || k == types.TypeArray || k == types.TypeNullable || k == types.TypeFunc {
				return nil, fmt.Errorf("metadata: type %q: invalid kind %q", td.Name, td.Kind)
			}
			kind = k
		}
		t := types.NewType(td.Name, kind, nil)
		if err := tb.Add(t); err != nil {
			return nil, err
		}
	}

	names := typename.New(tb)
	resolve := func(name string) (*types.Type, error) {
		t, err := names.Resolve(name)
		if err != nil {
			return nil, fmt.Errorf("metadata: %w", err)
		}
		return t, nil
	}

	for _, td := range doc.Types {
		t, _ := tb.DescribeType(td.Name)
		switch {
		case td.Base != "":
			base, err := resolve(td.Base)
			if err != nil {
				return nil, err
			}
			t.Base = base
		case t.Kind == types.TypeEnum:
			t.Base = types.Enum
		case t.Kind == types.TypeClass || t.Kind == types.TypeStruct:
			t.Base = types.Custom
		}

		for _, md := range td.Members {
			m, err := buildMember(md, resolve)
			if err != nil {
				return nil, fmt.Errorf("metadata: type %q: %w", td.Name, err)
			}
			t.AddMember(m)
		}
	}
	return tb, nil
}

// LoadYAMLFile is LoadYAML over the named file.
func LoadYAMLFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("metadata: %w", err)
	}
	defer f.Close()
	return LoadYAML(f)
}

func buildMember(md memberDoc, resolve func(string) (*types.Type, error)) (*types.Member, error) {
	kind, ok := types.ParseMemberKind(md.Kind)
	if !ok {
		return nil, fmt.Errorf("invalid member kind %q", md.Kind)
	}
	vis, ok := types.ParseVisibility(md.Visibility)
	if !ok {
		return nil, fmt.Errorf("member %q: invalid visibility %q", md.Name, md.Visibility)
	}
	if kind != types.MemberConstructor && md.Name == "" {
		return nil, fmt.Errorf("%s without a name", kind)
	}

	m := &types.Member{
		Kind:       kind,
		Name:       md.Name,
		Static:     md.Static,
		Visibility: vis,
	}
	for _, p := range md.Params {
		pt, err := resolve(p)
		if err != nil {
			return nil, err
		}
		m.Params = append(m.Params, pt)
	}
	if md.Type != "" {
		rt, err := resolve(md.Type)
		if err != nil {
			return nil, err
		}
		m.Result = rt
	}
	return m, nil
}
