package codec

import (
	"github.com/sandrolain/exprtree/pkg/types"
)

func encodeLambda(e *encoder, n *types.Node) error {
	if err := e.declare(n.Parameters); err != nil {
		return err
	}
	e.emit(tagParameters, nil, len(n.Parameters))
	if err := e.node(n.Body); err != nil {
		return err
	}
	e.closeScope(n.Parameters)

	var attrs []Attr
	if n.Name != "" {
		attrs = append(attrs, Attr{Name: attrName, Value: n.Name})
	}
	if n.TailCall {
		attrs = append(attrs, Attr{Name: attrTailCall, Value: "true"})
	}
	if n.Type != nil && n.Type != n.ImpliedType() {
		name, err := e.typeName(n.Type)
		if err != nil {
			return err
		}
		attrs = append(attrs, Attr{Name: attrDelegateType, Value: name})
	}
	e.emit(n.Kind.String(), attrs, 2)
	return nil
}

func decodeLambda(d *decoder, el *Element, kind types.NodeKind) (*types.Node, error) {
	n := &types.Node{Kind: kind}
	n.Name, _ = el.Attr(attrName)
	var err error
	if n.TailCall, err = d.boolAttr(el, attrTailCall); err != nil {
		return nil, err
	}
	if n.Type, err = d.typeAttr(el, attrDelegateType); err != nil {
		return nil, err
	}

	d.scopes.pushScope()
	defer d.scopes.popScope()

	cur := d.children(el)
	w, err := cur.require(tagParameters)
	if err != nil {
		return nil, err
	}
	for _, c := range w.Children {
		p, err := d.paramDef(c)
		if err != nil {
			return nil, err
		}
		n.Parameters = append(n.Parameters, p)
	}
	if n.Body, err = cur.expr(); err != nil {
		return nil, err
	}
	if err := cur.done(); err != nil {
		return nil, err
	}
	return n, nil
}

func encodeRuntimeVariables(e *encoder, n *types.Node) error {
	for _, v := range n.Variables {
		if err := e.param(v); err != nil {
			return err
		}
	}
	e.emit(tagVariables, nil, len(n.Variables))
	attrs, err := e.resultType(nil, n)
	if err != nil {
		return err
	}
	e.emit(n.Kind.String(), attrs, 1)
	return nil
}

func decodeRuntimeVariables(d *decoder, el *Element, kind types.NodeKind) (*types.Node, error) {
	cur := d.children(el)
	n := &types.Node{Kind: kind}
	w, err := cur.require(tagVariables)
	if err != nil {
		return nil, err
	}
	for _, c := range w.Children {
		if c.Tag != types.KindParameter.String() {
			return nil, d.fail(types.ErrCodeMalformedTree, "runtime variable must be a parameter").WithName(c.Tag)
		}
		p, err := d.paramRef(c)
		if err != nil {
			return nil, err
		}
		n.Variables = append(n.Variables, p)
	}
	if err := cur.done(); err != nil {
		return nil, err
	}
	if n.Type, err = d.typeAttr(el, attrType); err != nil {
		return nil, err
	}
	return n, nil
}
