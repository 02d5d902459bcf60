package codec

import (
	"github.com/sandrolain/exprtree/pkg/types"
)

func encodeConstant(e *encoder, n *types.Node) error {
	attrs, err := e.resultType(nil, n)
	if err != nil {
		return err
	}
	text, isNull, err := formatValue(n.ResultType(), n.Value)
	if err != nil {
		return e.fail(types.ErrCodeMalformedTree, "invalid constant").WithCause(err)
	}
	el := &Element{Tag: n.Kind.String(), Attrs: attrs}
	if isNull {
		el.SetAttr(attrNull, "true")
	} else {
		el.Text = text
	}
	e.push(el)
	return nil
}

func decodeConstant(d *decoder, el *Element, kind types.NodeKind) (*types.Node, error) {
	t, err := d.requiredType(el, attrType)
	if err != nil {
		return nil, err
	}
	if err := d.children(el).done(); err != nil {
		return nil, err
	}
	n := &types.Node{Kind: kind, Type: t}
	isNull, err := d.boolAttr(el, attrNull)
	if err != nil {
		return nil, err
	}
	if isNull {
		return n, nil
	}
	if n.Value, err = parseValue(t, el.Text); err != nil {
		return nil, d.fail(types.ErrCodeMalformedTree, "invalid constant text").WithName(el.Text).WithCause(err)
	}
	return n, nil
}

func encodeDefault(e *encoder, n *types.Node) error {
	attrs, err := e.resultType(nil, n)
	if err != nil {
		return err
	}
	e.emit(n.Kind.String(), attrs, 0)
	return nil
}

func decodeDefault(d *decoder, el *Element, kind types.NodeKind) (*types.Node, error) {
	t, err := d.requiredType(el, attrType)
	if err != nil {
		return nil, err
	}
	if err := d.children(el).done(); err != nil {
		return nil, err
	}
	return &types.Node{Kind: kind, Type: t}, nil
}

func encodeParameter(e *encoder, n *types.Node) error {
	if n.Param != nil && n.Type != nil && n.Type != n.Param.Type {
		return e.fail(types.ErrCodeMalformedTree, "parameter node type differs from its binding").WithName(n.Param.Name)
	}
	return e.param(n.Param)
}

func decodeParameter(d *decoder, el *Element, kind types.NodeKind) (*types.Node, error) {
	if err := d.children(el).done(); err != nil {
		return nil, err
	}
	p, err := d.paramRef(el)
	if err != nil {
		return nil, err
	}
	return &types.Node{Kind: kind, Param: p}, nil
}

// encodeBinary serves every two-operand kind: left, right, the optional
// overload method and the optional conversion lambda.
func encodeBinary(e *encoder, n *types.Node) error {
	if err := e.node(n.Left); err != nil {
		return err
	}
	if err := e.node(n.Right); err != nil {
		return err
	}
	count := 2
	if n.Method != nil {
		if err := e.member(n.Method); err != nil {
			return err
		}
		count++
	}
	if n.Conversion != nil {
		if n.Conversion.Kind != types.KindLambda {
			return e.fail(types.ErrCodeMalformedTree, "conversion must be a lambda")
		}
		if err := e.wrap(tagConversion, n.Conversion); err != nil {
			return err
		}
		count++
	}
	attrs, err := e.resultType(nil, n)
	if err != nil {
		return err
	}
	if n.LiftedToNull {
		attrs = append(attrs, Attr{Name: attrLifted, Value: "true"})
	}
	e.emit(n.Kind.String(), attrs, count)
	return nil
}

func decodeBinary(d *decoder, el *Element, kind types.NodeKind) (*types.Node, error) {
	cur := d.children(el)
	n := &types.Node{Kind: kind}
	var err error
	if n.Left, err = cur.expr(); err != nil {
		return nil, err
	}
	if n.Right, err = cur.expr(); err != nil {
		return nil, err
	}
	if m := cur.optional(tagMethod); m != nil {
		if n.Method, err = d.member(m, types.MemberMethod); err != nil {
			return nil, err
		}
	}
	if n.Conversion, err = cur.wrapped(tagConversion); err != nil {
		return nil, err
	}
	if n.Conversion != nil && n.Conversion.Kind != types.KindLambda {
		return nil, d.fail(types.ErrCodeMalformedTree, "conversion must be a lambda")
	}
	if err := cur.done(); err != nil {
		return nil, err
	}
	if n.Type, err = d.typeAttr(el, attrType); err != nil {
		return nil, err
	}
	if n.LiftedToNull, err = d.boolAttr(el, attrLifted); err != nil {
		return nil, err
	}
	return n, nil
}

// encodeUnary serves every one-operand kind. Only throw may omit the
// operand, which makes it a rethrow.
func encodeUnary(e *encoder, n *types.Node) error {
	count := 0
	if n.Operand == nil && n.Kind != types.KindThrow {
		return e.fail(types.ErrCodeMissingRequiredChild, "missing operand")
	}
	c, err := e.optional(n.Operand)
	if err != nil {
		return err
	}
	count += c
	if n.Method != nil {
		if err := e.member(n.Method); err != nil {
			return err
		}
		count++
	}
	attrs, err := e.resultType(nil, n)
	if err != nil {
		return err
	}
	e.emit(n.Kind.String(), attrs, count)
	return nil
}

func decodeUnary(d *decoder, el *Element, kind types.NodeKind) (*types.Node, error) {
	cur := d.children(el)
	n := &types.Node{Kind: kind}
	var err error
	if n.Operand, err = cur.optExpr(); err != nil {
		return nil, err
	}
	if n.Operand == nil && kind != types.KindThrow {
		return nil, d.fail(types.ErrCodeMissingRequiredChild, "missing operand")
	}
	if m := cur.optional(tagMethod); m != nil {
		if n.Method, err = d.member(m, types.MemberMethod); err != nil {
			return nil, err
		}
	}
	if err := cur.done(); err != nil {
		return nil, err
	}
	if kind.IsConversion() {
		n.Type, err = d.requiredType(el, attrType)
	} else {
		n.Type, err = d.typeAttr(el, attrType)
	}
	if err != nil {
		return nil, err
	}
	return n, nil
}

func encodeTypeTest(e *encoder, n *types.Node) error {
	if n.TypeOperand == nil {
		return e.fail(types.ErrCodeMalformedTree, "type test without type operand")
	}
	if err := e.node(n.Operand); err != nil {
		return err
	}
	name, err := e.typeName(n.TypeOperand)
	if err != nil {
		return err
	}
	attrs, err := e.resultType([]Attr{{Name: attrTypeOperand, Value: name}}, n)
	if err != nil {
		return err
	}
	e.emit(n.Kind.String(), attrs, 1)
	return nil
}

func decodeTypeTest(d *decoder, el *Element, kind types.NodeKind) (*types.Node, error) {
	cur := d.children(el)
	n := &types.Node{Kind: kind}
	var err error
	if n.Operand, err = cur.expr(); err != nil {
		return nil, err
	}
	if err := cur.done(); err != nil {
		return nil, err
	}
	if n.TypeOperand, err = d.requiredType(el, attrTypeOperand); err != nil {
		return nil, err
	}
	if n.Type, err = d.typeAttr(el, attrType); err != nil {
		return nil, err
	}
	return n, nil
}
