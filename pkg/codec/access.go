package codec

import (
	"github.com/sandrolain/exprtree/pkg/types"
)

func encodeMemberAccess(e *encoder, n *types.Node) error {
	if n.Member == nil {
		return e.fail(types.ErrCodeMissingRequiredChild, "member access without member")
	}
	if k := n.Member.Kind; k != types.MemberField && k != types.MemberProperty {
		return e.fail(types.ErrCodeMalformedTree, "member access to a "+k.String())
	}
	count := 0
	if n.Object != nil {
		if err := e.wrap(tagExpression, n.Object); err != nil {
			return err
		}
		count++
	}
	if err := e.member(n.Member); err != nil {
		return err
	}
	attrs, err := e.resultType(nil, n)
	if err != nil {
		return err
	}
	e.emit(n.Kind.String(), attrs, count+1)
	return nil
}

func decodeMemberAccess(d *decoder, el *Element, kind types.NodeKind) (*types.Node, error) {
	cur := d.children(el)
	n := &types.Node{Kind: kind}
	var err error
	if n.Object, err = cur.wrapped(tagExpression); err != nil {
		return nil, err
	}
	mel := cur.next()
	if mel == nil {
		return nil, d.fail(types.ErrCodeMissingRequiredChild, "member access without member")
	}
	if n.Member, err = d.member(mel, types.MemberField, types.MemberProperty); err != nil {
		return nil, err
	}
	if err := cur.done(); err != nil {
		return nil, err
	}
	if n.Type, err = d.typeAttr(el, attrType); err != nil {
		return nil, err
	}
	return n, nil
}

func encodeIndex(e *encoder, n *types.Node) error {
	if err := e.node(n.Object); err != nil {
		return err
	}
	count := 1
	if n.Member != nil {
		if n.Member.Kind != types.MemberProperty {
			return e.fail(types.ErrCodeMalformedTree, "indexer must be a property")
		}
		if err := e.member(n.Member); err != nil {
			return err
		}
		count++
	}
	if err := e.group(tagArguments, n.Arguments); err != nil {
		return err
	}
	attrs, err := e.resultType(nil, n)
	if err != nil {
		return err
	}
	e.emit(n.Kind.String(), attrs, count+1)
	return nil
}

func decodeIndex(d *decoder, el *Element, kind types.NodeKind) (*types.Node, error) {
	cur := d.children(el)
	n := &types.Node{Kind: kind}
	var err error
	if n.Object, err = cur.expr(); err != nil {
		return nil, err
	}
	if p := cur.optional(tagProperty); p != nil {
		if n.Member, err = d.member(p, types.MemberProperty); err != nil {
			return nil, err
		}
	}
	if n.Arguments, err = cur.group(tagArguments); err != nil {
		return nil, err
	}
	if err := cur.done(); err != nil {
		return nil, err
	}
	if n.Type, err = d.typeAttr(el, attrType); err != nil {
		return nil, err
	}
	return n, nil
}

func encodeCall(e *encoder, n *types.Node) error {
	if n.Method == nil {
		return e.fail(types.ErrCodeMissingRequiredChild, "call without method")
	}
	if n.Method.Kind != types.MemberMethod {
		return e.fail(types.ErrCodeMalformedTree, "call target must be a method")
	}
	count := 0
	if n.Object != nil {
		if err := e.wrap(tagObject, n.Object); err != nil {
			return err
		}
		count++
	}
	if err := e.member(n.Method); err != nil {
		return err
	}
	if err := e.group(tagArguments, n.Arguments); err != nil {
		return err
	}
	attrs, err := e.resultType(nil, n)
	if err != nil {
		return err
	}
	e.emit(n.Kind.String(), attrs, count+2)
	return nil
}

func decodeCall(d *decoder, el *Element, kind types.NodeKind) (*types.Node, error) {
	cur := d.children(el)
	n := &types.Node{Kind: kind}
	var err error
	if n.Object, err = cur.wrapped(tagObject); err != nil {
		return nil, err
	}
	mel, err := cur.require(tagMethod)
	if err != nil {
		return nil, err
	}
	if n.Method, err = d.member(mel, types.MemberMethod); err != nil {
		return nil, err
	}
	if n.Arguments, err = cur.group(tagArguments); err != nil {
		return nil, err
	}
	if err := cur.done(); err != nil {
		return nil, err
	}
	if n.Type, err = d.typeAttr(el, attrType); err != nil {
		return nil, err
	}
	return n, nil
}

func encodeInvoke(e *encoder, n *types.Node) error {
	if err := e.node(n.Operand); err != nil {
		return err
	}
	if err := e.group(tagArguments, n.Arguments); err != nil {
		return err
	}
	attrs, err := e.resultType(nil, n)
	if err != nil {
		return err
	}
	e.emit(n.Kind.String(), attrs, 2)
	return nil
}

func decodeInvoke(d *decoder, el *Element, kind types.NodeKind) (*types.Node, error) {
	cur := d.children(el)
	n := &types.Node{Kind: kind}
	var err error
	if n.Operand, err = cur.expr(); err != nil {
		return nil, err
	}
	if n.Arguments, err = cur.group(tagArguments); err != nil {
		return nil, err
	}
	if err := cur.done(); err != nil {
		return nil, err
	}
	if n.Type, err = d.typeAttr(el, attrType); err != nil {
		return nil, err
	}
	return n, nil
}

func encodeNew(e *encoder, n *types.Node) error {
	count := 0
	if n.Method != nil {
		if n.Method.Kind != types.MemberConstructor {
			return e.fail(types.ErrCodeMalformedTree, "new requires a constructor")
		}
		if err := e.member(n.Method); err != nil {
			return err
		}
		count++
	}
	if err := e.group(tagArguments, n.Arguments); err != nil {
		return err
	}
	count++
	if len(n.Members) > 0 {
		if err := e.members(n.Members); err != nil {
			return err
		}
		e.emit(tagMembers, nil, len(n.Members))
		count++
	}
	attrs, err := e.resultType(nil, n)
	if err != nil {
		return err
	}
	e.emit(n.Kind.String(), attrs, count)
	return nil
}

func decodeNew(d *decoder, el *Element, kind types.NodeKind) (*types.Node, error) {
	cur := d.children(el)
	n := &types.Node{Kind: kind}
	var err error
	if c := cur.optional(tagConstructor); c != nil {
		if n.Method, err = d.member(c, types.MemberConstructor); err != nil {
			return nil, err
		}
	}
	if n.Arguments, err = cur.group(tagArguments); err != nil {
		return nil, err
	}
	if w := cur.optional(tagMembers); w != nil {
		for _, c := range w.Children {
			m, err := d.member(c, types.MemberField, types.MemberProperty, types.MemberMethod)
			if err != nil {
				return nil, err
			}
			n.Members = append(n.Members, m)
		}
	}
	if err := cur.done(); err != nil {
		return nil, err
	}
	if n.Type, err = d.typeAttr(el, attrType); err != nil {
		return nil, err
	}
	return n, nil
}

func encodeNewArrayInit(e *encoder, n *types.Node) error {
	if err := e.nodes(n.Expressions); err != nil {
		return err
	}
	attrs, err := e.resultType(nil, n)
	if err != nil {
		return err
	}
	e.emit(n.Kind.String(), attrs, len(n.Expressions))
	return nil
}

func decodeNewArrayInit(d *decoder, el *Element, kind types.NodeKind) (*types.Node, error) {
	t, err := d.requiredType(el, attrType)
	if err != nil {
		return nil, err
	}
	n := &types.Node{Kind: kind, Type: t}
	if n.Expressions, err = d.nodes(el); err != nil {
		return nil, err
	}
	return n, nil
}

func encodeNewArrayBounds(e *encoder, n *types.Node) error {
	if len(n.Expressions) == 0 {
		return e.fail(types.ErrCodeMissingRequiredChild, "array bounds without bounds")
	}
	if err := e.group(tagBounds, n.Expressions); err != nil {
		return err
	}
	attrs, err := e.resultType(nil, n)
	if err != nil {
		return err
	}
	e.emit(n.Kind.String(), attrs, 1)
	return nil
}

func decodeNewArrayBounds(d *decoder, el *Element, kind types.NodeKind) (*types.Node, error) {
	t, err := d.requiredType(el, attrType)
	if err != nil {
		return nil, err
	}
	cur := d.children(el)
	n := &types.Node{Kind: kind, Type: t}
	if n.Expressions, err = cur.group(tagBounds); err != nil {
		return nil, err
	}
	if len(n.Expressions) == 0 {
		return nil, d.fail(types.ErrCodeMissingRequiredChild, "array bounds without bounds")
	}
	if err := cur.done(); err != nil {
		return nil, err
	}
	return n, nil
}

func encodeListInit(e *encoder, n *types.Node) error {
	if n.NewExpr == nil || n.NewExpr.Kind != types.KindNew {
		return e.fail(types.ErrCodeMalformedTree, "list initializer requires a new expression")
	}
	if len(n.Initializers) == 0 {
		return e.fail(types.ErrCodeMissingRequiredChild, "list initializer without elements")
	}
	if err := e.node(n.NewExpr); err != nil {
		return err
	}
	for _, ei := range n.Initializers {
		if err := e.elementInit(ei); err != nil {
			return err
		}
	}
	attrs, err := e.resultType(nil, n)
	if err != nil {
		return err
	}
	e.emit(n.Kind.String(), attrs, 1+len(n.Initializers))
	return nil
}

func decodeListInit(d *decoder, el *Element, kind types.NodeKind) (*types.Node, error) {
	cur := d.children(el)
	n := &types.Node{Kind: kind}
	var err error
	if n.NewExpr, err = d.newExpr(cur); err != nil {
		return nil, err
	}
	for cur.peekTag() == tagElementInit {
		ei, err := d.elementInit(cur.next())
		if err != nil {
			return nil, err
		}
		n.Initializers = append(n.Initializers, ei)
	}
	if len(n.Initializers) == 0 {
		return nil, d.fail(types.ErrCodeMissingRequiredChild, "list initializer without elements")
	}
	if err := cur.done(); err != nil {
		return nil, err
	}
	if n.Type, err = d.typeAttr(el, attrType); err != nil {
		return nil, err
	}
	return n, nil
}

func encodeMemberInit(e *encoder, n *types.Node) error {
	if n.NewExpr == nil || n.NewExpr.Kind != types.KindNew {
		return e.fail(types.ErrCodeMalformedTree, "member initializer requires a new expression")
	}
	if err := e.node(n.NewExpr); err != nil {
		return err
	}
	if err := e.bindings(n.Bindings); err != nil {
		return err
	}
	attrs, err := e.resultType(nil, n)
	if err != nil {
		return err
	}
	e.emit(n.Kind.String(), attrs, 2)
	return nil
}

func decodeMemberInit(d *decoder, el *Element, kind types.NodeKind) (*types.Node, error) {
	cur := d.children(el)
	n := &types.Node{Kind: kind}
	var err error
	if n.NewExpr, err = d.newExpr(cur); err != nil {
		return nil, err
	}
	w, err := cur.require(tagBindings)
	if err != nil {
		return nil, err
	}
	if n.Bindings, err = d.bindings(w); err != nil {
		return nil, err
	}
	if err := cur.done(); err != nil {
		return nil, err
	}
	if n.Type, err = d.typeAttr(el, attrType); err != nil {
		return nil, err
	}
	return n, nil
}

// newExpr decodes the leading new child of an initializer.
func (d *decoder) newExpr(cur *cursor) (*types.Node, error) {
	if cur.peekTag() != types.KindNew.String() {
		return nil, d.fail(types.ErrCodeMissingRequiredChild, "initializer without new expression")
	}
	return cur.expr()
}
