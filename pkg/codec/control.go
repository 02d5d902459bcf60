package codec

import (
	"github.com/sandrolain/exprtree/pkg/types"
)

func encodeBlock(e *encoder, n *types.Node) error {
	if len(n.Expressions) == 0 {
		return e.fail(types.ErrCodeMissingRequiredChild, "block without expressions")
	}
	if err := e.declare(n.Variables); err != nil {
		return err
	}
	e.emit(tagVariables, nil, len(n.Variables))
	if err := e.nodes(n.Expressions); err != nil {
		return err
	}
	e.closeScope(n.Variables)

	attrs, err := e.resultType(nil, n)
	if err != nil {
		return err
	}
	e.emit(n.Kind.String(), attrs, 1+len(n.Expressions))
	return nil
}

func decodeBlock(d *decoder, el *Element, kind types.NodeKind) (*types.Node, error) {
	cur := d.children(el)
	n := &types.Node{Kind: kind}

	d.scopes.pushScope()
	defer d.scopes.popScope()

	if w := cur.optional(tagVariables); w != nil {
		for _, c := range w.Children {
			p, err := d.paramDef(c)
			if err != nil {
				return nil, err
			}
			n.Variables = append(n.Variables, p)
		}
	}
	for cur.peekTag() != "" {
		x, err := cur.expr()
		if err != nil {
			return nil, err
		}
		n.Expressions = append(n.Expressions, x)
	}
	if len(n.Expressions) == 0 {
		return nil, d.fail(types.ErrCodeMissingRequiredChild, "block without expressions")
	}

	var err error
	if n.Type, err = d.typeAttr(el, attrType); err != nil {
		return nil, err
	}
	return n, nil
}

func encodeConditional(e *encoder, n *types.Node) error {
	for _, c := range []*types.Node{n.Test, n.IfTrue, n.IfFalse} {
		if err := e.node(c); err != nil {
			return err
		}
	}
	attrs, err := e.resultType(nil, n)
	if err != nil {
		return err
	}
	e.emit(n.Kind.String(), attrs, 3)
	return nil
}

func decodeConditional(d *decoder, el *Element, kind types.NodeKind) (*types.Node, error) {
	cur := d.children(el)
	n := &types.Node{Kind: kind}
	var err error
	if n.Test, err = cur.expr(); err != nil {
		return nil, err
	}
	if n.IfTrue, err = cur.expr(); err != nil {
		return nil, err
	}
	if n.IfFalse, err = cur.expr(); err != nil {
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

func encodeLoop(e *encoder, n *types.Node) error {
	if err := e.node(n.Body); err != nil {
		return err
	}
	count := 1
	for _, l := range []struct {
		tag    string
		target *types.LabelTarget
	}{{tagBreakLabel, n.BreakLabel}, {tagContinueLabel, n.ContinueLabel}} {
		if l.target == nil {
			continue
		}
		if err := e.label(l.target); err != nil {
			return err
		}
		e.emit(l.tag, nil, 1)
		count++
	}
	attrs, err := e.resultType(nil, n)
	if err != nil {
		return err
	}
	e.emit(n.Kind.String(), attrs, count)
	return nil
}

func decodeLoop(d *decoder, el *Element, kind types.NodeKind) (*types.Node, error) {
	cur := d.children(el)
	n := &types.Node{Kind: kind}
	var err error
	if n.Body, err = cur.expr(); err != nil {
		return nil, err
	}
	if n.BreakLabel, err = d.wrappedLabel(cur.optional(tagBreakLabel)); err != nil {
		return nil, err
	}
	if n.ContinueLabel, err = d.wrappedLabel(cur.optional(tagContinueLabel)); err != nil {
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

func encodeLabel(e *encoder, n *types.Node) error {
	if err := e.label(n.Target); err != nil {
		return err
	}
	c, err := e.optional(n.Operand)
	if err != nil {
		return err
	}
	attrs, err := e.resultType(nil, n)
	if err != nil {
		return err
	}
	e.emit(n.Kind.String(), attrs, 1+c)
	return nil
}

func decodeLabel(d *decoder, el *Element, kind types.NodeKind) (*types.Node, error) {
	cur := d.children(el)
	n := &types.Node{Kind: kind}
	target := cur.next()
	if target == nil {
		return nil, d.fail(types.ErrCodeMissingRequiredChild, "label without target")
	}
	var err error
	if n.Target, err = d.labelTarget(target); err != nil {
		return nil, err
	}
	if n.Operand, err = cur.optExpr(); err != nil {
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

func encodeGoto(e *encoder, n *types.Node) error {
	if err := e.label(n.Target); err != nil {
		return err
	}
	c, err := e.optional(n.Operand)
	if err != nil {
		return err
	}
	attrs, err := e.resultType([]Attr{{Name: attrKind, Value: n.GotoKind.String()}}, n)
	if err != nil {
		return err
	}
	e.emit(n.Kind.String(), attrs, 1+c)
	return nil
}

func decodeGoto(d *decoder, el *Element, kind types.NodeKind) (*types.Node, error) {
	n := &types.Node{Kind: kind}
	gk, _ := el.Attr(attrKind)
	var ok bool
	if n.GotoKind, ok = types.ParseGotoKind(gk); !ok {
		return nil, d.fail(types.ErrCodeMalformedTree, "invalid goto kind").WithName(gk)
	}
	cur := d.children(el)
	target := cur.next()
	if target == nil {
		return nil, d.fail(types.ErrCodeMissingRequiredChild, "goto without target")
	}
	var err error
	if n.Target, err = d.labelTarget(target); err != nil {
		return nil, err
	}
	if n.Operand, err = cur.optExpr(); err != nil {
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

func encodeSwitch(e *encoder, n *types.Node) error {
	if err := e.node(n.Operand); err != nil {
		return err
	}
	count := 1
	if n.Comparison != nil {
		if err := e.member(n.Comparison); err != nil {
			return err
		}
		count++
	}
	for _, c := range n.Cases {
		if c == nil || len(c.TestValues) == 0 {
			return e.fail(types.ErrCodeMissingRequiredChild, "switch case without test values")
		}
		if err := e.group(tagTestValues, c.TestValues); err != nil {
			return err
		}
		if err := e.node(c.Body); err != nil {
			return err
		}
		e.emit(tagCase, nil, 2)
		count++
	}
	if n.DefaultBody != nil {
		if err := e.wrap(tagDefaultCase, n.DefaultBody); err != nil {
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

func decodeSwitch(d *decoder, el *Element, kind types.NodeKind) (*types.Node, error) {
	cur := d.children(el)
	n := &types.Node{Kind: kind}
	var err error
	if n.Operand, err = cur.expr(); err != nil {
		return nil, err
	}
	if m := cur.optional(tagMethod); m != nil {
		if n.Comparison, err = d.member(m, types.MemberMethod); err != nil {
			return nil, err
		}
	}
	for cur.peekTag() == tagCase {
		c, err := d.switchCase(cur.next())
		if err != nil {
			return nil, err
		}
		n.Cases = append(n.Cases, c)
	}
	if n.DefaultBody, err = cur.wrapped(tagDefaultCase); err != nil {
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

func (d *decoder) switchCase(el *Element) (*types.SwitchCase, error) {
	cur := d.children(el)
	values, err := cur.group(tagTestValues)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, d.fail(types.ErrCodeMissingRequiredChild, "switch case without test values")
	}
	body, err := cur.expr()
	if err != nil {
		return nil, err
	}
	if err := cur.done(); err != nil {
		return nil, err
	}
	return &types.SwitchCase{TestValues: values, Body: body}, nil
}

func encodeTry(e *encoder, n *types.Node) error {
	if err := e.node(n.Body); err != nil {
		return err
	}
	count := 1
	for _, h := range n.Handlers {
		if err := e.catch(h); err != nil {
			return err
		}
		count++
	}
	for _, part := range []struct {
		tag  string
		body *types.Node
	}{{tagFinally, n.Finally}, {tagFault, n.Fault}} {
		if part.body == nil {
			continue
		}
		if err := e.wrap(part.tag, part.body); err != nil {
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

// catch emits one handler. The catch variable is scoped to the body and
// the filter.
func (e *encoder) catch(h *types.CatchBlock) error {
	if h == nil {
		return e.fail(types.ErrCodeMissingRequiredChild, "nil catch block")
	}
	var attrs []Attr
	if h.Test != nil {
		name, err := e.typeName(h.Test)
		if err != nil {
			return err
		}
		attrs = append(attrs, Attr{Name: attrTest, Value: name})
	}

	var vars []*types.Parameter
	if h.Variable != nil {
		vars = []*types.Parameter{h.Variable}
	}
	if err := e.declare(vars); err != nil {
		return err
	}
	count := 0
	if h.Variable != nil {
		e.emit(tagVariable, nil, 1)
		count++
	}
	if err := e.node(h.Body); err != nil {
		return err
	}
	count++
	if h.Filter != nil {
		if err := e.wrap(tagFilter, h.Filter); err != nil {
			return err
		}
		count++
	}
	e.closeScope(vars)
	e.emit(tagCatch, attrs, count)
	return nil
}

func decodeTry(d *decoder, el *Element, kind types.NodeKind) (*types.Node, error) {
	cur := d.children(el)
	n := &types.Node{Kind: kind}
	var err error
	if n.Body, err = cur.expr(); err != nil {
		return nil, err
	}
	for cur.peekTag() == tagCatch {
		h, err := d.catch(cur.next())
		if err != nil {
			return nil, err
		}
		n.Handlers = append(n.Handlers, h)
	}
	if n.Finally, err = cur.wrapped(tagFinally); err != nil {
		return nil, err
	}
	if n.Fault, err = cur.wrapped(tagFault); err != nil {
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

func (d *decoder) catch(el *Element) (*types.CatchBlock, error) {
	h := &types.CatchBlock{}
	var err error
	if h.Test, err = d.typeAttr(el, attrTest); err != nil {
		return nil, err
	}

	d.scopes.pushScope()
	defer d.scopes.popScope()

	cur := d.children(el)
	if w := cur.optional(tagVariable); w != nil {
		if len(w.Children) != 1 {
			return nil, d.fail(types.ErrCodeMalformedTree, "catch variable wrapper must hold one parameter")
		}
		if h.Variable, err = d.paramDef(w.Children[0]); err != nil {
			return nil, err
		}
	}
	if h.Body, err = cur.expr(); err != nil {
		return nil, err
	}
	if h.Filter, err = cur.wrapped(tagFilter); err != nil {
		return nil, err
	}
	if err := cur.done(); err != nil {
		return nil, err
	}
	return h, nil
}
