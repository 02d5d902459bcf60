// Package types defines the data model shared by the exprtree packages.
//
// This package contains type definitions for:
//   - Node: executable-expression AST nodes and their kinds
//   - Parameter and LabelTarget: bindings shared by reference inside a tree
//   - Type and Member: type and member descriptors resolved from metadata
//   - Error types: structured errors with codes
package types

// Children returns the direct child nodes of n in serialized order.
// Nodes nested inside cases, handlers, initializers and bindings are
// included; descriptors and bindings are not.
func Children(n *Node) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	add := func(c ...*Node) {
		for _, x := range c {
			if x != nil {
				out = append(out, x)
			}
		}
	}
	switch {
	case n.Kind.IsBinary():
		add(n.Left, n.Right, n.Conversion)
		return out
	case n.Kind.IsUnary():
		add(n.Operand)
		return out
	}
	switch n.Kind {
	case KindTypeIs, KindTypeEqual, KindInvoke, KindLabel, KindGoto:
		add(n.Operand)
		add(n.Arguments...)
	case KindBlock, KindNewArrayInit, KindNewArrayBounds:
		add(n.Expressions...)
	case KindConditional:
		add(n.Test, n.IfTrue, n.IfFalse)
	case KindLoop, KindLambda:
		add(n.Body)
	case KindSwitch:
		add(n.Operand)
		for _, c := range n.Cases {
			add(c.TestValues...)
			add(c.Body)
		}
		add(n.DefaultBody)
	case KindTry:
		add(n.Body)
		for _, h := range n.Handlers {
			add(h.Body, h.Filter)
		}
		add(n.Finally, n.Fault)
	case KindMemberAccess, KindIndex, KindCall:
		add(n.Object)
		add(n.Arguments...)
	case KindNew:
		add(n.Arguments...)
	case KindListInit:
		add(n.NewExpr)
		for _, ei := range n.Initializers {
			add(ei.Arguments...)
		}
	case KindMemberInit:
		add(n.NewExpr)
		out = appendBindingChildren(out, n.Bindings)
	}
	return out
}

func appendBindingChildren(out []*Node, bs []*MemberBinding) []*Node {
	for _, b := range bs {
		switch b.Kind {
		case BindingAssignment:
			if b.Expression != nil {
				out = append(out, b.Expression)
			}
		case BindingMemberMember:
			out = appendBindingChildren(out, b.Bindings)
		case BindingList:
			for _, ei := range b.Initializers {
				out = append(out, ei.Arguments...)
			}
		}
	}
	return out
}

// Walk calls fn for n and every descendant in depth-first order. Returning
// false from fn skips the node's children.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range Children(n) {
		Walk(c, fn)
	}
}

// Count returns the number of nodes in the tree rooted at n.
func Count(n *Node) int {
	c := 0
	Walk(n, func(*Node) bool {
		c++
		return true
	})
	return c
}
