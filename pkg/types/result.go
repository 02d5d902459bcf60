package types

// ResultType returns the type produced by n: the explicit Type when set,
// otherwise the kind's implied type.
func (n *Node) ResultType() *Type {
	if n == nil {
		return Void
	}
	if n.Type != nil {
		return n.Type
	}
	if t := n.ImpliedType(); t != nil {
		return t
	}
	return Object
}

// ImpliedType returns the result type a node of this shape has when no
// explicit type is given. Kinds that always carry an explicit type return nil.
func (n *Node) ImpliedType() *Type {
	k := n.Kind
	switch {
	case k.IsComparison():
		if n.Method != nil {
			return n.Method.Type()
		}
		if n.LiftedToNull {
			return NullableOf(Bool)
		}
		return Bool
	case k == KindCoalesce:
		return n.Right.ResultType()
	case k == KindArrayIndex:
		if e := ElemOf(n.Left.ResultType()); e != nil {
			return e
		}
		return Object
	case k.IsBinary():
		if n.Method != nil && !k.IsAssignment() {
			return n.Method.Type()
		}
		return n.Left.ResultType()
	case k.IsConversion():
		return nil
	case k == KindIsTrue, k == KindIsFalse:
		return Bool
	case k == KindArrayLength:
		return Int32
	case k == KindThrow:
		return Void
	case k == KindQuote:
		return n.Operand.ResultType()
	case k.IsUnary():
		if n.Method != nil {
			return n.Method.Type()
		}
		return n.Operand.ResultType()
	}

	switch k {
	case KindConstant, KindDefault, KindNewArrayInit, KindNewArrayBounds:
		return nil
	case KindParameter:
		if n.Param == nil {
			return nil
		}
		return n.Param.Type
	case KindTypeIs, KindTypeEqual:
		return Bool
	case KindBlock:
		if len(n.Expressions) == 0 {
			return Void
		}
		return n.Expressions[len(n.Expressions)-1].ResultType()
	case KindConditional:
		return n.IfTrue.ResultType()
	case KindLoop:
		if n.BreakLabel != nil && n.BreakLabel.Type != nil {
			return n.BreakLabel.Type
		}
		return Void
	case KindSwitch:
		if len(n.Cases) > 0 {
			return n.Cases[0].Body.ResultType()
		}
		if n.DefaultBody != nil {
			return n.DefaultBody.ResultType()
		}
		return Void
	case KindLabel:
		if n.Target != nil && n.Target.Type != nil {
			return n.Target.Type
		}
		return Void
	case KindGoto:
		return Void
	case KindTry:
		return n.Body.ResultType()
	case KindCall:
		if n.Method == nil {
			return nil
		}
		return n.Method.Type()
	case KindMemberAccess:
		if n.Member == nil {
			return nil
		}
		return n.Member.Type()
	case KindIndex:
		if n.Member != nil {
			return n.Member.Type()
		}
		return ElemOf(n.Object.ResultType())
	case KindInvoke:
		if d := n.Operand.ResultType(); d.Kind == TypeFunc {
			return d.Result
		}
		return nil
	case KindNew:
		if n.Method == nil {
			return nil
		}
		return n.Method.DeclaringType
	case KindListInit, KindMemberInit:
		return n.NewExpr.ResultType()
	case KindLambda:
		ps := make([]*Type, len(n.Parameters))
		for i, p := range n.Parameters {
			ps[i] = p.Type
		}
		return FuncOf(ps, n.Body.ResultType())
	case KindRuntimeVariables:
		return RuntimeVariables
	}
	return nil
}
