package types

import "reflect"

// Builders for well-formed nodes. They fill the fields a kind needs and leave
// Type nil whenever the implied type is the intended one.

// Constant creates a constant node of type t. An untyped int given for an
// integral primitive or an enum is converted to the Go type that type
// decodes to, provided it fits. Other values are stored as given.
func Constant(value any, t *Type) *Node {
	if i, ok := value.(int); ok && t != nil {
		value = fitInt(i, t)
	}
	return &Node{Kind: KindConstant, Value: value, Type: t}
}

func fitInt(i int, t *Type) any {
	if t.Kind == TypeNullable && t.Elem != nil {
		t = t.Elem
	}
	var gt reflect.Type
	switch {
	case t.Kind == TypeEnum:
		gt = t.GoType
		if gt == nil {
			return int64(i)
		}
	case t == SByte, t == Int16, t == Int32, t == Int64,
		t == Byte, t == UInt16, t == UInt32, t == UInt64:
		gt = t.GoType
	default:
		return i
	}
	rv := reflect.New(gt).Elem()
	switch {
	case rv.CanInt() && !rv.OverflowInt(int64(i)):
		rv.SetInt(int64(i))
	case rv.CanUint() && i >= 0 && !rv.OverflowUint(uint64(i)):
		rv.SetUint(uint64(i))
	default:
		return i
	}
	return rv.Interface()
}

// Default creates a default-value node of type t.
func Default(t *Type) *Node {
	return &Node{Kind: KindDefault, Type: t}
}

// Param creates a new binding.
func Param(name string, t *Type) *Parameter {
	return &Parameter{Name: name, Type: t}
}

// Ref creates a parameter node referring to p.
func Ref(p *Parameter) *Node {
	return &Node{Kind: KindParameter, Param: p}
}

// MakeBinary creates a binary operator node of the given kind.
func MakeBinary(kind NodeKind, left, right *Node) *Node {
	return &Node{Kind: kind, Left: left, Right: right}
}

// MakeUnary creates a unary operator node of the given kind.
func MakeUnary(kind NodeKind, operand *Node, t *Type) *Node {
	return &Node{Kind: kind, Operand: operand, Type: t}
}

// Add creates left + right.
func Add(left, right *Node) *Node { return MakeBinary(KindAdd, left, right) }

// Assign creates left = right.
func Assign(left, right *Node) *Node { return MakeBinary(KindAssign, left, right) }

// Convert creates a conversion of operand to t.
func Convert(operand *Node, t *Type) *Node { return MakeUnary(KindConvert, operand, t) }

// TypeIs creates an "operand is t" test.
func TypeIs(operand *Node, t *Type) *Node {
	return &Node{Kind: KindTypeIs, Operand: operand, TypeOperand: t}
}

// Lambda creates a lambda over params.
func Lambda(body *Node, params ...*Parameter) *Node {
	return &Node{Kind: KindLambda, Body: body, Parameters: params}
}

// Block creates a block declaring vars.
func Block(vars []*Parameter, exprs ...*Node) *Node {
	return &Node{Kind: KindBlock, Variables: vars, Expressions: exprs}
}

// Condition creates test ? ifTrue : ifFalse.
func Condition(test, ifTrue, ifFalse *Node) *Node {
	return &Node{Kind: KindConditional, Test: test, IfTrue: ifTrue, IfFalse: ifFalse}
}

// Loop creates a loop with optional break and continue targets.
func Loop(body *Node, brk, cont *LabelTarget) *Node {
	return &Node{Kind: KindLoop, Body: body, BreakLabel: brk, ContinueLabel: cont}
}

// Label creates a label node marking target.
func Label(target *LabelTarget, def *Node) *Node {
	return &Node{Kind: KindLabel, Target: target, Operand: def}
}

// Goto creates a jump of the given flavour to target.
func Goto(kind GotoKind, target *LabelTarget, value *Node) *Node {
	return &Node{Kind: KindGoto, GotoKind: kind, Target: target, Operand: value}
}

// Switch creates a switch over value.
func Switch(value, defaultBody *Node, cases ...*SwitchCase) *Node {
	return &Node{Kind: KindSwitch, Operand: value, DefaultBody: defaultBody, Cases: cases}
}

// Case creates a switch arm.
func Case(body *Node, values ...*Node) *SwitchCase {
	return &SwitchCase{Body: body, TestValues: values}
}

// Try creates a try node.
func Try(body, finally *Node, handlers ...*CatchBlock) *Node {
	return &Node{Kind: KindTry, Body: body, Finally: finally, Handlers: handlers}
}

// Catch creates a handler for exceptions of type test.
func Catch(test *Type, variable *Parameter, body *Node) *CatchBlock {
	return &CatchBlock{Test: test, Variable: variable, Body: body}
}

// Throw creates a throw of value; a nil value rethrows.
func Throw(value *Node) *Node {
	return &Node{Kind: KindThrow, Operand: value}
}

// Call creates a method call. object is nil for static methods.
func Call(object *Node, method *Member, args ...*Node) *Node {
	return &Node{Kind: KindCall, Object: object, Method: method, Arguments: args}
}

// Access creates a field or property access. object is nil for static members.
func Access(object *Node, member *Member) *Node {
	return &Node{Kind: KindMemberAccess, Object: object, Member: member}
}

// Index creates an indexer access; indexer is nil for arrays.
func Index(object *Node, indexer *Member, args ...*Node) *Node {
	return &Node{Kind: KindIndex, Object: object, Member: indexer, Arguments: args}
}

// Invoke applies a delegate to args.
func Invoke(fn *Node, args ...*Node) *Node {
	return &Node{Kind: KindInvoke, Operand: fn, Arguments: args}
}

// New creates an object construction through ctor.
func New(ctor *Member, args ...*Node) *Node {
	return &Node{Kind: KindNew, Method: ctor, Arguments: args}
}

// NewArrayInit creates an array of elem holding exprs.
func NewArrayInit(elem *Type, exprs ...*Node) *Node {
	return &Node{Kind: KindNewArrayInit, Type: ArrayOf(elem), Expressions: exprs}
}

// NewArrayBounds creates an array of elem with the given bound.
func NewArrayBounds(elem *Type, bounds ...*Node) *Node {
	return &Node{Kind: KindNewArrayBounds, Type: ArrayOf(elem), Expressions: bounds}
}

// ListInit creates a collection initializer.
func ListInit(newExpr *Node, inits ...*ElementInit) *Node {
	return &Node{Kind: KindListInit, NewExpr: newExpr, Initializers: inits}
}

// ElementInitOf creates one collection initializer entry.
func ElementInitOf(add *Member, args ...*Node) *ElementInit {
	return &ElementInit{AddMethod: add, Arguments: args}
}

// MemberInit creates an object initializer.
func MemberInit(newExpr *Node, bindings ...*MemberBinding) *Node {
	return &Node{Kind: KindMemberInit, NewExpr: newExpr, Bindings: bindings}
}

// Bind creates an assignment binding.
func Bind(m *Member, expr *Node) *MemberBinding {
	return &MemberBinding{Kind: BindingAssignment, Member: m, Expression: expr}
}

// BindMembers creates a nested member binding.
func BindMembers(m *Member, bindings ...*MemberBinding) *MemberBinding {
	return &MemberBinding{Kind: BindingMemberMember, Member: m, Bindings: bindings}
}

// BindList creates a list binding.
func BindList(m *Member, inits ...*ElementInit) *MemberBinding {
	return &MemberBinding{Kind: BindingList, Member: m, Initializers: inits}
}

// RuntimeVars exposes vars for runtime inspection.
func RuntimeVars(vars ...*Parameter) *Node {
	return &Node{Kind: KindRuntimeVariables, Variables: vars}
}
