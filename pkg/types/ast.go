package types

// GotoKind distinguishes the jump flavours carried by goto nodes.
type GotoKind uint8

const (
	GotoJump GotoKind = iota
	GotoReturn
	GotoBreak
	GotoContinue
)

var gotoKindNames = [...]string{
	GotoJump:     "goto",
	GotoReturn:   "return",
	GotoBreak:    "break",
	GotoContinue: "continue",
}

func (k GotoKind) String() string {
	if int(k) < len(gotoKindNames) {
		return gotoKindNames[k]
	}
	return "unknown"
}

// ParseGotoKind maps the goto kind attribute to a GotoKind.
func ParseGotoKind(s string) (GotoKind, bool) {
	for i, n := range gotoKindNames {
		if n == s {
			return GotoKind(i), true
		}
	}
	return 0, false
}

// Parameter is a named, typed variable slot. Parameter nodes that refer to
// the same slot share the same *Parameter.
type Parameter struct {
	Name  string
	Type  *Type
	ByRef bool
}

// LabelTarget is a jump destination shared by label, goto and loop nodes.
type LabelTarget struct {
	Name string
	Type *Type // nil means void
}

// SwitchCase is one arm of a switch node.
type SwitchCase struct {
	TestValues []*Node
	Body       *Node
}

// CatchBlock is one handler of a try node.
type CatchBlock struct {
	Test     *Type      // exception type caught
	Variable *Parameter // optional
	Body     *Node
	Filter   *Node // optional
}

// ElementInit is one Add-style call of a list initializer.
type ElementInit struct {
	AddMethod *Member
	Arguments []*Node
}

// BindingKind identifies the variant of a MemberBinding.
type BindingKind uint8

const (
	BindingAssignment BindingKind = iota
	BindingMemberMember
	BindingList
)

// MemberBinding initializes one member inside a member initializer.
type MemberBinding struct {
	Kind   BindingKind
	Member *Member

	Expression   *Node            // BindingAssignment
	Bindings     []*MemberBinding // BindingMemberMember
	Initializers []*ElementInit   // BindingList
}

// Node is an executable-expression AST node.
//
// Which fields are meaningful depends on Kind:
//   - binary: Left, Right, Method?, Conversion?, LiftedToNull
//   - unary: Operand (nil for rethrow), Method?
//   - typeIs/typeEqual: Operand, TypeOperand
//   - constant: Value; default: Type
//   - parameter: Param
//   - block: Variables, Expressions
//   - conditional: Test, IfTrue, IfFalse
//   - loop: Body, BreakLabel?, ContinueLabel?
//   - switch: Operand, Comparison?, Cases, DefaultBody?
//   - label: Target, Operand (default value)?
//   - goto: GotoKind, Target, Operand (value)?
//   - try: Body, Handlers, Finally?, Fault?
//   - memberAccess: Object?, Member
//   - index: Object, Member (indexer)?, Arguments
//   - call: Object?, Method, Arguments
//   - invoke: Operand, Arguments
//   - new: Method (constructor)?, Arguments, Members?
//   - newArrayInit, newArrayBounds: Type, Expressions
//   - listInit: NewExpr, Initializers
//   - memberInit: NewExpr, Bindings
//   - lambda: Parameters, Body, Name, TailCall
//   - runtimeVariables: Variables
type Node struct {
	Kind NodeKind
	// Type is the explicit result type; nil means the kind's implied type.
	Type *Type

	Left, Right *Node
	Operand     *Node
	Object      *Node
	Test        *Node
	IfTrue      *Node
	IfFalse     *Node
	Body        *Node
	Conversion  *Node
	NewExpr     *Node
	DefaultBody *Node
	Finally     *Node
	Fault       *Node

	Arguments   []*Node
	Expressions []*Node
	Parameters  []*Parameter
	Variables   []*Parameter

	Param  *Parameter
	Value  any
	Method *Member
	Member *Member
	// Members lists the members initialized positionally by a new node.
	Members    []*Member
	Comparison *Member

	Target        *LabelTarget
	BreakLabel    *LabelTarget
	ContinueLabel *LabelTarget
	GotoKind      GotoKind

	Cases        []*SwitchCase
	Handlers     []*CatchBlock
	Initializers []*ElementInit
	Bindings     []*MemberBinding

	TypeOperand  *Type
	LiftedToNull bool
	TailCall     bool
	Name         string
}

// String returns the kind tag of the node.
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	return n.Kind.String()
}
