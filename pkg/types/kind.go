package types

// NodeKind identifies the variant of an AST node.
//
// The set is closed and dense: every value below KindCount has a tag and a
// catalog entry. Binary and unary operators occupy contiguous ranges so that
// classification is a range check.
type NodeKind uint8

const (
	// Literals
	KindConstant NodeKind = iota
	KindDefault

	// Variables
	KindParameter

	// Binary operators (KindAdd .. KindRightShiftAssign)
	KindAdd
	KindAddChecked
	KindSubtract
	KindSubtractChecked
	KindMultiply
	KindMultiplyChecked
	KindDivide
	KindModulo
	KindPower
	KindAnd
	KindOr
	KindExclusiveOr
	KindLeftShift
	KindRightShift
	KindAndAlso
	KindOrElse
	KindEqual
	KindNotEqual
	KindLessThan
	KindLessThanOrEqual
	KindGreaterThan
	KindGreaterThanOrEqual
	KindCoalesce
	KindArrayIndex
	KindAssign
	KindAddAssign
	KindAddAssignChecked
	KindSubtractAssign
	KindSubtractAssignChecked
	KindMultiplyAssign
	KindMultiplyAssignChecked
	KindDivideAssign
	KindModuloAssign
	KindPowerAssign
	KindAndAssign
	KindOrAssign
	KindExclusiveOrAssign
	KindLeftShiftAssign
	KindRightShiftAssign

	// Unary operators (KindNegate .. KindThrow)
	KindNegate
	KindNegateChecked
	KindUnaryPlus
	KindNot
	KindOnesComplement
	KindIsTrue
	KindIsFalse
	KindIncrement
	KindDecrement
	KindPreIncrementAssign
	KindPreDecrementAssign
	KindPostIncrementAssign
	KindPostDecrementAssign
	KindConvert
	KindConvertChecked
	KindTypeAs
	KindUnbox
	KindQuote
	KindArrayLength
	KindThrow

	// Type tests
	KindTypeIs
	KindTypeEqual

	// Control flow
	KindBlock
	KindConditional
	KindLoop
	KindSwitch
	KindLabel
	KindGoto
	KindTry

	// Access
	KindMemberAccess
	KindIndex
	KindCall
	KindInvoke

	// Construction
	KindNew
	KindNewArrayInit
	KindNewArrayBounds
	KindListInit
	KindMemberInit

	// Binding
	KindLambda
	KindRuntimeVariables

	KindCount
)

var kindTags = [KindCount]string{
	KindConstant:              "constant",
	KindDefault:               "default",
	KindParameter:             "parameter",
	KindAdd:                   "add",
	KindAddChecked:            "addChecked",
	KindSubtract:              "subtract",
	KindSubtractChecked:       "subtractChecked",
	KindMultiply:              "multiply",
	KindMultiplyChecked:       "multiplyChecked",
	KindDivide:                "divide",
	KindModulo:                "modulo",
	KindPower:                 "power",
	KindAnd:                   "and",
	KindOr:                    "or",
	KindExclusiveOr:           "exclusiveOr",
	KindLeftShift:             "leftShift",
	KindRightShift:            "rightShift",
	KindAndAlso:               "andAlso",
	KindOrElse:                "orElse",
	KindEqual:                 "equal",
	KindNotEqual:              "notEqual",
	KindLessThan:              "lessThan",
	KindLessThanOrEqual:       "lessThanOrEqual",
	KindGreaterThan:           "greaterThan",
	KindGreaterThanOrEqual:    "greaterThanOrEqual",
	KindCoalesce:              "coalesce",
	KindArrayIndex:            "arrayIndex",
	KindAssign:                "assign",
	KindAddAssign:             "addAssign",
	KindAddAssignChecked:      "addAssignChecked",
	KindSubtractAssign:        "subtractAssign",
	KindSubtractAssignChecked: "subtractAssignChecked",
	KindMultiplyAssign:        "multiplyAssign",
	KindMultiplyAssignChecked: "multiplyAssignChecked",
	KindDivideAssign:          "divideAssign",
	KindModuloAssign:          "moduloAssign",
	KindPowerAssign:           "powerAssign",
	KindAndAssign:             "andAssign",
	KindOrAssign:              "orAssign",
	KindExclusiveOrAssign:     "exclusiveOrAssign",
	KindLeftShiftAssign:       "leftShiftAssign",
	KindRightShiftAssign:      "rightShiftAssign",
	KindNegate:                "negate",
	KindNegateChecked:         "negateChecked",
	KindUnaryPlus:             "unaryPlus",
	KindNot:                   "not",
	KindOnesComplement:        "onesComplement",
	KindIsTrue:                "isTrue",
	KindIsFalse:               "isFalse",
	KindIncrement:             "increment",
	KindDecrement:             "decrement",
	KindPreIncrementAssign:    "preIncrementAssign",
	KindPreDecrementAssign:    "preDecrementAssign",
	KindPostIncrementAssign:   "postIncrementAssign",
	KindPostDecrementAssign:   "postDecrementAssign",
	KindConvert:               "convert",
	KindConvertChecked:        "convertChecked",
	KindTypeAs:                "typeAs",
	KindUnbox:                 "unbox",
	KindQuote:                 "quote",
	KindArrayLength:           "arrayLength",
	KindThrow:                 "throw",
	KindTypeIs:                "typeIs",
	KindTypeEqual:             "typeEqual",
	KindBlock:                 "block",
	KindConditional:           "conditional",
	KindLoop:                  "loop",
	KindSwitch:                "switch",
	KindLabel:                 "label",
	KindGoto:                  "goto",
	KindTry:                   "try",
	KindMemberAccess:          "memberAccess",
	KindIndex:                 "index",
	KindCall:                  "call",
	KindInvoke:                "invoke",
	KindNew:                   "new",
	KindNewArrayInit:          "newArrayInit",
	KindNewArrayBounds:        "newArrayBounds",
	KindListInit:              "listInit",
	KindMemberInit:            "memberInit",
	KindLambda:                "lambda",
	KindRuntimeVariables:      "runtimeVariables",
}

// String returns the serialized tag of the kind.
func (k NodeKind) String() string {
	if k < KindCount {
		return kindTags[k]
	}
	return "unknown"
}

// Valid reports whether k belongs to the catalog.
func (k NodeKind) Valid() bool {
	return k < KindCount
}

// IsBinary reports whether k is a two-operand operator.
func (k NodeKind) IsBinary() bool {
	return k >= KindAdd && k <= KindRightShiftAssign
}

// IsUnary reports whether k is a one-operand operator.
func (k NodeKind) IsUnary() bool {
	return k >= KindNegate && k <= KindThrow
}

// IsAssignment reports whether k writes to its left operand.
func (k NodeKind) IsAssignment() bool {
	return k >= KindAssign && k <= KindRightShiftAssign
}

// IsComparison reports whether k yields a boolean from two operands.
func (k NodeKind) IsComparison() bool {
	return k >= KindAndAlso && k <= KindGreaterThanOrEqual
}

// IsConversion reports whether k always carries an explicit target type.
func (k NodeKind) IsConversion() bool {
	switch k {
	case KindConvert, KindConvertChecked, KindTypeAs, KindUnbox:
		return true
	}
	return false
}

// KindNames returns every tag in kind order.
func KindNames() []string {
	out := make([]string, KindCount)
	copy(out, kindTags[:])
	return out
}
