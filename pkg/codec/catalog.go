package codec

import (
	"github.com/sandrolain/exprtree/pkg/types"
)

type (
	encodeFunc func(e *encoder, n *types.Node) error
	decodeFunc func(d *decoder, el *Element, kind types.NodeKind) (*types.Node, error)
)

// entry is the catalog row of one node kind. encode pushes exactly one
// element onto the encoder stack; decode consumes one element.
type entry struct {
	tag    string
	encode encodeFunc
	decode decodeFunc
}

// Sub-node tags. None of them collides with a node kind tag.
const (
	tagParameters     = "parameters"
	tagParameterType  = "parameterType"
	tagArguments      = "arguments"
	tagVariables      = "variables"
	tagVariable       = "variable"
	tagBindings       = "bindings"
	tagBounds         = "bounds"
	tagMembers        = "members"
	tagConversion     = "conversion"
	tagObject         = "object"
	tagExpression     = "expression"
	tagLabelTarget    = "labelTarget"
	tagBreakLabel     = "breakLabel"
	tagContinueLabel  = "continueLabel"
	tagCase           = "case"
	tagTestValues     = "testValues"
	tagDefaultCase    = "defaultCase"
	tagCatch          = "catch"
	tagFinally        = "finally"
	tagFault          = "fault"
	tagFilter         = "filter"
	tagElementInit    = "elementInit"
	tagAssignBinding  = "assignmentBinding"
	tagMemberBinding  = "memberMemberBinding"
	tagListBinding    = "listBinding"
	tagMethod         = "method"
	tagConstructor    = "constructor"
	tagField          = "field"
	tagProperty       = "property"
	tagEvent          = "event"
	attrType          = "type"
	attrName          = "name"
	attrByRef         = "byRef"
	attrNull          = "null"
	attrLifted        = "isLiftedToNull"
	attrTypeOperand   = "typeOperand"
	attrKind          = "kind"
	attrTest          = "test"
	attrTailCall      = "tailCall"
	attrDelegateType  = "delegateType"
	attrUID           = "uid"
	attrUIDRef        = "uidref"
	attrDeclaringType = "declaringType"
	attrStatic        = "static"
	attrVisibility    = "visibility"
)

var catalog [types.KindCount]entry

// kindByTag is the reverse of catalog, built once from it.
var kindByTag map[string]types.NodeKind

func init() {
	set := func(k types.NodeKind, enc encodeFunc, dec decodeFunc) {
		catalog[k] = entry{tag: k.String(), encode: enc, decode: dec}
	}
	for k := types.KindAdd; k <= types.KindRightShiftAssign; k++ {
		set(k, encodeBinary, decodeBinary)
	}
	for k := types.KindNegate; k <= types.KindThrow; k++ {
		set(k, encodeUnary, decodeUnary)
	}

	set(types.KindConstant, encodeConstant, decodeConstant)
	set(types.KindDefault, encodeDefault, decodeDefault)
	set(types.KindParameter, encodeParameter, decodeParameter)
	set(types.KindTypeIs, encodeTypeTest, decodeTypeTest)
	set(types.KindTypeEqual, encodeTypeTest, decodeTypeTest)

	set(types.KindBlock, encodeBlock, decodeBlock)
	set(types.KindConditional, encodeConditional, decodeConditional)
	set(types.KindLoop, encodeLoop, decodeLoop)
	set(types.KindSwitch, encodeSwitch, decodeSwitch)
	set(types.KindLabel, encodeLabel, decodeLabel)
	set(types.KindGoto, encodeGoto, decodeGoto)
	set(types.KindTry, encodeTry, decodeTry)

	set(types.KindMemberAccess, encodeMemberAccess, decodeMemberAccess)
	set(types.KindIndex, encodeIndex, decodeIndex)
	set(types.KindCall, encodeCall, decodeCall)
	set(types.KindInvoke, encodeInvoke, decodeInvoke)

	set(types.KindNew, encodeNew, decodeNew)
	set(types.KindNewArrayInit, encodeNewArrayInit, decodeNewArrayInit)
	set(types.KindNewArrayBounds, encodeNewArrayBounds, decodeNewArrayBounds)
	set(types.KindListInit, encodeListInit, decodeListInit)
	set(types.KindMemberInit, encodeMemberInit, decodeMemberInit)

	set(types.KindLambda, encodeLambda, decodeLambda)
	set(types.KindRuntimeVariables, encodeRuntimeVariables, decodeRuntimeVariables)

	kindByTag = make(map[string]types.NodeKind, len(catalog))
	for k := range catalog {
		if catalog[k].encode == nil || catalog[k].decode == nil {
			panic("codec: no catalog entry for " + types.NodeKind(k).String())
		}
		kindByTag[catalog[k].tag] = types.NodeKind(k)
	}
}

// lookupKind returns the kind serialized under tag.
func lookupKind(tag string) (types.NodeKind, bool) {
	k, ok := kindByTag[tag]
	return k, ok
}

// Tags returns every node tag in kind order.
func Tags() []string {
	return types.KindNames()
}
