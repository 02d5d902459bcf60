package types

import (
	"math"
	"net/url"
	"reflect"
	"time"
)

// Equal reports whether a and b are structurally equal: same kinds in the
// same child order, same result types, same operator and member
// descriptors, equal constants, and bindings and label targets that
// correspond one to one.
func Equal(a, b *Node) bool {
	c := comparer{
		params: map[*Parameter]*Parameter{},
		rev:    map[*Parameter]*Parameter{},
		labels: map[*LabelTarget]*LabelTarget{},
		revLbl: map[*LabelTarget]*LabelTarget{},
	}
	return c.node(a, b)
}

type comparer struct {
	params map[*Parameter]*Parameter
	rev    map[*Parameter]*Parameter
	labels map[*LabelTarget]*LabelTarget
	revLbl map[*LabelTarget]*LabelTarget
}

func (c *comparer) param(a, b *Parameter) bool {
	if a == nil || b == nil {
		return a == b
	}
	if m, ok := c.params[a]; ok {
		return m == b
	}
	if _, ok := c.rev[b]; ok {
		return false
	}
	if a.Name != b.Name || a.Type != b.Type || a.ByRef != b.ByRef {
		return false
	}
	c.params[a] = b
	c.rev[b] = a
	return true
}

func (c *comparer) params2(a, b []*Parameter) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !c.param(a[i], b[i]) {
			return false
		}
	}
	return true
}

func (c *comparer) label(a, b *LabelTarget) bool {
	if a == nil || b == nil {
		return a == b
	}
	if m, ok := c.labels[a]; ok {
		return m == b
	}
	if _, ok := c.revLbl[b]; ok {
		return false
	}
	if a.Name != b.Name || a.Type != b.Type {
		return false
	}
	c.labels[a] = b
	c.revLbl[b] = a
	return true
}

func (c *comparer) nodes(a, b []*Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !c.node(a[i], b[i]) {
			return false
		}
	}
	return true
}

func (c *comparer) node(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind || a.ResultType() != b.ResultType() {
		return false
	}
	if a.Method != b.Method || a.Member != b.Member || a.Comparison != b.Comparison ||
		a.TypeOperand != b.TypeOperand || a.LiftedToNull != b.LiftedToNull ||
		a.TailCall != b.TailCall || a.Name != b.Name || a.GotoKind != b.GotoKind {
		return false
	}
	if len(a.Members) != len(b.Members) {
		return false
	}
	for i := range a.Members {
		if a.Members[i] != b.Members[i] {
			return false
		}
	}
	// Binding lists first so references inside bodies see the mapping.
	if !c.params2(a.Parameters, b.Parameters) || !c.params2(a.Variables, b.Variables) {
		return false
	}
	if !c.param(a.Param, b.Param) {
		return false
	}
	if !c.label(a.Target, b.Target) || !c.label(a.BreakLabel, b.BreakLabel) || !c.label(a.ContinueLabel, b.ContinueLabel) {
		return false
	}
	if a.Kind == KindConstant && !ValuesEqual(a.Value, b.Value) {
		return false
	}
	if !c.node(a.Left, b.Left) || !c.node(a.Right, b.Right) || !c.node(a.Operand, b.Operand) ||
		!c.node(a.Object, b.Object) || !c.node(a.Test, b.Test) || !c.node(a.IfTrue, b.IfTrue) ||
		!c.node(a.IfFalse, b.IfFalse) || !c.node(a.Body, b.Body) || !c.node(a.Conversion, b.Conversion) ||
		!c.node(a.NewExpr, b.NewExpr) || !c.node(a.DefaultBody, b.DefaultBody) ||
		!c.node(a.Finally, b.Finally) || !c.node(a.Fault, b.Fault) {
		return false
	}
	if !c.nodes(a.Arguments, b.Arguments) || !c.nodes(a.Expressions, b.Expressions) {
		return false
	}
	if len(a.Cases) != len(b.Cases) {
		return false
	}
	for i := range a.Cases {
		if !c.nodes(a.Cases[i].TestValues, b.Cases[i].TestValues) || !c.node(a.Cases[i].Body, b.Cases[i].Body) {
			return false
		}
	}
	if len(a.Handlers) != len(b.Handlers) {
		return false
	}
	for i := range a.Handlers {
		ha, hb := a.Handlers[i], b.Handlers[i]
		if ha.Test != hb.Test || !c.param(ha.Variable, hb.Variable) ||
			!c.node(ha.Body, hb.Body) || !c.node(ha.Filter, hb.Filter) {
			return false
		}
	}
	return c.inits(a.Initializers, b.Initializers) && c.bindings(a.Bindings, b.Bindings)
}

func (c *comparer) inits(a, b []*ElementInit) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].AddMethod != b[i].AddMethod || !c.nodes(a[i].Arguments, b[i].Arguments) {
			return false
		}
	}
	return true
}

func (c *comparer) bindings(a, b []*MemberBinding) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		x, y := a[i], b[i]
		if x.Kind != y.Kind || x.Member != y.Member {
			return false
		}
		if !c.node(x.Expression, y.Expression) || !c.bindings(x.Bindings, y.Bindings) || !c.inits(x.Initializers, y.Initializers) {
			return false
		}
	}
	return true
}

// ValuesEqual compares two constant values. NaN equals NaN, times compare
// by instant, and URLs by their string form.
func ValuesEqual(a, b any) bool {
	switch x := a.(type) {
	case float64:
		if y, ok := b.(float64); ok && math.IsNaN(x) && math.IsNaN(y) {
			return true
		}
	case float32:
		if y, ok := b.(float32); ok && x != x && y != y {
			return true
		}
	case time.Time:
		y, ok := b.(time.Time)
		return ok && x.Equal(y)
	case *url.URL:
		y, ok := b.(*url.URL)
		if !ok || x == nil || y == nil {
			return ok && x == y
		}
		return x.String() == y.String()
	}
	return reflect.DeepEqual(a, b)
}
