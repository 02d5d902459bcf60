package codec

import (
	"errors"
	"strconv"

	"github.com/sandrolain/exprtree/pkg/types"
)

// paramState records how the encoder has seen a binding.
type paramState uint8

const (
	paramUnseen paramState = iota
	paramScoped            // declared by a lambda, block or catch
	paramFree              // referenced without a declaring scope
)

// encoder is a single-use walker. Every visited node leaves exactly one
// element on the stack; a parent pops its completed children in visiting
// order.
type encoder struct {
	c     *Codec
	stack []*Element
	depth int
	path  []string

	scopes  *scopeTracker
	params  map[*types.Parameter]paramState
	pending map[*types.Parameter][]*Element // typed references awaiting fold
	labels  map[*types.LabelTarget]string
	nextUID int
}

func newEncoder(c *Codec) *encoder {
	return &encoder{
		c:       c,
		scopes:  newScopeTracker(),
		params:  make(map[*types.Parameter]paramState),
		pending: make(map[*types.Parameter][]*Element),
		labels:  make(map[*types.LabelTarget]string),
	}
}

func (e *encoder) encode(root *types.Node) (*Element, error) {
	if err := e.node(root); err != nil {
		return nil, err
	}
	if len(e.stack) != 1 {
		return nil, types.Errorf(types.ErrCodeMalformedTree, "encoder stack holds %d elements", len(e.stack))
	}
	return e.stack[0], nil
}

func (e *encoder) push(el *Element) {
	e.stack = append(e.stack, el)
}

// pop removes the last n elements and returns them in push order.
func (e *encoder) pop(n int) []*Element {
	at := len(e.stack) - n
	out := make([]*Element, n)
	copy(out, e.stack[at:])
	clear(e.stack[at:])
	e.stack = e.stack[:at]
	return out
}

// emit pops n children and pushes them under a new element.
func (e *encoder) emit(tag string, attrs []Attr, n int) *Element {
	el := &Element{Tag: tag, Attrs: attrs, Children: e.pop(n)}
	e.push(el)
	return el
}

func (e *encoder) fail(code types.ErrorCode, msg string) *types.Error {
	return types.NewError(code, msg).WithPath(e.path)
}

// node visits n and leaves its element on the stack.
func (e *encoder) node(n *types.Node) error {
	if n == nil {
		return e.fail(types.ErrCodeMissingRequiredChild, "nil node")
	}
	if !n.Kind.Valid() {
		return e.fail(types.ErrCodeMalformedTree, "unknown node kind "+strconv.Itoa(int(n.Kind)))
	}
	e.depth++
	defer func() { e.depth-- }()
	if e.depth > e.c.opts.MaxDepth {
		return e.fail(types.ErrCodeMalformedTree, "maximum nesting depth exceeded")
	}

	e.path = append(e.path, n.Kind.String())
	defer func() { e.path = e.path[:len(e.path)-1] }()

	if e.c.opts.Debug {
		e.c.logger.Debug("encoding node", "kind", n.Kind.String(), "depth", e.depth)
	}

	before := len(e.stack)
	if err := catalog[n.Kind].encode(e, n); err != nil {
		var ce *types.Error
		if errors.As(err, &ce) {
			return ce.WithPath(e.path)
		}
		return e.fail(types.ErrCodeMalformedTree, "encode failed").WithCause(err)
	}
	if len(e.stack) != before+1 {
		return e.fail(types.ErrCodeMalformedTree, "node produced an unbalanced stack")
	}
	return nil
}

// optional visits n when it is set and reports how many elements it pushed.
func (e *encoder) optional(n *types.Node) (int, error) {
	if n == nil {
		return 0, nil
	}
	return 1, e.node(n)
}

// nodes visits every node in order.
func (e *encoder) nodes(ns []*types.Node) error {
	for _, n := range ns {
		if err := e.node(n); err != nil {
			return err
		}
	}
	return nil
}

// group visits ns and wraps the results in a tag element.
func (e *encoder) group(tag string, ns []*types.Node) error {
	if err := e.nodes(ns); err != nil {
		return err
	}
	e.emit(tag, nil, len(ns))
	return nil
}

// wrap visits n and wraps the result in a tag element.
func (e *encoder) wrap(tag string, n *types.Node) error {
	if err := e.node(n); err != nil {
		return err
	}
	e.emit(tag, nil, 1)
	return nil
}

func (e *encoder) typeName(t *types.Type) (string, error) {
	if t == nil {
		return "", e.fail(types.ErrCodeUnresolvedType, "missing type")
	}
	name, ok := e.c.names.NameOf(t)
	if !ok {
		return "", e.fail(types.ErrCodeUnresolvedType, "type has no canonical name").WithName(t.String())
	}
	return name, nil
}

// resultType appends the type attribute when the result type of n differs
// from the implied type of its kind. Kinds without an implied type always
// carry it.
func (e *encoder) resultType(attrs []Attr, n *types.Node) ([]Attr, error) {
	implied := n.ImpliedType()
	t := n.Type
	if t == nil {
		if implied != nil {
			return attrs, nil
		}
		t = types.Object
	}
	if t == implied {
		return attrs, nil
	}
	name, err := e.typeName(t)
	if err != nil {
		return nil, err
	}
	return append(attrs, Attr{Name: attrType, Value: name}), nil
}

func (e *encoder) paramElement(p *types.Parameter, typed bool) (*Element, error) {
	el := &Element{Tag: types.KindParameter.String()}
	el.SetAttr(attrName, p.Name)
	if !typed {
		return el, nil
	}
	name, err := e.typeName(p.Type)
	if err != nil {
		return nil, err
	}
	el.SetAttr(attrType, name)
	if p.ByRef {
		el.SetAttr(attrByRef, "true")
	}
	return el, nil
}

// declare pushes definitions of ps and opens a scope holding them. The
// caller must close it with closeScope.
func (e *encoder) declare(ps []*types.Parameter) error {
	e.scopes.pushScope()
	for _, p := range ps {
		if p == nil {
			return e.fail(types.ErrCodeMissingRequiredChild, "nil parameter")
		}
		switch e.params[p] {
		case paramScoped:
			return e.fail(types.ErrCodeScopeViolation, "parameter declared by more than one scope").WithName(p.Name)
		case paramFree:
			return e.fail(types.ErrCodeScopeViolation, "parameter declared after a free use").WithName(p.Name)
		}
		if err := e.scopes.push(p); err != nil {
			return err
		}
		e.params[p] = paramScoped
		el, err := e.paramElement(p, true)
		if err != nil {
			return err
		}
		e.push(el)
	}
	return nil
}

// closeScope folds the references written to the innermost scope's
// bindings and pops the scope.
func (e *encoder) closeScope(ps []*types.Parameter) {
	for _, p := range ps {
		fold(e.pending[p])
		delete(e.pending, p)
	}
	e.scopes.popScope()
}

// param emits a reference to p. References to declared bindings are written
// in full and folded when their scope closes; free bindings are written in
// full on first use and by name afterwards.
func (e *encoder) param(p *types.Parameter) error {
	if p == nil {
		return e.fail(types.ErrCodeMissingRequiredChild, "parameter node without binding")
	}
	vis, ok := e.scopes.lookup(p.Name)
	if ok && vis != p {
		return e.fail(types.ErrCodeScopeViolation, "reference shadowed by another binding of the same name").WithName(p.Name)
	}

	typed := false
	switch e.params[p] {
	case paramScoped:
		if !ok {
			return e.fail(types.ErrCodeScopeViolation, "parameter referenced outside its scope").WithName(p.Name)
		}
		typed = true
	case paramUnseen:
		if err := e.scopes.pushFree(p); err != nil {
			return e.fail(types.ErrCodeScopeViolation, "two free parameters share a name").WithName(p.Name)
		}
		e.params[p] = paramFree
		typed = true
	}

	el, err := e.paramElement(p, typed)
	if err != nil {
		return err
	}
	if e.params[p] == paramScoped {
		e.pending[p] = append(e.pending[p], el)
	}
	e.push(el)
	return nil
}

// label emits a labelTarget element, defining t on first sight.
func (e *encoder) label(t *types.LabelTarget) error {
	if t == nil {
		return e.fail(types.ErrCodeMissingRequiredChild, "missing label target")
	}
	if uid, ok := e.labels[t]; ok {
		e.push(&Element{Tag: tagLabelTarget, Attrs: []Attr{{Name: attrUIDRef, Value: uid}}})
		return nil
	}
	e.nextUID++
	uid := strconv.Itoa(e.nextUID)
	e.labels[t] = uid

	attrs := []Attr{{Name: attrUID, Value: uid}}
	if t.Name != "" {
		attrs = append(attrs, Attr{Name: attrName, Value: t.Name})
	}
	if t.Type != nil {
		name, err := e.typeName(t.Type)
		if err != nil {
			return err
		}
		attrs = append(attrs, Attr{Name: attrType, Value: name})
	}
	e.push(&Element{Tag: tagLabelTarget, Attrs: attrs})
	return nil
}

// member emits a member sub-node. The member must round-trip through the
// resolver to itself.
func (e *encoder) member(m *types.Member) error {
	if m == nil {
		return e.fail(types.ErrCodeMissingRequiredChild, "missing member")
	}
	if m.DeclaringType == nil {
		return e.fail(types.ErrCodeUnresolvedMember, "member without declaring type").WithName(m.Name)
	}
	ref, err := e.c.members.Describe(m)
	if err != nil {
		return err
	}
	got, err := e.c.members.Resolve(ref)
	if err != nil {
		return err
	}
	if got != m {
		return e.fail(types.ErrCodeUnresolvedMember, "member is not the one its signature resolves to").WithName(ref.Signature())
	}

	attrs := []Attr{{Name: attrDeclaringType, Value: ref.DeclaringType}}
	if ref.Name != "" {
		attrs = append(attrs, Attr{Name: attrName, Value: ref.Name})
	}
	if ref.Static {
		attrs = append(attrs, Attr{Name: attrStatic, Value: "true"})
	}
	if ref.Visibility != types.Public {
		attrs = append(attrs, Attr{Name: attrVisibility, Value: ref.Visibility.String()})
	}
	n := 0
	if m.Kind.Callable() || len(ref.ParamTypes) > 0 {
		for _, pt := range ref.ParamTypes {
			e.push(&Element{Tag: tagParameterType, Attrs: []Attr{{Name: attrType, Value: pt}}})
		}
		e.emit(tagParameters, nil, len(ref.ParamTypes))
		n = 1
	}
	e.emit(m.Kind.String(), attrs, n)
	return nil
}

// members emits each member in order.
func (e *encoder) members(ms []*types.Member) error {
	for _, m := range ms {
		if err := e.member(m); err != nil {
			return err
		}
	}
	return nil
}

// elementInit emits one elementInit sub-node.
func (e *encoder) elementInit(ei *types.ElementInit) error {
	if ei == nil {
		return e.fail(types.ErrCodeMissingRequiredChild, "nil element initializer")
	}
	if err := e.member(ei.AddMethod); err != nil {
		return err
	}
	if err := e.group(tagArguments, ei.Arguments); err != nil {
		return err
	}
	e.emit(tagElementInit, nil, 2)
	return nil
}

func (e *encoder) binding(b *types.MemberBinding) error {
	if b == nil {
		return e.fail(types.ErrCodeMissingRequiredChild, "nil member binding")
	}
	if err := e.member(b.Member); err != nil {
		return err
	}
	switch b.Kind {
	case types.BindingAssignment:
		if err := e.node(b.Expression); err != nil {
			return err
		}
		e.emit(tagAssignBinding, nil, 2)
	case types.BindingMemberMember:
		if err := e.bindings(b.Bindings); err != nil {
			return err
		}
		e.emit(tagMemberBinding, nil, 2)
	case types.BindingList:
		for _, ei := range b.Initializers {
			if err := e.elementInit(ei); err != nil {
				return err
			}
		}
		e.emit(tagListBinding, nil, 1+len(b.Initializers))
	default:
		return e.fail(types.ErrCodeMalformedTree, "unknown member binding kind")
	}
	return nil
}

// bindings emits a bindings wrapper.
func (e *encoder) bindings(bs []*types.MemberBinding) error {
	for _, b := range bs {
		if err := e.binding(b); err != nil {
			return err
		}
	}
	e.emit(tagBindings, nil, len(bs))
	return nil
}
