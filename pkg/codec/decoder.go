package codec

import (
	"errors"
	"slices"
	"strconv"

	"github.com/sandrolain/exprtree/pkg/resolver"
	"github.com/sandrolain/exprtree/pkg/types"
)

// labelSlot tracks one uid. A slot is created by whichever occurrence comes
// first; defined is set by the uid occurrence.
type labelSlot struct {
	target  *types.LabelTarget
	defined bool
}

// decoder is a single-use top-down walker.
type decoder struct {
	c      *Codec
	depth  int
	path   []string
	scopes *scopeTracker
	labels map[string]*labelSlot
	uids   []string // label uids in first-seen order
}

func newDecoder(c *Codec) *decoder {
	return &decoder{
		c:      c,
		scopes: newScopeTracker(),
		labels: make(map[string]*labelSlot),
	}
}

func (d *decoder) decode(root *Element) (*types.Node, error) {
	n, err := d.node(root)
	if err != nil {
		return nil, err
	}
	for _, uid := range d.uids {
		if !d.labels[uid].defined {
			return nil, types.NewError(types.ErrCodeMalformedTree, "label target referenced but never defined").WithName(uid)
		}
	}
	return n, nil
}

// slot returns the label slot for uid, creating it on first sight.
func (d *decoder) slot(uid string) *labelSlot {
	s, ok := d.labels[uid]
	if !ok {
		s = &labelSlot{target: &types.LabelTarget{}}
		d.labels[uid] = s
		d.uids = append(d.uids, uid)
	}
	return s
}

func (d *decoder) fail(code types.ErrorCode, msg string) *types.Error {
	return types.NewError(code, msg).WithPath(d.path)
}

// node decodes one expression element.
func (d *decoder) node(el *Element) (*types.Node, error) {
	kind, ok := lookupKind(el.Tag)
	if !ok {
		return nil, d.fail(types.ErrCodeMalformedTree, "unknown tag").WithName(el.Tag)
	}
	d.depth++
	defer func() { d.depth-- }()
	if d.depth > d.c.opts.MaxDepth {
		return nil, d.fail(types.ErrCodeMalformedTree, "maximum nesting depth exceeded")
	}

	d.path = append(d.path, el.Tag)
	defer func() { d.path = d.path[:len(d.path)-1] }()

	if d.c.opts.Debug {
		d.c.logger.Debug("decoding node", "kind", el.Tag, "depth", d.depth, "scopes", d.scopes.depth())
	}

	n, err := catalog[kind].decode(d, el, kind)
	if err != nil {
		var ce *types.Error
		if errors.As(err, &ce) {
			return nil, ce.WithPath(d.path)
		}
		return nil, d.fail(types.ErrCodeMalformedTree, "decode failed").WithCause(err)
	}
	return n, nil
}

// nodes decodes every child of a wrapper element.
func (d *decoder) nodes(wrapper *Element) ([]*types.Node, error) {
	if wrapper == nil || len(wrapper.Children) == 0 {
		return nil, nil
	}
	out := make([]*types.Node, 0, len(wrapper.Children))
	for _, c := range wrapper.Children {
		n, err := d.node(c)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

// single decodes the only child of a wrapper element.
func (d *decoder) single(wrapper *Element) (*types.Node, error) {
	if len(wrapper.Children) != 1 {
		return nil, d.fail(types.ErrCodeMalformedTree, "wrapper must hold exactly one expression").WithName(wrapper.Tag)
	}
	return d.node(wrapper.Children[0])
}

func (d *decoder) resolveType(name string) (*types.Type, error) {
	t, err := d.c.names.Resolve(name)
	if err != nil {
		var ce *types.Error
		if errors.As(err, &ce) {
			return nil, ce
		}
		return nil, d.fail(types.ErrCodeUnresolvedType, "cannot resolve type").WithName(name).WithCause(err)
	}
	return t, nil
}

// typeAttr resolves an optional type-valued attribute.
func (d *decoder) typeAttr(el *Element, name string) (*types.Type, error) {
	v, ok := el.Attr(name)
	if !ok {
		return nil, nil
	}
	return d.resolveType(v)
}

// requiredType resolves a type-valued attribute that must be present.
func (d *decoder) requiredType(el *Element, name string) (*types.Type, error) {
	v, ok := el.Attr(name)
	if !ok {
		return nil, d.fail(types.ErrCodeMalformedTree, "missing attribute "+name).WithName(el.Tag)
	}
	return d.resolveType(v)
}

func (d *decoder) boolAttr(el *Element, name string) (bool, error) {
	v, ok := el.Attr(name)
	if !ok {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, d.fail(types.ErrCodeMalformedTree, "invalid boolean attribute "+name).WithName(v)
	}
	return b, nil
}

// paramDef decodes a parameter definition and declares it in the innermost
// scope.
func (d *decoder) paramDef(el *Element) (*types.Parameter, error) {
	if el.Tag != types.KindParameter.String() {
		return nil, d.fail(types.ErrCodeMalformedTree, "expected a parameter definition").WithName(el.Tag)
	}
	p, err := d.paramAttrs(el, true)
	if err != nil {
		return nil, err
	}
	if err := d.scopes.push(p); err != nil {
		return nil, err.WithPath(d.path)
	}
	return p, nil
}

func (d *decoder) paramAttrs(el *Element, requireType bool) (*types.Parameter, error) {
	name, ok := el.Attr(attrName)
	if !ok {
		return nil, d.fail(types.ErrCodeMalformedTree, "parameter without name")
	}
	var (
		t   *types.Type
		err error
	)
	if requireType {
		t, err = d.requiredType(el, attrType)
	} else {
		t, err = d.typeAttr(el, attrType)
	}
	if err != nil {
		return nil, err
	}
	byRef, err := d.boolAttr(el, attrByRef)
	if err != nil {
		return nil, err
	}
	return &types.Parameter{Name: name, Type: t, ByRef: byRef}, nil
}

// paramRef resolves a parameter occurrence outside a definition position.
// An untyped occurrence must name a visible binding. A typed occurrence
// reuses a compatible visible binding or introduces a free one.
func (d *decoder) paramRef(el *Element) (*types.Parameter, error) {
	occ, err := d.paramAttrs(el, false)
	if err != nil {
		return nil, err
	}
	vis, ok := d.scopes.lookup(occ.Name)
	if occ.Type == nil {
		if !ok {
			return nil, d.fail(types.ErrCodeScopeViolation, "no visible binding").WithName(occ.Name)
		}
		return vis, nil
	}
	if ok {
		if vis.Type != occ.Type || vis.ByRef != occ.ByRef {
			return nil, d.fail(types.ErrCodeScopeViolation, "occurrence does not match the visible binding").WithName(occ.Name)
		}
		return vis, nil
	}
	if err := d.scopes.pushFree(occ); err != nil {
		return nil, err.WithPath(d.path)
	}
	return occ, nil
}

// labelTarget resolves a labelTarget element, creating the target on first
// sight of its uid.
func (d *decoder) labelTarget(el *Element) (*types.LabelTarget, error) {
	if el.Tag != tagLabelTarget {
		return nil, d.fail(types.ErrCodeMalformedTree, "expected a label target").WithName(el.Tag)
	}
	if uid, ok := el.Attr(attrUIDRef); ok {
		return d.slot(uid).target, nil
	}
	uid, ok := el.Attr(attrUID)
	if !ok {
		return nil, d.fail(types.ErrCodeMalformedTree, "label target without uid or uidref")
	}
	slot := d.slot(uid)
	if slot.defined {
		return nil, d.fail(types.ErrCodeMalformedTree, "label target defined twice").WithName(uid)
	}
	slot.defined = true
	slot.target.Name, _ = el.Attr(attrName)
	t, err := d.typeAttr(el, attrType)
	if err != nil {
		return nil, err
	}
	slot.target.Type = t
	return slot.target, nil
}

// wrappedLabel decodes a wrapper holding one labelTarget.
func (d *decoder) wrappedLabel(wrapper *Element) (*types.LabelTarget, error) {
	if wrapper == nil {
		return nil, nil
	}
	if len(wrapper.Children) != 1 {
		return nil, d.fail(types.ErrCodeMalformedTree, "label wrapper must hold one label target").WithName(wrapper.Tag)
	}
	return d.labelTarget(wrapper.Children[0])
}

var memberTags = map[string]types.MemberKind{
	tagConstructor: types.MemberConstructor,
	tagMethod:      types.MemberMethod,
	tagField:       types.MemberField,
	tagProperty:    types.MemberProperty,
	tagEvent:       types.MemberEvent,
}

func isMemberTag(tag string) bool {
	_, ok := memberTags[tag]
	return ok
}

// member resolves a member sub-node whose kind is one of allowed.
func (d *decoder) member(el *Element, allowed ...types.MemberKind) (*types.Member, error) {
	kind, ok := memberTags[el.Tag]
	if !ok || !slices.Contains(allowed, kind) {
		return nil, d.fail(types.ErrCodeMalformedTree, "unexpected member sub-node").WithName(el.Tag)
	}
	decl, ok := el.Attr(attrDeclaringType)
	if !ok {
		return nil, d.fail(types.ErrCodeMalformedTree, "member without declaring type").WithName(el.Tag)
	}
	ref := resolver.MemberRef{DeclaringType: decl, Kind: kind}
	ref.Name, _ = el.Attr(attrName)
	if kind != types.MemberConstructor && ref.Name == "" {
		return nil, d.fail(types.ErrCodeMalformedTree, "member without name").WithName(el.Tag)
	}
	static, err := d.boolAttr(el, attrStatic)
	if err != nil {
		return nil, err
	}
	ref.Static = static
	vis, _ := el.Attr(attrVisibility)
	if ref.Visibility, ok = types.ParseVisibility(vis); !ok {
		return nil, d.fail(types.ErrCodeMalformedTree, "invalid visibility").WithName(vis)
	}

	params := el.Child(tagParameters)
	if params == nil && kind.Callable() {
		return nil, d.fail(types.ErrCodeMissingRequiredChild, "member descriptor without parameters").WithName(el.Tag)
	}
	if params != nil {
		ref.ParamTypes = make([]string, 0, len(params.Children))
		for _, pt := range params.Children {
			name, ok := pt.Attr(attrType)
			if pt.Tag != tagParameterType || !ok {
				return nil, d.fail(types.ErrCodeMalformedTree, "invalid parameter type entry").WithName(pt.Tag)
			}
			ref.ParamTypes = append(ref.ParamTypes, name)
		}
	}

	m, err := d.c.members.Resolve(ref)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// elementInit decodes one elementInit sub-node.
func (d *decoder) elementInit(el *Element) (*types.ElementInit, error) {
	cur := d.children(el)
	mel, err := cur.require(tagMethod)
	if err != nil {
		return nil, err
	}
	add, err := d.member(mel, types.MemberMethod)
	if err != nil {
		return nil, err
	}
	args, err := cur.group(tagArguments)
	if err != nil {
		return nil, err
	}
	if err := cur.done(); err != nil {
		return nil, err
	}
	return &types.ElementInit{AddMethod: add, Arguments: args}, nil
}

// binding decodes one member binding sub-node.
func (d *decoder) binding(el *Element) (*types.MemberBinding, error) {
	cur := d.children(el)
	mel := cur.next()
	if mel == nil {
		return nil, d.fail(types.ErrCodeMissingRequiredChild, "binding without member").WithName(el.Tag)
	}
	m, err := d.member(mel, types.MemberField, types.MemberProperty)
	if err != nil {
		return nil, err
	}
	b := &types.MemberBinding{Member: m}
	switch el.Tag {
	case tagAssignBinding:
		b.Kind = types.BindingAssignment
		if b.Expression, err = cur.expr(); err != nil {
			return nil, err
		}
	case tagMemberBinding:
		b.Kind = types.BindingMemberMember
		w, err := cur.require(tagBindings)
		if err != nil {
			return nil, err
		}
		if b.Bindings, err = d.bindings(w); err != nil {
			return nil, err
		}
	case tagListBinding:
		b.Kind = types.BindingList
		for cur.peekTag() == tagElementInit {
			ei, err := d.elementInit(cur.next())
			if err != nil {
				return nil, err
			}
			b.Initializers = append(b.Initializers, ei)
		}
	default:
		return nil, d.fail(types.ErrCodeMalformedTree, "unknown member binding").WithName(el.Tag)
	}
	if err := cur.done(); err != nil {
		return nil, err
	}
	return b, nil
}

func (d *decoder) bindings(wrapper *Element) ([]*types.MemberBinding, error) {
	var out []*types.MemberBinding
	for _, c := range wrapper.Children {
		b, err := d.binding(c)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

// cursor reads the children of one element in order.
type cursor struct {
	d  *decoder
	el *Element
	i  int
}

func (d *decoder) children(el *Element) *cursor {
	return &cursor{d: d, el: el}
}

func (c *cursor) peekTag() string {
	if c.i >= len(c.el.Children) {
		return ""
	}
	return c.el.Children[c.i].Tag
}

func (c *cursor) next() *Element {
	if c.i >= len(c.el.Children) {
		return nil
	}
	el := c.el.Children[c.i]
	c.i++
	return el
}

// optional consumes the next child if it has the given tag.
func (c *cursor) optional(tag string) *Element {
	if c.peekTag() != tag {
		return nil
	}
	return c.next()
}

// require consumes the next child, which must have the given tag.
func (c *cursor) require(tag string) (*Element, error) {
	if el := c.optional(tag); el != nil {
		return el, nil
	}
	return nil, c.d.fail(types.ErrCodeMissingRequiredChild, "missing "+tag).WithName(c.el.Tag)
}

// expr decodes the next child as a required expression.
func (c *cursor) expr() (*types.Node, error) {
	el := c.next()
	if el == nil {
		return nil, c.d.fail(types.ErrCodeMissingRequiredChild, "missing expression").WithName(c.el.Tag)
	}
	return c.d.node(el)
}

// hasExpr reports whether the next child is an expression element.
func (c *cursor) hasExpr() bool {
	_, ok := lookupKind(c.peekTag())
	return ok
}

// optExpr decodes the next child when it is an expression.
func (c *cursor) optExpr() (*types.Node, error) {
	if !c.hasExpr() {
		return nil, nil
	}
	return c.d.node(c.next())
}

// group decodes a required wrapper of expressions.
func (c *cursor) group(tag string) ([]*types.Node, error) {
	w, err := c.require(tag)
	if err != nil {
		return nil, err
	}
	return c.d.nodes(w)
}

// wrapped decodes an optional wrapper holding one expression.
func (c *cursor) wrapped(tag string) (*types.Node, error) {
	w := c.optional(tag)
	if w == nil {
		return nil, nil
	}
	return c.d.single(w)
}

// done fails if children remain unread.
func (c *cursor) done() error {
	if c.i < len(c.el.Children) {
		return c.d.fail(types.ErrCodeMalformedTree, "unexpected child").WithName(c.el.Children[c.i].Tag)
	}
	return nil
}
