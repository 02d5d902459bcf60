package codec

// fold rewrites references collected while a scope was open to bare name
// references. Each reference is visited once, when its binding's scope
// closes.
func fold(refs []*Element) {
	for _, el := range refs {
		el.RemoveAttr(attrType)
		el.RemoveAttr(attrByRef)
	}
}
