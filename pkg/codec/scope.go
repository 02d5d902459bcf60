package codec

import (
	"github.com/sandrolain/exprtree/pkg/types"
)

// frame holds the bindings one scope introduced, in declaration order.
type frame struct {
	names    []string
	bindings map[string]*types.Parameter
}

// scopeTracker is a stack of binding frames. The root frame is never popped
// and holds free parameters, which stay visible for the rest of the call.
// Lookups search from the innermost frame outwards, so inner frames shadow
// outer ones without modifying them.
type scopeTracker struct {
	frames []*frame
}

func newScopeTracker() *scopeTracker {
	s := &scopeTracker{}
	s.pushScope()
	return s
}

func (s *scopeTracker) pushScope() {
	s.frames = append(s.frames, &frame{bindings: make(map[string]*types.Parameter, 4)})
}

// popScope removes the innermost frame and returns the names it declared.
func (s *scopeTracker) popScope() []string {
	if len(s.frames) <= 1 {
		return nil
	}
	top := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]
	return top.names
}

// push declares p in the innermost frame. It fails if the frame already
// declares the name.
func (s *scopeTracker) push(p *types.Parameter) *types.Error {
	return s.pushTo(s.frames[len(s.frames)-1], p)
}

// pushFree declares p in the root frame.
func (s *scopeTracker) pushFree(p *types.Parameter) *types.Error {
	return s.pushTo(s.frames[0], p)
}

func (s *scopeTracker) pushTo(f *frame, p *types.Parameter) *types.Error {
	if _, dup := f.bindings[p.Name]; dup {
		return types.NewError(types.ErrCodeScopeViolation, "name declared twice in one scope").WithName(p.Name)
	}
	f.bindings[p.Name] = p
	f.names = append(f.names, p.Name)
	return nil
}

// lookup returns the innermost visible binding for name.
func (s *scopeTracker) lookup(name string) (*types.Parameter, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if p, ok := s.frames[i].bindings[name]; ok {
			return p, true
		}
	}
	return nil, false
}

// depth returns the number of open frames, the root included.
func (s *scopeTracker) depth() int {
	return len(s.frames)
}
