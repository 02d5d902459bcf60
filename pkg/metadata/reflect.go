package metadata

import (
	"fmt"
	"net/url"
	"reflect"
	"time"

	"github.com/sandrolain/exprtree/pkg/types"
)

var (
	timeType     = reflect.TypeFor[time.Time]()
	durationType = reflect.TypeFor[time.Duration]()
	urlType      = reflect.TypeFor[url.URL]()
	errorType    = reflect.TypeFor[error]()
)

// Import describes a Go type and adds it, and every named type reachable
// through its exported fields and methods, to the table.
//
// Structs become struct descriptors with a parameterless constructor, one
// field member per exported field and one method member per exported method
// of the pointer method set. Named integer types become enums. Basic kinds
// map to the primitive descriptors and slices to arrays. Maps, channels and
// funcs are described as object. The Go type is recorded on the descriptor
// so constants of that type can be decoded into Go values.
func (tb *Table) Import(rt reflect.Type) (*types.Type, error) {
	if rt == nil {
		return nil, fmt.Errorf("metadata: cannot import nil type")
	}
	return tb.describe(rt)
}

func (tb *Table) describe(rt reflect.Type) (*types.Type, error) {
	switch rt {
	case timeType:
		return types.DateTime, nil
	case durationType:
		return types.Duration, nil
	case urlType, reflect.PointerTo(urlType):
		return types.Uri, nil
	case reflect.TypeFor[types.GUID]():
		return types.Guid, nil
	case reflect.TypeFor[types.DecimalValue]():
		return types.Decimal, nil
	}
	if rt.Kind() == reflect.Pointer {
		return tb.describe(rt.Elem())
	}

	if rt.Name() != "" && rt.PkgPath() != "" {
		return tb.describeNamed(rt)
	}

	switch rt.Kind() {
	case reflect.Bool:
		return types.Bool, nil
	case reflect.Int8:
		return types.SByte, nil
	case reflect.Uint8:
		return types.Byte, nil
	case reflect.Int16:
		return types.Int16, nil
	case reflect.Uint16:
		return types.UInt16, nil
	case reflect.Int32:
		return types.Int32, nil
	case reflect.Uint32:
		return types.UInt32, nil
	case reflect.Int, reflect.Int64:
		return types.Int64, nil
	case reflect.Uint, reflect.Uint64, reflect.Uintptr:
		return types.UInt64, nil
	case reflect.Float32:
		return types.Float32, nil
	case reflect.Float64:
		return types.Float64, nil
	case reflect.String:
		return types.String, nil
	case reflect.Slice, reflect.Array:
		elem, err := tb.describe(rt.Elem())
		if err != nil {
			return nil, err
		}
		return types.ArrayOf(elem), nil
	}
	return types.Object, nil
}

func (tb *Table) describeNamed(rt reflect.Type) (*types.Type, error) {
	name := rt.PkgPath() + "." + rt.Name()
	if t, ok := tb.DescribeType(name); ok {
		return t, nil
	}

	var t *types.Type
	switch rt.Kind() {
	case reflect.Struct:
		t = types.NewType(name, types.TypeStruct, types.Custom)
	case reflect.Interface:
		t = types.NewType(name, types.TypeInterface, nil)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		t = types.NewType(name, types.TypeEnum, types.Enum)
	case reflect.Map, reflect.Chan, reflect.Func:
		return types.Object, nil
	default:
		t = types.NewType(name, types.TypeClass, types.Custom)
	}
	t.GoType = rt
	// Add before members so self-referencing signatures resolve to t.
	if err := tb.Add(t); err != nil {
		return nil, err
	}

	if rt.Kind() == reflect.Struct {
		Constructor(t)
		for i := 0; i < rt.NumField(); i++ {
			f := rt.Field(i)
			if !f.IsExported() {
				continue
			}
			ft, err := tb.describe(f.Type)
			if err != nil {
				return nil, err
			}
			Field(t, f.Name, ft)
		}
	}

	ms := rt
	if rt.Kind() != reflect.Interface {
		ms = reflect.PointerTo(rt)
	}
	for i := 0; i < ms.NumMethod(); i++ {
		m := ms.Method(i)
		if !m.IsExported() {
			continue
		}
		if err := tb.importMethod(t, m, rt.Kind() != reflect.Interface); err != nil {
			return nil, fmt.Errorf("metadata: %s.%s: %w", name, m.Name, err)
		}
	}
	return t, nil
}

func (tb *Table) importMethod(t *types.Type, m reflect.Method, hasReceiver bool) error {
	ft := m.Type
	first := 0
	if hasReceiver {
		first = 1
	}
	params := make([]*types.Type, 0, ft.NumIn()-first)
	for i := first; i < ft.NumIn(); i++ {
		pt, err := tb.describe(ft.In(i))
		if err != nil {
			return err
		}
		params = append(params, pt)
	}
	result := types.Void
	for i := 0; i < ft.NumOut(); i++ {
		if ft.Out(i) == errorType {
			continue
		}
		rt, err := tb.describe(ft.Out(i))
		if err != nil {
			return err
		}
		result = rt
		break
	}
	Method(t, m.Name, result, params...)
	return nil
}
