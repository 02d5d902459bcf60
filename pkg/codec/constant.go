package codec

import (
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"reflect"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/sandrolain/exprtree/pkg/types"
)

// formatValue renders a constant of type t. isNull reports a null value,
// which is written as the null attribute instead of text. The value must
// have the Go type that parseValue produces for t.
func formatValue(t *types.Type, v any) (text string, isNull bool, err error) {
	if v == nil {
		return "", true, nil
	}
	if t.Kind == types.TypeNullable {
		t = t.Elem
	}
	if t.Kind == types.TypeEnum {
		return formatEnum(t, v)
	}
	if t.GoType != nil && reflect.TypeOf(v) != t.GoType {
		return "", false, mismatch(t, v)
	}

	switch t {
	case types.Bool:
		return strconv.FormatBool(v.(bool)), false, nil
	case types.SByte, types.Int16, types.Int32, types.Int64:
		return strconv.FormatInt(reflect.ValueOf(v).Int(), 10), false, nil
	case types.Byte, types.UInt16, types.UInt32, types.UInt64:
		return strconv.FormatUint(reflect.ValueOf(v).Uint(), 10), false, nil
	case types.Float32:
		return strconv.FormatFloat(float64(v.(float32)), 'g', -1, 32), false, nil
	case types.Float64:
		return strconv.FormatFloat(v.(float64), 'g', -1, 64), false, nil
	case types.Decimal:
		return string(v.(types.DecimalValue)), false, nil
	case types.Char:
		r := v.(rune)
		if !utf8.ValidRune(r) {
			return "", false, fmt.Errorf("char constant %U is not a valid rune", r)
		}
		return string(r), false, nil
	case types.Guid:
		return v.(types.GUID).String(), false, nil
	case types.Uri:
		u := v.(*url.URL)
		if u == nil {
			return "", true, nil
		}
		return u.String(), false, nil
	case types.String:
		return v.(string), false, nil
	case types.Duration:
		return v.(time.Duration).String(), false, nil
	case types.DateTime:
		return v.(time.Time).Format(time.RFC3339Nano), false, nil
	case types.DBNull:
		return "", false, nil
	}

	if t.GoType == nil && !jsonNative(v) {
		return "", false, fmt.Errorf("constant of type %s holds %T, which has no JSON form", t, v)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", false, fmt.Errorf("constant of type %s: %w", t, err)
	}
	back, err := parseValue(t, string(b))
	if err != nil || !types.ValuesEqual(v, back) {
		return "", false, fmt.Errorf("constant of type %s does not survive its JSON form", t)
	}
	return string(b), false, nil
}

// formatEnum accepts the enum's Go type or, for enums described without
// one, int64.
func formatEnum(t *types.Type, v any) (string, bool, error) {
	want := t.GoType
	if want == nil {
		want = reflect.TypeFor[int64]()
	}
	rv := reflect.ValueOf(v)
	if rv.Type() != want {
		return "", false, mismatch(t, v)
	}
	switch {
	case rv.CanInt():
		return strconv.FormatInt(rv.Int(), 10), false, nil
	case rv.CanUint():
		return strconv.FormatInt(int64(rv.Uint()), 10), false, nil
	}
	return "", false, fmt.Errorf("enum constant %T is not an integer", v)
}

// jsonNative reports whether v is made only of the values encoding/json
// decodes into an interface.
func jsonNative(v any) bool {
	switch x := v.(type) {
	case nil, bool, float64, string:
		return true
	case []any:
		for _, e := range x {
			if !jsonNative(e) {
				return false
			}
		}
		return true
	case map[string]any:
		for _, e := range x {
			if !jsonNative(e) {
				return false
			}
		}
		return true
	}
	return false
}

// parseValue is the inverse of formatValue.
func parseValue(t *types.Type, text string) (any, error) {
	if t.Kind == types.TypeNullable {
		t = t.Elem
	}
	if t.Kind == types.TypeEnum {
		i, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return nil, err
		}
		if t.GoType == nil {
			return i, nil
		}
		rv := reflect.New(t.GoType).Elem()
		if rv.CanInt() {
			rv.SetInt(i)
		} else {
			rv.SetUint(uint64(i))
		}
		return rv.Interface(), nil
	}

	switch t {
	case types.Bool:
		return strconv.ParseBool(text)
	case types.SByte:
		i, err := strconv.ParseInt(text, 10, 8)
		return int8(i), err
	case types.Int16:
		i, err := strconv.ParseInt(text, 10, 16)
		return int16(i), err
	case types.Int32:
		i, err := strconv.ParseInt(text, 10, 32)
		return int32(i), err
	case types.Int64:
		return strconv.ParseInt(text, 10, 64)
	case types.Byte:
		u, err := strconv.ParseUint(text, 10, 8)
		return uint8(u), err
	case types.UInt16:
		u, err := strconv.ParseUint(text, 10, 16)
		return uint16(u), err
	case types.UInt32:
		u, err := strconv.ParseUint(text, 10, 32)
		return uint32(u), err
	case types.UInt64:
		return strconv.ParseUint(text, 10, 64)
	case types.Float32:
		f, err := parseFloat(text, 32)
		return float32(f), err
	case types.Float64:
		return parseFloat(text, 64)
	case types.Decimal:
		return types.DecimalValue(text), nil
	case types.Char:
		r, size := utf8.DecodeRuneInString(text)
		if size == 0 || size != len(text) || (r == utf8.RuneError && size == 1) {
			return nil, fmt.Errorf("char constant %q is not a single rune", text)
		}
		return r, nil
	case types.Guid:
		return types.ParseGUID(text)
	case types.Uri:
		return url.Parse(text)
	case types.String:
		return text, nil
	case types.Duration:
		return time.ParseDuration(text)
	case types.DateTime:
		return time.Parse(time.RFC3339Nano, text)
	case types.DBNull:
		return types.DBNullValue{}, nil
	}

	if t.GoType != nil {
		ptr := reflect.New(t.GoType)
		if err := json.Unmarshal([]byte(text), ptr.Interface()); err != nil {
			return nil, fmt.Errorf("constant of type %s: %w", t, err)
		}
		return ptr.Elem().Interface(), nil
	}
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return nil, fmt.Errorf("constant of type %s: %w", t, err)
	}
	return v, nil
}

// parseFloat accepts the special values FormatFloat produces.
func parseFloat(text string, bits int) (float64, error) {
	switch text {
	case "NaN":
		return math.NaN(), nil
	case "+Inf", "Inf":
		return math.Inf(1), nil
	case "-Inf":
		return math.Inf(-1), nil
	}
	return strconv.ParseFloat(text, bits)
}

func mismatch(t *types.Type, v any) error {
	return fmt.Errorf("constant value %T does not match type %s", v, t)
}
