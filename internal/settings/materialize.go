package settings

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-viper/mapstructure/v2"

	"github.com/angeloszaimis/oms-envcheck/internal/settingserr"
	"github.com/angeloszaimis/oms-envcheck/internal/source"
)

const tagName = "mapstructure"

// Materialize decodes a merged configuration into a new Settings value.
// It keeps no reference to merged or to the result.
func Materialize(merged source.Tree) (*Settings, error) {
	out := new(Settings)
	if err := decodeTable("", merged, reflect.ValueOf(out).Elem()); err != nil {
		return nil, err
	}
	return out, nil
}

func decodeTable(path string, table map[string]any, out reflect.Value) error {
	t := out.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		name, optional := fieldKey(field)
		fieldPath := joinPath(path, name)

		raw, ok := table[name]
		if !ok || raw == nil {
			if optional || field.Type.Kind() == reflect.Pointer {
				continue
			}
			return settingserr.Missing(fieldPath, typeName(field.Type))
		}

		if err := decodeValue(fieldPath, raw, out.Field(i)); err != nil {
			return err
		}
	}
	return nil
}

func decodeValue(path string, raw any, out reflect.Value) error {
	t := out.Type()

	switch t.Kind() {
	case reflect.Pointer:
		ptr := reflect.New(t.Elem())
		if err := decodeValue(path, raw, ptr.Elem()); err != nil {
			return err
		}
		out.Set(ptr)
		return nil
	case reflect.Struct:
		table, ok := asTable(raw)
		if !ok {
			return settingserr.Mismatch(path, typeName(t), raw)
		}
		return decodeTable(path, table, out)
	default:
		return decodeLeaf(path, raw, out)
	}
}

func decodeLeaf(path string, raw any, out reflect.Value) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result: out.Addr().Interface(),
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.DecodeHookFuncType(integerRangeHook),
			mapstructure.TextUnmarshallerHookFunc(),
		),
	})
	if err != nil {
		return settingserr.Field(path, typeName(out.Type()), err)
	}

	if err := decoder.Decode(raw); err != nil {
		return decodeFailure(path, out.Type(), err)
	}

	if v, ok := out.Interface().(validation.Validatable); ok {
		if err := v.Validate(); err != nil {
			return settingserr.Field(path, typeName(out.Type()), err)
		}
	}

	return nil
}

// decodeFailure rewrites a mapstructure error so the path includes any list
// index the decoder reported.
func decodeFailure(path string, t reflect.Type, err error) error {
	var decodeErr *mapstructure.DecodeError
	if errors.As(err, &decodeErr) {
		path += decodeErr.Name()
		err = decodeErr.Unwrap()
	}
	return settingserr.Field(path, typeName(t), err)
}

func fieldKey(field reflect.StructField) (name string, optional bool) {
	tag := field.Tag.Get(tagName)
	name, opts, _ := strings.Cut(tag, ",")
	if name == "" {
		name = strings.ToLower(field.Name)
	}
	for _, opt := range strings.Split(opts, ",") {
		if opt == "omitempty" {
			optional = true
		}
	}
	return name, optional
}

func asTable(raw any) (map[string]any, bool) {
	switch t := raw.(type) {
	case map[string]any:
		return t, true
	case source.Tree:
		return t, true
	default:
		return nil, false
	}
}

func typeName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() == reflect.Struct {
		return "table"
	}
	return t.String()
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

// integerRangeHook rejects values that an integer field cannot hold:
// negatives for unsigned fields, values wider than the field, and
// fractional numbers. Everything else passes through unchanged.
func integerRangeHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if !isInteger(to.Kind()) {
		return data, nil
	}

	v := reflect.ValueOf(data)
	switch {
	case isSigned(v.Kind()):
		return data, checkSigned(to, v.Int())
	case isUnsigned(v.Kind()):
		return data, checkUnsigned(to, v.Uint())
	case v.Kind() == reflect.Float32 || v.Kind() == reflect.Float64:
		f := v.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
			return nil, fmt.Errorf("%v is not a whole number", f)
		}
		if f < math.MinInt64 || f >= math.Exp2(64) {
			return nil, fmt.Errorf("%v overflows %s", f, to)
		}
		if f < 0 {
			return data, checkSigned(to, int64(f))
		}
		return data, checkUnsigned(to, uint64(f))
	default:
		return data, nil
	}
}

func checkSigned(to reflect.Type, n int64) error {
	if isUnsigned(to.Kind()) {
		if n < 0 {
			return fmt.Errorf("%d is negative, %s must not be", n, to)
		}
		return checkUnsigned(to, uint64(n))
	}
	bits := to.Bits()
	if bits == 64 {
		return nil
	}
	limit := int64(1) << (bits - 1)
	if n < -limit || n > limit-1 {
		return fmt.Errorf("%d overflows %s", n, to)
	}
	return nil
}

func checkUnsigned(to reflect.Type, n uint64) error {
	bits := to.Bits()
	var limit uint64
	if isUnsigned(to.Kind()) {
		limit = math.MaxUint64 >> (64 - bits)
	} else {
		limit = math.MaxInt64 >> (64 - bits)
	}
	if n > limit {
		return fmt.Errorf("%d overflows %s", n, to)
	}
	return nil
}

func isInteger(k reflect.Kind) bool {
	return isSigned(k) || isUnsigned(k)
}

func isSigned(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func isUnsigned(k reflect.Kind) bool {
	switch k {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}
