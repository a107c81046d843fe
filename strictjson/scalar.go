package strictjson

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"io"
	"sort"
	"strconv"
	"strings"
)

// Parse materializes one JSON document into the generic value tree the
// decoders in this package operate on. Numbers are kept as
// json.Number so 64-bit addresses survive without float truncation,
// and objects arrive as complete key/value maps, which the
// unknown-field check in Object depends on. Trailing non-whitespace
// after the document is rejected.
func Parse(buf []byte) (interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(buf))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, newError(KindMalformedInput, "invalid JSON: %v", err)
	}
	if err := dec.Decode(new(interface{})); err != io.EOF {
		return nil, newError(KindMalformedInput, "trailing data after JSON document")
	}
	return v, nil
}

//
// scalar value decoders
//

// StringValue expects a JSON string.
func StringValue(v interface{}) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", newError(KindScalarDecode, "expected string, got %s", jsonType(v))
	}
	return s, nil
}

// IntValue expects a JSON integer.
func IntValue(v interface{}) (int, error) {
	num, ok := v.(json.Number)
	if !ok {
		return 0, newError(KindScalarDecode, "expected integer, got %s", jsonType(v))
	}
	n, err := strconv.ParseInt(num.String(), 10, 64)
	if err != nil {
		return 0, newError(KindScalarDecode, "expected integer, got %q", num.String())
	}
	return int(n), nil
}

// FloatValue expects any JSON number.
func FloatValue(v interface{}) (float64, error) {
	num, ok := v.(json.Number)
	if !ok {
		return 0, newError(KindScalarDecode, "expected number, got %s", jsonType(v))
	}
	f, err := num.Float64()
	if err != nil {
		return 0, newError(KindScalarDecode, "bad number %q", num.String())
	}
	return f, nil
}

// BoolValue expects a JSON boolean.
func BoolValue(v interface{}) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, newError(KindScalarDecode, "expected bool, got %s", jsonType(v))
	}
	return b, nil
}

// HexIntValue normalizes the report format's ad-hoc integer encoding:
// a native JSON integer passes through unchanged, a string is read as
// base-16 with an optional 0x prefix. Negative native integers show
// up where the monitor logs NTSTATUS-style values; they keep their
// two's-complement bit pattern. Anything else fails.
func HexIntValue(v interface{}) (uint64, error) {
	switch val := v.(type) {
	case json.Number:
		n, err := strconv.ParseUint(val.String(), 10, 64)
		if err == nil {
			return n, nil
		}
		s, err := strconv.ParseInt(val.String(), 10, 64)
		if err != nil {
			return 0, newError(KindScalarDecode, "hex-int: bad native integer %q", val.String())
		}
		return uint64(s), nil
	case string:
		// an explicit 0x prefix shows up in some report versions
		s := strings.TrimPrefix(strings.TrimPrefix(val, "0x"), "0X")
		n, err := strconv.ParseUint(s, 16, 64)
		if err != nil {
			return 0, newError(KindScalarDecode, "hex-int: bad hex string %q", val)
		}
		return n, nil
	default:
		return 0, newError(KindScalarDecode, "hex-int: unexpected input type %s", jsonType(v))
	}
}

// HexBytesValue decodes a hex string into a byte blob. Odd-length or
// non-hex-digit input fails.
func HexBytesValue(v interface{}) ([]byte, error) {
	s, ok := v.(string)
	if !ok {
		return nil, newError(KindScalarDecode, "hex-bytes: unexpected input type %s", jsonType(v))
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, newError(KindScalarDecode, "hex-bytes: %v", err)
	}
	return b, nil
}

//
// destination-binding decoders
//

// String binds a required string field.
func String(dst *string) Func {
	return func(v interface{}) error {
		s, err := StringValue(v)
		if err != nil {
			return err
		}
		*dst = s
		return nil
	}
}

// StringPtr binds a nullable string field: null leaves the pointer nil.
func StringPtr(dst **string) Func {
	return func(v interface{}) error {
		if v == nil {
			return nil
		}
		s, err := StringValue(v)
		if err != nil {
			return err
		}
		*dst = &s
		return nil
	}
}

// Int binds a required integer field.
func Int(dst *int) Func {
	return func(v interface{}) error {
		n, err := IntValue(v)
		if err != nil {
			return err
		}
		*dst = n
		return nil
	}
}

// IntPtr binds a nullable integer field.
func IntPtr(dst **int) Func {
	return func(v interface{}) error {
		if v == nil {
			return nil
		}
		n, err := IntValue(v)
		if err != nil {
			return err
		}
		*dst = &n
		return nil
	}
}

// Int64 binds a required integer field into an int64 destination.
func Int64(dst *int64) Func {
	return func(v interface{}) error {
		num, ok := v.(json.Number)
		if !ok {
			return newError(KindScalarDecode, "expected integer, got %s", jsonType(v))
		}
		n, err := strconv.ParseInt(num.String(), 10, 64)
		if err != nil {
			return newError(KindScalarDecode, "expected integer, got %q", num.String())
		}
		*dst = n
		return nil
	}
}

// Int64Ptr binds a nullable integer field into an *int64 destination.
func Int64Ptr(dst **int64) Func {
	return func(v interface{}) error {
		if v == nil {
			return nil
		}
		var n int64
		if err := Int64(&n)(v); err != nil {
			return err
		}
		*dst = &n
		return nil
	}
}

// Float binds a required number field.
func Float(dst *float64) Func {
	return func(v interface{}) error {
		f, err := FloatValue(v)
		if err != nil {
			return err
		}
		*dst = f
		return nil
	}
}

// Bool binds a required boolean field.
func Bool(dst *bool) Func {
	return func(v interface{}) error {
		b, err := BoolValue(v)
		if err != nil {
			return err
		}
		*dst = b
		return nil
	}
}

// BoolPtr binds a nullable boolean field.
func BoolPtr(dst **bool) Func {
	return func(v interface{}) error {
		if v == nil {
			return nil
		}
		b, err := BoolValue(v)
		if err != nil {
			return err
		}
		*dst = &b
		return nil
	}
}

// HexInt binds a required hex-encoded integer field.
func HexInt(dst *uint64) Func {
	return func(v interface{}) error {
		n, err := HexIntValue(v)
		if err != nil {
			return err
		}
		*dst = n
		return nil
	}
}

// HexIntPtr binds a nullable hex-encoded integer field.
func HexIntPtr(dst **uint64) Func {
	return func(v interface{}) error {
		if v == nil {
			return nil
		}
		n, err := HexIntValue(v)
		if err != nil {
			return err
		}
		*dst = &n
		return nil
	}
}

// HexBytes binds a nullable hex-encoded byte blob field.
func HexBytes(dst *[]byte) Func {
	return func(v interface{}) error {
		if v == nil {
			return nil
		}
		b, err := HexBytesValue(v)
		if err != nil {
			return err
		}
		*dst = b
		return nil
	}
}

// List binds an array field, decoding each element and annotating
// element failures with their index. Null leaves the slice nil.
func List[T any](dst *[]T, elem func(interface{}) (T, error)) Func {
	return func(v interface{}) error {
		if v == nil {
			return nil
		}
		arr, ok := v.([]interface{})
		if !ok {
			return newError(KindShapeMismatch, "expected array, got %s", jsonType(v))
		}
		out := make([]T, len(arr))
		var errs Errors
		for i, item := range arr {
			t, err := elem(item)
			if err != nil {
				errs = append(errs, Flatten(prefixIndex(err, i))...)
				continue
			}
			out[i] = t
		}
		if err := errs.collapse(); err != nil {
			return err
		}
		*dst = out
		return nil
	}
}

// MapOf binds an object field treated as a homogeneous mapping.
// Element failures are annotated with their key; keys are visited in
// sorted order so error aggregation is deterministic.
func MapOf[T any](dst *map[string]T, elem func(interface{}) (T, error)) Func {
	return func(v interface{}) error {
		if v == nil {
			return nil
		}
		obj, ok := v.(map[string]interface{})
		if !ok {
			return newError(KindShapeMismatch, "expected object, got %s", jsonType(v))
		}
		keys := make([]string, 0, len(obj))
		for key := range obj {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		out := make(map[string]T, len(obj))
		var errs Errors
		for _, key := range keys {
			t, err := elem(obj[key])
			if err != nil {
				errs = append(errs, Flatten(prefix(err, key))...)
				continue
			}
			out[key] = t
		}
		if err := errs.collapse(); err != nil {
			return err
		}
		*dst = out
		return nil
	}
}

// RawValue passes a parsed JSON value through untouched. Used for
// free-form evidence blocks whose shape is caller-defined.
func RawValue(v interface{}) (interface{}, error) {
	return v, nil
}

// RawObjectValue expects an object and passes it through untouched.
func RawObjectValue(v interface{}) (map[string]interface{}, error) {
	obj, ok := v.(map[string]interface{})
	if !ok {
		return nil, newError(KindShapeMismatch, "expected object, got %s", jsonType(v))
	}
	return obj, nil
}
