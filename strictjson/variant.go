package strictjson

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Variant is one admissible JSON shape of a polymorphic field: a
// structural probe plus the decoder to run when the probe matches.
type Variant struct {
	Shape  string
	Probe  func(v interface{}) bool
	Decode Func
}

// OneOf resolves a field whose shape differs across sandbox versions.
// Variants are probed in declaration order and the first match wins;
// the ordering is part of the schema contract, since overlapping
// shapes would otherwise resolve differently between builds. A value
// matching no variant fails, naming every shape that was tried.
func OneOf(variants ...Variant) Func {
	return func(v interface{}) error {
		for _, variant := range variants {
			if variant.Probe(v) {
				return variant.Decode(v)
			}
		}
		shapes := make([]string, len(variants))
		for i, variant := range variants {
			shapes[i] = variant.Shape
		}
		return newError(KindShapeMismatch, "no variant matched (tried %s; got %s)",
			strings.Join(shapes, ", "), jsonType(v))
	}
}

// structural probes

func IsArray(v interface{}) bool {
	_, ok := v.([]interface{})
	return ok
}

func IsObject(v interface{}) bool {
	_, ok := v.(map[string]interface{})
	return ok
}

func IsString(v interface{}) bool {
	_, ok := v.(string)
	return ok
}

func IsNull(v interface{}) bool {
	return v == nil
}

// IsHexInt matches values the hex-int codec can normalize: native
// integers, or strings made of base-16 digits narrow enough for a
// 64-bit value. A wider or non-hex string falls through to later
// variants (a plain-string argument value) instead of failing.
func IsHexInt(v interface{}) bool {
	switch val := v.(type) {
	case json.Number:
		_, err := strconv.ParseInt(val.String(), 10, 64)
		if err != nil {
			_, err = strconv.ParseUint(val.String(), 10, 64)
		}
		return err == nil
	case string:
		s := strings.TrimPrefix(strings.TrimPrefix(val, "0x"), "0X")
		_, err := strconv.ParseUint(s, 16, 64)
		return err == nil
	default:
		return false
	}
}

// HasKey probes an object shape by a discriminating field.
func HasKey(name string) func(v interface{}) bool {
	return func(v interface{}) bool {
		obj, ok := v.(map[string]interface{})
		if !ok {
			return false
		}
		_, present := obj[name]
		return present
	}
}
