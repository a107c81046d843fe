package strictjson

// Placeholder decoders for the two kinds of deliberately unmodeled
// fields.
//
// Opaque fields hold data nothing downstream consumes (AV detection
// blocks, screenshot hashes, timing statistics); their content is
// accepted and discarded so the schema does not have to chase shapes
// it will never read.
//
// Canary fields were empty in every report the schema was built
// against. If a newer sandbox version starts populating one, decoding
// fails loudly instead of silently dropping data the schema does not
// yet describe, which is the prompt to go model the new shape.

// Opaque accepts any value and discards it.
func Opaque(v interface{}) error {
	return nil
}

// Canary accepts only null.
func Canary(v interface{}) error {
	if v == nil {
		return nil
	}
	return newError(KindPlaceholderViolation, "unmodeled field populated (got %s)", jsonType(v))
}

// CanaryList accepts null or a list whose every element is null.
func CanaryList(v interface{}) error {
	if v == nil {
		return nil
	}
	arr, ok := v.([]interface{})
	if !ok {
		return newError(KindPlaceholderViolation, "unmodeled field populated (got %s)", jsonType(v))
	}
	for i, item := range arr {
		if item != nil {
			return prefixIndex(newError(KindPlaceholderViolation,
				"unmodeled field populated (got %s)", jsonType(item)), i)
		}
	}
	return nil
}

// CanaryObject accepts null or an empty object; any key is reported
// as unknown, same as drift inside a modeled record.
func CanaryObject(v interface{}) error {
	if v == nil {
		return nil
	}
	return Object(v)
}
