package strictjson

import "sort"

// Func decodes one already-parsed JSON value into a destination
// captured by the closure.
type Func func(v interface{}) error

// Field declares one key of a strict object: its JSON key, whether it
// may be absent, and the decoder applied to its value.
type Field struct {
	Name     string
	Alias    string // raw JSON key when it differs from Name
	Optional bool
	Decode   Func
}

func (f Field) key() string {
	if f.Alias != "" {
		return f.Alias
	}
	return f.Name
}

// Req declares a required field.
func Req(name string, dec Func) Field {
	return Field{Name: name, Decode: dec}
}

// Opt declares a field that may be absent. An absent optional field
// leaves its destination untouched (nil pointer, nil slice), which is
// the explicit unset marker; it is never defaulted to a zero value
// that could be mistaken for data.
func Opt(name string, dec Func) Field {
	return Field{Name: name, Optional: true, Decode: dec}
}

// ReqAs declares a required field whose raw JSON key differs from the
// name used on the Go side (e.g. the "return" key of a call record).
func ReqAs(name, alias string, dec Func) Field {
	return Field{Name: name, Alias: alias, Decode: dec}
}

// Object decodes a JSON object against a declared field table. Every
// declared field is decoded by its raw key; failures are collected per
// field rather than aborting the sibling fields. Keys claimed by no
// field spec are a hard error: the report format drifts across sandbox
// versions, and silently ignoring a new key would hide that this
// schema no longer describes the format.
func Object(v interface{}, fields ...Field) error {
	obj, ok := v.(map[string]interface{})
	if !ok {
		return newError(KindShapeMismatch, "expected object, got %s", jsonType(v))
	}

	var errs Errors
	claimed := make(map[string]bool, len(fields))
	for _, f := range fields {
		key := f.key()
		claimed[key] = true
		raw, present := obj[key]
		if !present {
			if !f.Optional {
				err := newError(KindMissingField, "missing required field")
				err.segments = []string{key}
				errs = append(errs, err)
			}
			continue
		}
		if err := f.Decode(raw); err != nil {
			errs = append(errs, Flatten(prefix(err, key))...)
		}
	}

	var unknown []string
	for key := range obj {
		if !claimed[key] {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	for _, key := range unknown {
		err := newError(KindUnknownField, "unknown field")
		err.segments = []string{key}
		errs = append(errs, err)
	}

	return errs.collapse()
}

// ObjectFunc adapts a field table builder into a Func for nested
// objects.
func ObjectFunc(fields func() []Field) Func {
	return func(v interface{}) error {
		return Object(v, fields()...)
	}
}
