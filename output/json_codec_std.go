//go:build !jsonv2

package output

import "encoding/json"

func marshalJSON(value any) ([]byte, error) {
	return json.Marshal(value)
}

func marshalJSONIndent(value any, prefix, indent string) ([]byte, error) {
	return json.MarshalIndent(value, prefix, indent)
}
