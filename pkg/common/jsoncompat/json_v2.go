//go:build jsonv2

package jsoncompat

import (
	json "encoding/json/v2"
	"encoding/json/jsontext"
)

// Marshal proxies to encoding/json/v2 Marshal when jsonv2 build tag is present.
func Marshal(v any) ([]byte, error) { return json.Marshal(v) }

// Unmarshal proxies to encoding/json/v2 Unmarshal when jsonv2 build tag is present.
func Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

func MarshalIndent(v any, prefix, indent string) ([]byte, error) {
	return json.Marshal(v, jsontext.WithIndentPrefix(prefix), jsontext.WithIndent(indent))
}
