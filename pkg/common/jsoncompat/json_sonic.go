//go:build !jsonv2 && !jsonstd

package jsoncompat

import "github.com/bytedance/sonic"

// api matches encoding/json behaviour: sorted map keys, escaped HTML and
// Marshaler/Unmarshaler support.
var api = sonic.ConfigStd

// Marshal proxies to sonic unless the jsonv2 or jsonstd build tag is set.
func Marshal(v any) ([]byte, error) { return api.Marshal(v) }

// Unmarshal proxies to sonic unless the jsonv2 or jsonstd build tag is set.
func Unmarshal(data []byte, v any) error { return api.Unmarshal(data, v) }

func MarshalIndent(v any, prefix, indent string) ([]byte, error) {
	return api.MarshalIndent(v, prefix, indent)
}
