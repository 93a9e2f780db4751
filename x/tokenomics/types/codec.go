package types

import (
	"encoding/json"
	"fmt"

	collcodec "cosmossdk.io/collections/codec"
)

// The module stores its state objects as JSON documents. All embedded
// math.Int fields marshal to decimal strings, which keeps the encoding
// deterministic and the exported genesis human readable.

type jsonValue[V any] struct {
	name string
}

// NewJSONValueCodec returns a collections value codec that round-trips V
// through encoding/json. The name is used for error reporting and schema
// introspection.
func NewJSONValueCodec[V any](name string) collcodec.ValueCodec[V] {
	return jsonValue[V]{name: name}
}

func (c jsonValue[V]) Encode(value V) ([]byte, error) {
	return json.Marshal(value)
}

func (c jsonValue[V]) Decode(b []byte) (V, error) {
	var value V
	if err := json.Unmarshal(b, &value); err != nil {
		return value, fmt.Errorf("failed to decode %s value: %w", c.name, err)
	}
	return value, nil
}

func (c jsonValue[V]) EncodeJSON(value V) ([]byte, error) {
	return json.Marshal(value)
}

func (c jsonValue[V]) DecodeJSON(b []byte) (V, error) {
	var value V
	if err := json.Unmarshal(b, &value); err != nil {
		return value, fmt.Errorf("failed to decode %s value: %w", c.name, err)
	}
	return value, nil
}

func (c jsonValue[V]) Stringify(value V) string {
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprintf("<invalid %s: %v>", c.name, err)
	}
	return string(b)
}

func (c jsonValue[V]) ValueType() string {
	return c.name
}
