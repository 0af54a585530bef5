package codec

import "encoding/json"

// JSON is a Codec over encoding/json. Output is indented unless Compact.
type JSON[V any] struct {
	Compact bool
}

func (c JSON[V]) Encode(v V) ([]byte, error) {
	if c.Compact {
		return json.Marshal(v)
	}
	return json.MarshalIndent(v, "", "  ")
}

func (JSON[V]) Decode(b []byte) (V, error) {
	var v V
	err := json.Unmarshal(b, &v)
	return v, err
}
