package codec

// Bytes is an identity codec for payloads that are already encoded, such as
// fixture files read from disk. Decode copies so callers own the result.
type Bytes struct{}

func (Bytes) Encode(b []byte) ([]byte, error) { return b, nil }

func (Bytes) Decode(b []byte) ([]byte, error) {
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}
