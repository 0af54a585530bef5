package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"strings"
	"testing"
)

func mustDecodeSingle(t *testing.T, b []byte) []byte {
	t.Helper()
	p, err := DecodeSingle(b)
	if err != nil {
		t.Fatalf("DecodeSingle error: %v", err)
	}
	return p
}

func mustDecodeBulk(t *testing.T, b []byte) []BulkItem {
	t.Helper()
	it, err := DecodeBulk(b)
	if err != nil {
		t.Fatalf("DecodeBulk error: %v", err)
	}
	return it
}

func TestSingleRTEmptyAndNonEmpty(t *testing.T) {
	for _, payload := range [][]byte{nil, []byte("hello"), {0, 1, 2, 3, 4}} {
		enc := EncodeSingle(payload)
		if len(enc) != singleHdr+len(payload) {
			t.Fatalf("frame len: got %d want %d", len(enc), singleHdr+len(payload))
		}
		p := mustDecodeSingle(t, enc)
		if !bytes.Equal(p, payload) {
			t.Fatalf("payload mismatch: got %x want %x", p, payload)
		}
	}
}

func TestSingleRejectsTrailingBytes(t *testing.T) {
	enc := EncodeSingle([]byte("x"))
	enc = append(enc, 0xDE, 0xAD)
	if _, err := DecodeSingle(enc); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt on trailing bytes, got %v", err)
	}
}

func TestSingleCorruptHeadersAndLengths(t *testing.T) {
	enc := EncodeSingle([]byte("abc"))

	mutate := func(f func(b []byte)) []byte {
		b := append([]byte(nil), enc...)
		f(b)
		return b
	}
	cases := map[string][]byte{
		"bad magic":   mutate(func(b []byte) { b[0] = 'X' }),
		"bad version": mutate(func(b []byte) { b[4] = version + 1 }),
		"bad kind":    mutate(func(b []byte) { b[5] = kindBulk }),
		// vlen sits after 4 magic +1 ver +1 kind +8 sum
		"vlen too long": mutate(func(b []byte) { binary.BigEndian.PutUint32(b[14:18], 4) }),
		"truncated":     enc[:len(enc)-1],
		"header only":   enc[:10],
	}
	for name, b := range cases {
		if _, err := DecodeSingle(b); !errors.Is(err, ErrCorrupt) {
			t.Fatalf("%s: expected ErrCorrupt, got %v", name, err)
		}
	}
}

func TestSingleChecksum(t *testing.T) {
	enc := EncodeSingle([]byte("abc"))
	enc[len(enc)-1] ^= 0x01
	_, err := DecodeSingle(enc)
	if !errors.Is(err, ErrChecksum) || !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrChecksum, got %v", err)
	}
}

func TestSingleZeroCopyPayload(t *testing.T) {
	enc := EncodeSingle([]byte("Z"))
	p := mustDecodeSingle(t, enc)
	if &p[0] != &enc[singleHdr] {
		t.Fatalf("expected payload to alias the frame")
	}
}

func TestBulkRoundTrip(t *testing.T) {
	cases := [][]BulkItem{
		nil,
		{{Name: "a.bin", Payload: []byte("x")}},
		{
			{Name: "a", Payload: []byte("x")},
			{Name: "unit_struct.bin", Payload: nil},
			{Name: "c", Payload: []byte{9, 8, 7}},
		},
		// duplicates allowed. decoder preserves both
		{
			{Name: "dup", Payload: []byte("old")},
			{Name: "dup", Payload: []byte("new")},
		},
	}
	for _, items := range cases {
		enc, err := EncodeBulk(items)
		if err != nil {
			t.Fatalf("EncodeBulk error: %v", err)
		}
		got := mustDecodeBulk(t, enc)
		if len(got) != len(items) {
			t.Fatalf("len mismatch: got %d want %d", len(got), len(items))
		}
		for i := range items {
			if got[i].Name != items[i].Name || !bytes.Equal(got[i].Payload, items[i].Payload) {
				t.Fatalf("item %d mismatch: got=%+v want=%+v", i, got[i], items[i])
			}
		}
	}
}

func TestBulkRejectsTrailingBytes(t *testing.T) {
	enc, err := EncodeBulk([]BulkItem{{Name: "k", Payload: []byte("v")}})
	if err != nil {
		t.Fatalf("EncodeBulk: %v", err)
	}
	enc = append(enc, 0xBE, 0xEF)
	if _, err := DecodeBulk(enc); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt on trailing bytes, got %v", err)
	}
}

func TestBulkWrongCountAndTruncation(t *testing.T) {
	header := func(n uint32) []byte {
		var buf bytes.Buffer
		buf.Write(magic4[:])
		buf.WriteByte(version)
		buf.WriteByte(kindBulk)
		var u4 [4]byte
		binary.BigEndian.PutUint32(u4[:], n)
		buf.Write(u4[:])
		return buf.Bytes()
	}
	// huge n must error before allocating
	if _, err := DecodeBulk(header(^uint32(0))); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected error on bogus n, got %v", err)
	}
	if _, err := DecodeBulk(header(1)); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected error on truncated item list, got %v", err)
	}
}

func TestBulkNameLengthValidation(t *testing.T) {
	if _, err := EncodeBulk([]BulkItem{{Name: "", Payload: []byte("x")}}); !errors.Is(err, ErrName) {
		t.Fatalf("expected ErrName on empty name, got %v", err)
	}
	if _, err := EncodeBulk([]BulkItem{{Name: strings.Repeat("a", 0x10000)}}); !errors.Is(err, ErrName) {
		t.Fatalf("expected ErrName on name length > 0xFFFF, got %v", err)
	}
	if _, err := EncodeBulk([]BulkItem{{Name: strings.Repeat("b", 0xFFFF)}}); err != nil {
		t.Fatalf("boundary name length should succeed: %v", err)
	}
}

func TestBulkCorruptHeadersAndLengths(t *testing.T) {
	enc, err := EncodeBulk([]BulkItem{{Name: "k", Payload: []byte("xyz")}})
	if err != nil {
		t.Fatalf("EncodeBulk: %v", err)
	}
	mutate := func(f func(b []byte)) []byte {
		b := append([]byte(nil), enc...)
		f(b)
		return b
	}

	// header: 4 magic +1 ver +1 kind +4 n = 10 bytes
	// item: 2 nlen + name + 8 sum + 4 vlen + payload
	vlenAt := 10 + 2 + 1 + 8
	cases := map[string][]byte{
		"bad magic":     mutate(func(b []byte) { b[0] = 'X' }),
		"bad version":   mutate(func(b []byte) { b[4] = version + 1 }),
		"bad kind":      mutate(func(b []byte) { b[5] = kindSingle }),
		"vlen too long": mutate(func(b []byte) { binary.BigEndian.PutUint32(b[vlenAt:vlenAt+4], 4) }),
		"nlen too long": mutate(func(b []byte) { binary.BigEndian.PutUint16(b[10:12], 50) }),
		"zero nlen":     mutate(func(b []byte) { binary.BigEndian.PutUint16(b[10:12], 0) }),
		"payload flip":  mutate(func(b []byte) { b[len(b)-1] ^= 0xFF }),
	}
	for name, b := range cases {
		if _, err := DecodeBulk(b); !errors.Is(err, ErrCorrupt) {
			t.Fatalf("%s: expected ErrCorrupt, got %v", name, err)
		}
	}
}

func TestBulkZeroCopyPayloadSlices(t *testing.T) {
	enc, err := EncodeBulk([]BulkItem{
		{Name: "a", Payload: []byte("X")},
		{Name: "b", Payload: []byte("Y")},
	})
	if err != nil {
		t.Fatalf("EncodeBulk: %v", err)
	}
	got := mustDecodeBulk(t, enc)
	// second payload is the last byte of the frame
	if &got[1].Payload[0] != &enc[len(enc)-1] {
		t.Fatalf("expected payload subslices into enc buffer")
	}
}
