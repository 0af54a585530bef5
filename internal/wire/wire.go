// Package wire frames fixture artifacts for storage. Every payload carries its
// xxhash64 so a damaged entry is detected before it reaches the decoder.
package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

const (
	version    byte = 1
	kindSingle byte = 1
	kindBulk   byte = 2

	singleHdr = 4 + 1 + 1 + 8 + 4
	bulkHdr   = 4 + 1 + 1 + 4
	itemHdr   = 2 + 8 + 4
)

var (
	ErrCorrupt  = errors.New("postcard: corrupt entry")
	ErrChecksum = fmt.Errorf("%w: checksum mismatch", ErrCorrupt)
	ErrName     = errors.New("postcard: bulk item name must be 1..65535 bytes")
	magic4      = [...]byte{'P', 'C', 'F', 'X'}
)

func hasMagic(b []byte) bool {
	return len(b) >= 4 && bytes.Equal(b[:4], magic4[:])
}

// Sum is the checksum stored next to every payload.
func Sum(payload []byte) uint64 { return xxhash.Sum64(payload) }

// Single: magic(4) | ver(1) | kind(1=single) | sum(u64 be) | vlen(u32 be) | payload(vlen)
func EncodeSingle(payload []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(singleHdr + len(payload))

	buf.Write(magic4[:])
	buf.WriteByte(version)
	buf.WriteByte(kindSingle)

	var u8 [8]byte
	var u4 [4]byte

	binary.BigEndian.PutUint64(u8[:], Sum(payload))
	buf.Write(u8[:])

	binary.BigEndian.PutUint32(u4[:], uint32(len(payload)))
	buf.Write(u4[:])

	buf.Write(payload)
	return buf.Bytes()
}

// DecodeSingle returns the payload as a subslice of b.
func DecodeSingle(b []byte) ([]byte, error) {
	if len(b) < singleHdr || !hasMagic(b) || b[4] != version || b[5] != kindSingle {
		return nil, ErrCorrupt
	}

	off := 6
	sum := binary.BigEndian.Uint64(b[off : off+8])
	off += 8

	vlen := int(binary.BigEndian.Uint32(b[off : off+4]))
	off += 4
	if vlen != len(b)-off {
		return nil, ErrCorrupt
	}

	payload := b[off:]
	if Sum(payload) != sum {
		return nil, ErrChecksum
	}
	return payload, nil
}

// Bulk:
//
//	magic(4) | ver(1) | kind(1=bulk) | n(u32 be)
//	nameLen(u16 be) | name(nameLen) | sum(u64 be) | vlen(u32 be) | payload(vlen) * n
type BulkItem struct {
	Name    string
	Payload []byte
}

func EncodeBulk(items []BulkItem) ([]byte, error) {
	total := bulkHdr
	for _, it := range items {
		if l := len(it.Name); l == 0 || l > 0xFFFF {
			return nil, fmt.Errorf("%w: got %d", ErrName, l)
		}
		total += itemHdr + len(it.Name) + len(it.Payload)
	}

	var buf bytes.Buffer
	buf.Grow(total)

	buf.Write(magic4[:])
	buf.WriteByte(version)
	buf.WriteByte(kindBulk)

	var u8 [8]byte
	var u4 [4]byte
	var u2 [2]byte

	binary.BigEndian.PutUint32(u4[:], uint32(len(items)))
	buf.Write(u4[:])

	for _, it := range items {
		binary.BigEndian.PutUint16(u2[:], uint16(len(it.Name)))
		buf.Write(u2[:])
		buf.WriteString(it.Name)

		binary.BigEndian.PutUint64(u8[:], Sum(it.Payload))
		buf.Write(u8[:])

		binary.BigEndian.PutUint32(u4[:], uint32(len(it.Payload)))
		buf.Write(u4[:])
		buf.Write(it.Payload)
	}

	return buf.Bytes(), nil
}

// DecodeBulk returns items whose payloads are subslices of b.
func DecodeBulk(b []byte) ([]BulkItem, error) {
	if len(b) < bulkHdr || !hasMagic(b) || b[4] != version || b[5] != kindBulk {
		return nil, ErrCorrupt
	}

	off := 6
	n := int(binary.BigEndian.Uint32(b[off : off+4]))
	off += 4
	// each item takes at least itemHdr+1 bytes
	if n > (len(b)-off)/(itemHdr+1) {
		return nil, ErrCorrupt
	}

	items := make([]BulkItem, 0, n)
	for i := 0; i < n; i++ {
		if off+2 > len(b) {
			return nil, ErrCorrupt
		}
		nlen := int(binary.BigEndian.Uint16(b[off : off+2]))
		off += 2
		if nlen == 0 || nlen > len(b)-off {
			return nil, ErrCorrupt
		}
		name := b[off : off+nlen]
		off += nlen

		if off+8+4 > len(b) {
			return nil, ErrCorrupt
		}
		sum := binary.BigEndian.Uint64(b[off : off+8])
		off += 8
		vlen := int(binary.BigEndian.Uint32(b[off : off+4]))
		off += 4
		if vlen > len(b)-off {
			return nil, ErrCorrupt
		}

		payload := b[off : off+vlen]
		off += vlen
		if Sum(payload) != sum {
			return nil, fmt.Errorf("%w: item %q", ErrChecksum, name)
		}

		items = append(items, BulkItem{
			Name:    string(name),
			Payload: payload,
		})
	}
	if off != len(b) {
		return nil, ErrCorrupt
	}

	return items, nil
}
