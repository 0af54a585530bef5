package golden

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/unkn0wn-root/postcard/internal/wire"
)

// Compression identifies the algorithm applied to a bundle body. Values are
// stored in bundle headers.
type Compression uint8

const (
	CompressionNone Compression = 0
	// CompressionLZ4 is LZ4 block compression.
	CompressionLZ4 Compression = 1
	// CompressionZstd is zstd at the default level.
	CompressionZstd Compression = 2
)

func (c Compression) valid() bool { return c <= CompressionZstd }

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZstd:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(c))
	}
}

// ParseCompression parses "none", "lz4" or "zstd". The empty string is none.
func ParseCompression(name string) (Compression, error) {
	switch name {
	case "", "none":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd":
		return CompressionZstd, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrCompression, name)
	}
}

// ErrCorruptBundle is returned by Unpack for any malformed bundle.
var ErrCorruptBundle = errors.New("golden: corrupt bundle")

// Artifact is one named golden payload.
type Artifact struct {
	Name    string
	Payload []byte
}

const (
	bundleVersion byte = 1
	bundleHdr          = 4 + 1 + 1 + 4
	// upper bound on the declared uncompressed size
	maxBundle = 256 << 20
)

var bundleMagic = [...]byte{'P', 'C', 'B', 'N'}

var errIncompressible = errors.New("incompressible")

// Pack lays out arts as:
//
//	magic(4) | ver(1) | compression(1) | rawLen(u32 be) | body
//
// where body is the (compressed) bulk frame of all artifacts. A body that does
// not shrink is stored uncompressed.
func Pack(arts []Artifact, c Compression) ([]byte, error) {
	items := make([]wire.BulkItem, len(arts))
	for i, a := range arts {
		items[i] = wire.BulkItem{Name: a.Name, Payload: a.Payload}
	}
	raw, err := wire.EncodeBulk(items)
	if err != nil {
		return nil, err
	}
	if len(raw) > maxBundle {
		return nil, fmt.Errorf("golden: bundle of %d bytes exceeds %d", len(raw), maxBundle)
	}

	body, err := compress(raw, c)
	if errors.Is(err, errIncompressible) {
		body, c = raw, CompressionNone
	} else if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Grow(bundleHdr + len(body))
	buf.Write(bundleMagic[:])
	buf.WriteByte(bundleVersion)
	buf.WriteByte(byte(c))
	var u4 [4]byte
	binary.BigEndian.PutUint32(u4[:], uint32(len(raw)))
	buf.Write(u4[:])
	buf.Write(body)
	return buf.Bytes(), nil
}

// Unpack reverses Pack. Payloads alias a decompressed buffer, or b itself for
// uncompressed bundles.
func Unpack(b []byte) ([]Artifact, error) {
	if len(b) < bundleHdr || !bytes.Equal(b[:4], bundleMagic[:]) || b[4] != bundleVersion {
		return nil, ErrCorruptBundle
	}
	c := Compression(b[5])
	rawLen := int(binary.BigEndian.Uint32(b[6:10]))
	if rawLen > maxBundle {
		return nil, fmt.Errorf("%w: declared size %d", ErrCorruptBundle, rawLen)
	}
	raw, err := decompress(b[bundleHdr:], c, rawLen)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptBundle, err)
	}
	items, err := wire.DecodeBulk(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptBundle, err)
	}
	arts := make([]Artifact, len(items))
	for i, it := range items {
		arts[i] = Artifact{Name: it.Name, Payload: it.Payload}
	}
	return arts, nil
}

func compress(data []byte, c Compression) ([]byte, error) {
	switch c {
	case CompressionNone:
		return data, nil
	case CompressionLZ4:
		dst := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, dst, nil)
		if err != nil {
			return nil, fmt.Errorf("lz4 compress: %w", err)
		}
		// 0 means incompressible
		if n == 0 || n >= len(data) {
			return nil, errIncompressible
		}
		return dst[:n], nil
	case CompressionZstd:
		out := zstdEncoder.EncodeAll(data, nil)
		if len(out) >= len(data) {
			return nil, errIncompressible
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %d", ErrCompression, uint8(c))
}

func decompress(body []byte, c Compression, size int) ([]byte, error) {
	switch c {
	case CompressionNone:
		if len(body) != size {
			return nil, fmt.Errorf("size %d does not match expected %d", len(body), size)
		}
		return body, nil
	case CompressionLZ4:
		dst := make([]byte, size)
		n, err := lz4.UncompressBlock(body, dst)
		if err != nil {
			return nil, fmt.Errorf("lz4 decompress: %w", err)
		}
		if n != size {
			return nil, fmt.Errorf("lz4 decompress: got %d bytes, expected %d", n, size)
		}
		return dst, nil
	case CompressionZstd:
		out, err := zstdDecoder.DecodeAll(body, make([]byte, 0, size))
		if err != nil {
			return nil, fmt.Errorf("zstd decompress: %w", err)
		}
		if len(out) != size {
			return nil, fmt.Errorf("zstd decompress: got %d bytes, expected %d", len(out), size)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %d", ErrCompression, uint8(c))
}

// zstd.Encoder and zstd.Decoder are safe for concurrent use.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("golden: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil, zstd.WithDecoderMaxMemory(maxBundle))
	if err != nil {
		panic("golden: zstd decoder initialization failed: " + err.Error())
	}
}
