package inspect

import (
	"fmt"
	"strings"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/unkn0wn-root/postcard"
	"github.com/unkn0wn-root/postcard/codec"
	"github.com/unkn0wn-root/postcard/schema"
)

// Format names a self-describing export encoding.
type Format string

const (
	FormatJSON    Format = "json"
	FormatCBOR    Format = "cbor"
	FormatMsgpack Format = "msgpack"
	FormatProto   Format = "proto"
)

// Formats lists every supported export format.
var Formats = []Format{FormatJSON, FormatCBOR, FormatMsgpack, FormatProto}

var cborTree = codec.MustCBOR[any](true)

func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("inspect: unknown format %q", s)
}

// Export renders v under s as a Tree and encodes it in format f.
func Export(v postcard.Value, s *schema.Schema, f Format) ([]byte, error) {
	t, err := Tree(v, s)
	if err != nil {
		return nil, err
	}
	return Encode(t, f)
}

// Encode writes a tree produced by Tree in format f. CBOR and msgpack output
// is deterministic; JSON is indented.
func Encode(tree any, f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		return codec.JSON[any]{}.Encode(tree)
	case FormatCBOR:
		return cborTree.Encode(tree)
	case FormatMsgpack:
		return codec.Msgpack[any]{}.Encode(tree)
	case FormatProto:
		pv, err := structpb.NewValue(tree)
		if err != nil {
			return nil, fmt.Errorf("inspect: %w", err)
		}
		return codec.StructValue().Encode(pv)
	}
	return nil, fmt.Errorf("inspect: unknown format %q", f)
}

// Decode reads an export back into a generic tree. Numbers come back in the
// width the format chose, so compare decoded trees from the same format only.
func Decode(b []byte, f Format) (any, error) {
	switch f {
	case FormatJSON:
		return codec.JSON[any]{}.Decode(b)
	case FormatCBOR:
		return cborTree.Decode(b)
	case FormatMsgpack:
		return codec.Msgpack[any]{}.Decode(b)
	case FormatProto:
		pv, err := codec.StructValue().Decode(b)
		if err != nil {
			return nil, err
		}
		return pv.AsInterface(), nil
	}
	return nil, fmt.Errorf("inspect: unknown format %q", f)
}
