package postcard

import (
	"errors"
	"fmt"

	"github.com/unkn0wn-root/postcard/schema"
)

// Decode failures. Every error returned by a decode path wraps exactly one of
// these, use errors.Is to classify.
var (
	ErrTruncatedInput   = errors.New("postcard: truncated input")
	ErrMalformedVarint  = errors.New("postcard: malformed varint")
	ErrUnknownVariant   = errors.New("postcard: unknown variant")
	ErrInvalidOptionTag = errors.New("postcard: invalid option tag")
	ErrInvalidUtf8      = errors.New("postcard: invalid utf-8")
	ErrInvalidBool      = errors.New("postcard: invalid bool")
	ErrDuplicateMapKey  = errors.New("postcard: duplicate map key")
	ErrTrailingBytes    = errors.New("postcard: trailing bytes")
)

// Encode failures. They only occur for values that do not conform to the
// schema or for a malformed schema.
var (
	ErrSchemaMismatch = errors.New("postcard: value does not match schema")
	ErrInvalidSchema  = schema.ErrInvalid
)

// DecodeError locates a decode failure in the input.
type DecodeError struct {
	// Offset is the byte offset at which the failing item starts.
	Offset int
	// Path is the position of the item in the value tree, e.g.
	// "$.player.inventory.items[1]".
	Path   string
	Detail string
	Err    error
}

func (e *DecodeError) Error() string {
	msg := fmt.Sprintf("%v at offset %d", e.Err, e.Offset)
	if e.Path != "" {
		msg += " (" + e.Path + ")"
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *DecodeError) Unwrap() error { return e.Err }

// EncodeError locates a value that could not be encoded under its schema.
type EncodeError struct {
	Path   string
	Detail string
	Err    error
}

func (e *EncodeError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%v: %s", e.Err, e.Detail)
	}
	return fmt.Sprintf("%v at %s: %s", e.Err, e.Path, e.Detail)
}

func (e *EncodeError) Unwrap() error { return e.Err }

func mismatch(path, format string, args ...any) error {
	return &EncodeError{Path: path, Detail: fmt.Sprintf(format, args...), Err: ErrSchemaMismatch}
}
