package golden

import "errors"

var (
	ErrMissing       = errors.New("golden: artifact missing")
	ErrValueMismatch = errors.New("golden: decoded value differs from fixture")
	ErrBytesMismatch = errors.New("golden: re-encoded bytes differ from stored artifact")
	ErrManifest      = errors.New("golden: artifact does not match manifest")
	ErrCompression   = errors.New("golden: unknown compression")
)
