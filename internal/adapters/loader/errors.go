package loader

import "errors"

// Sentinel kinds for loader errors. Every error returned by Load wraps ErrLoad.
var (
	ErrLoad              = errors.New("load dataset failed")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrMissingColumn     = errors.New("missing column")
	ErrNoRows            = errors.New("no rows")
)
