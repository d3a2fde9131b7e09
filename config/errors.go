package config

import "errors"

// Error categories returned by this package and its parsers and fetchers.
// They are always wrapped, so callers match them with errors.Is.
//   - ErrParse: the source is not a well-formed configuration document.
//   - ErrNotFound: the source does not exist or cannot be read.
//   - ErrKeyNotFound: a path does not resolve to a value.
//   - ErrTypeMismatch: a value exists but is not of the requested type, or a path
//     navigates through a value that is not a mapping or sequence.
//   - ErrInvalidPath: a path key is malformed.
var (
	ErrParse        = errors.New("parse error")
	ErrNotFound     = errors.New("source not found")
	ErrKeyNotFound  = errors.New("key not found")
	ErrTypeMismatch = errors.New("type mismatch")
	ErrInvalidPath  = errors.New("invalid path")
)
