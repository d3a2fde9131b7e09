package config

import (
	"errors"
	"fmt"
	"strings"
)

// Kind names the type a value is requested as, for callers that choose the
// type at run time (command line flags, query parameters).
type Kind string

// Supported kinds.
const (
	KindAny      Kind = "any"
	KindString   Kind = "string"
	KindInt      Kind = "int"
	KindFloat    Kind = "float"
	KindBool     Kind = "bool"
	KindDuration Kind = "duration"
	KindList     Kind = "list"
	KindMap      Kind = "map"
)

// ErrUnknownKind is returned by ParseKind for an unsupported kind name.
var ErrUnknownKind = errors.New("unknown kind")

// ParseKind parses a kind name case-insensitively. The empty string means KindAny.
func ParseKind(name string) (Kind, error) {
	kind := Kind(strings.ToLower(strings.TrimSpace(name)))

	switch kind {
	case "":
		return KindAny, nil
	case KindAny, KindString, KindInt, KindFloat, KindBool, KindDuration, KindList, KindMap:
		return kind, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, name)
	}
}

// As reads the value at path using the typed accessor for kind.
func (d *Document) As(path string, kind Kind) (any, error) {
	switch kind {
	case KindAny, "":
		return d.Get(path)
	case KindString:
		return d.String(path)
	case KindInt:
		return d.Int64(path)
	case KindFloat:
		return d.Float(path)
	case KindBool:
		return d.Bool(path)
	case KindDuration:
		return d.Duration(path)
	case KindList:
		return d.List(path)
	case KindMap:
		return d.Map(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, string(kind))
	}
}
