package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// segment is one dotted component of a path key: a mapping key followed by
// zero or more sequence indices, e.g. names[1][0].
type segment struct {
	key     string
	indices []int
}

// parsePath splits a path key into segments. The empty path addresses the
// document root and yields no segments.
//
// A backslash makes the next character part of the key, so a key holding
// '.', '[', ']' or '\' is written a\.b, x\[0\] or a\\b.
func parsePath(path string) ([]segment, error) {
	if path == "" {
		return nil, nil
	}

	segments := make([]segment, 0, strings.Count(path, ".")+1)
	rest := path

	for {
		seg, tail, err := scanSegment(rest)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %w", ErrInvalidPath, path, err)
		}

		segments = append(segments, seg)

		if tail == "" {
			return segments, nil
		}

		rest = tail[1:]
	}
}

// ValidatePath reports whether path is well formed. Errors wrap ErrInvalidPath.
func ValidatePath(path string) error {
	_, err := parsePath(path)

	return err
}

// scanSegment reads one key and its indices from s. The unread tail is either
// empty or starts with the '.' separating the next segment.
func scanSegment(s string) (segment, string, error) {
	var key strings.Builder

	pos := 0

scan:
	for pos < len(s) {
		switch s[pos] {
		case '\\':
			if pos+1 == len(s) {
				return segment{}, "", errDanglingEscape
			}

			key.WriteByte(s[pos+1])
			pos += 2
		case '.', '[':
			break scan
		case ']':
			return segment{}, "", fmt.Errorf("unbalanced bracket in %q", s)
		default:
			key.WriteByte(s[pos])
			pos++
		}
	}

	if key.Len() == 0 {
		return segment{}, "", errEmptySegment
	}

	seg := segment{key: key.String(), indices: nil}

	for pos < len(s) && s[pos] == '[' {
		closing := strings.IndexByte(s[pos:], ']')
		if closing < 0 {
			return segment{}, "", fmt.Errorf("unbalanced bracket in %q", s)
		}

		digits := s[pos+1 : pos+closing]
		if !isDigits(digits) {
			return segment{}, "", fmt.Errorf("bad index %q", digits)
		}

		index, err := strconv.Atoi(digits)
		if err != nil {
			return segment{}, "", fmt.Errorf("bad index %q: %w", digits, err)
		}

		seg.indices = append(seg.indices, index)
		pos += closing + 1
	}

	if pos < len(s) && s[pos] != '.' {
		return segment{}, "", fmt.Errorf("unexpected %q after index", s[pos:])
	}

	return seg, s[pos:], nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}

	for i := range len(s) {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}

	return true
}

var (
	errEmptySegment   = errors.New("empty segment")
	errDanglingEscape = errors.New("trailing backslash")
)

//nolint:gochecknoglobals // immutable replacer
var keyEscaper = strings.NewReplacer(`\`, `\\`, ".", `\.`, "[", `\[`, "]", `\]`)

// EscapeKey quotes the path metacharacters of a single mapping key.
func EscapeKey(key string) string {
	return keyEscaper.Replace(key)
}

// joinKey appends a mapping key to a canonical path.
func joinKey(prefix, key string) string {
	if prefix == "" {
		return EscapeKey(key)
	}

	return prefix + "." + EscapeKey(key)
}

// joinIndex appends a sequence index to a canonical path.
func joinIndex(prefix string, index int) string {
	return prefix + "[" + strconv.Itoa(index) + "]"
}
