package config

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"
)

// Document is a parsed configuration tree rooted at a mapping.
//
// A Document is immutable once built and safe for concurrent reads.
// Paths use dots between mapping keys and [n] for sequence indices,
// e.g. "services.names[1].first". The empty path addresses the root.
type Document struct {
	root *Mapping
}

// NewDocument wraps root in a Document. A nil root yields an empty document.
func NewDocument(root *Mapping) *Document {
	if root == nil {
		root = NewMapping(nil)
	}

	return &Document{root: root}
}

// Root returns the top-level mapping.
func (d *Document) Root() *Mapping {
	return d.root
}

// Len returns the number of top-level keys.
func (d *Document) Len() int {
	return d.root.Len()
}

// Keys returns the top-level keys in document order.
func (d *Document) Keys() []string {
	return d.root.Keys()
}

// Has reports whether path resolves to a value.
func (d *Document) Has(path string) bool {
	_, err := d.lookup(path)

	return err == nil
}

// Get returns the raw value at path.
func (d *Document) Get(path string) (any, error) {
	value, err := d.lookup(path)
	if err != nil {
		return nil, err
	}

	return cloneValue(value), nil
}

// String returns the scalar at path rendered as text. Numbers and booleans
// are formatted; null, sequences and mappings are a type mismatch.
func (d *Document) String(path string) (string, error) {
	value, err := d.lookup(path)
	if err != nil {
		return "", err
	}

	text, ok := scalarText(value)
	if !ok {
		return "", mismatch(path, "string", value)
	}

	return text, nil
}

// StringOr is String returning def when path is absent.
func (d *Document) StringOr(path, def string) (string, error) {
	value, err := d.String(path)

	return orDefault(value, err, def)
}

// Int returns the integer at path.
func (d *Document) Int(path string) (int, error) {
	value, err := d.Int64(path)
	if err != nil {
		return 0, err
	}

	if value < math.MinInt || value > math.MaxInt {
		return 0, fmt.Errorf("%w: %s: %d overflows int", ErrTypeMismatch, path, value)
	}

	return int(value), nil
}

// IntOr is Int returning def when path is absent.
func (d *Document) IntOr(path string, def int) (int, error) {
	value, err := d.Int(path)

	return orDefault(value, err, def)
}

// Int64 returns the integer at path.
func (d *Document) Int64(path string) (int64, error) {
	value, err := d.lookup(path)
	if err != nil {
		return 0, err
	}

	switch typed := value.(type) {
	case int64:
		return typed, nil
	case uint64:
		if typed > math.MaxInt64 {
			return 0, fmt.Errorf("%w: %s: %d overflows int64", ErrTypeMismatch, path, typed)
		}

		return int64(typed), nil
	default:
		return 0, mismatch(path, "int", value)
	}
}

// Float returns the number at path. Integers are widened.
func (d *Document) Float(path string) (float64, error) {
	value, err := d.lookup(path)
	if err != nil {
		return 0, err
	}

	switch typed := value.(type) {
	case float64:
		return typed, nil
	case int64:
		return float64(typed), nil
	case uint64:
		return float64(typed), nil
	default:
		return 0, mismatch(path, "float", value)
	}
}

// FloatOr is Float returning def when path is absent.
func (d *Document) FloatOr(path string, def float64) (float64, error) {
	value, err := d.Float(path)

	return orDefault(value, err, def)
}

// Bool returns the boolean at path.
func (d *Document) Bool(path string) (bool, error) {
	value, err := d.lookup(path)
	if err != nil {
		return false, err
	}

	typed, ok := value.(bool)
	if !ok {
		return false, mismatch(path, "bool", value)
	}

	return typed, nil
}

// BoolOr is Bool returning def when path is absent.
func (d *Document) BoolOr(path string, def bool) (bool, error) {
	value, err := d.Bool(path)

	return orDefault(value, err, def)
}

// Duration parses the string at path with time.ParseDuration.
func (d *Document) Duration(path string) (time.Duration, error) {
	value, err := d.lookup(path)
	if err != nil {
		return 0, err
	}

	text, ok := value.(string)
	if !ok {
		return 0, mismatch(path, "duration", value)
	}

	duration, err := time.ParseDuration(text)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrTypeMismatch, path, err)
	}

	return duration, nil
}

// DurationOr is Duration returning def when path is absent.
func (d *Document) DurationOr(path string, def time.Duration) (time.Duration, error) {
	value, err := d.Duration(path)

	return orDefault(value, err, def)
}

// List returns a copy of the sequence at path.
func (d *Document) List(path string) ([]any, error) {
	value, err := d.lookup(path)
	if err != nil {
		return nil, err
	}

	seq, ok := value.([]any)
	if !ok {
		return nil, mismatch(path, "sequence", value)
	}

	list, _ := cloneValue(seq).([]any)

	return list, nil
}

// ListOr is List returning def when path is absent.
func (d *Document) ListOr(path string, def []any) ([]any, error) {
	value, err := d.List(path)

	return orDefault(value, err, def)
}

// Strings returns the sequence at path with every item rendered as text.
func (d *Document) Strings(path string) ([]string, error) {
	list, err := d.List(path)
	if err != nil {
		return nil, err
	}

	out := make([]string, len(list))

	for i, item := range list {
		text, ok := scalarText(item)
		if !ok {
			return nil, mismatch(joinIndex(path, i), "string", item)
		}

		out[i] = text
	}

	return out, nil
}

// ListOf returns the sequence at path with every item asserted to T.
// Integers are stored as int64 and floats as float64.
func ListOf[T any](doc *Document, path string) ([]T, error) {
	list, err := doc.List(path)
	if err != nil {
		return nil, err
	}

	out := make([]T, len(list))

	for i, item := range list {
		typed, ok := item.(T)
		if !ok {
			return nil, fmt.Errorf("%w: %s: want %T, got %s",
				ErrTypeMismatch, joinIndex(path, i), *new(T), kindOf(item))
		}

		out[i] = typed
	}

	return out, nil
}

// Map returns the mapping at path.
func (d *Document) Map(path string) (*Mapping, error) {
	value, err := d.lookup(path)
	if err != nil {
		return nil, err
	}

	mapping, ok := value.(*Mapping)
	if !ok {
		return nil, mismatch(path, "mapping", value)
	}

	return mapping, nil
}

// Sub returns the mapping at path as a Document of its own.
func (d *Document) Sub(path string) (*Document, error) {
	mapping, err := d.Map(path)
	if err != nil {
		return nil, err
	}

	return NewDocument(mapping), nil
}

// WalkFunc is called by Walk for every leaf with its canonical path.
// Returning an error stops the walk.
type WalkFunc func(path string, value any) error

// Walk visits every leaf in document order. Leaves are scalars and empty
// sequences or mappings. Keys holding '.', '[', ']' or '\' are escaped in the
// path (see EscapeKey), so every visited path reads back with Get.
func (d *Document) Walk(walkFn WalkFunc) error {
	for _, entry := range d.root.Entries() {
		err := walkValue(joinKey("", entry.Key), entry.Value, walkFn)
		if err != nil {
			return err
		}
	}

	return nil
}

func walkValue(path string, value any, walkFn WalkFunc) error {
	switch typed := value.(type) {
	case *Mapping:
		if typed.Len() == 0 {
			return walkFn(path, typed)
		}

		for _, entry := range typed.Entries() {
			err := walkValue(joinKey(path, entry.Key), entry.Value, walkFn)
			if err != nil {
				return err
			}
		}
	case []any:
		if len(typed) == 0 {
			return walkFn(path, typed)
		}

		for i, item := range typed {
			err := walkValue(joinIndex(path, i), item, walkFn)
			if err != nil {
				return err
			}
		}
	default:
		return walkFn(path, value)
	}

	return nil
}

// lookup navigates path without copying the result.
func (d *Document) lookup(path string) (any, error) {
	segments, err := parsePath(path)
	if err != nil {
		return nil, err
	}

	var node any = d.root

	walked := ""

	for _, seg := range segments {
		mapping, ok := node.(*Mapping)
		if !ok {
			return nil, through(path, walked, node)
		}

		value, ok := mapping.raw(seg.key)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, path)
		}

		node = value
		walked = joinKey(walked, seg.key)

		for _, index := range seg.indices {
			seq, ok := node.([]any)
			if !ok {
				return nil, through(path, walked, node)
			}

			if index >= len(seq) {
				return nil, fmt.Errorf("%w: %s: index %d out of range [0:%d)", ErrKeyNotFound, path, index, len(seq))
			}

			node = seq[index]
			walked = joinIndex(walked, index)
		}
	}

	return node, nil
}

func through(path, walked string, node any) error {
	return fmt.Errorf("%w: %s: %s is %s", ErrTypeMismatch, path, walked, kindOf(node))
}

func mismatch(path, want string, got any) error {
	return fmt.Errorf("%w: %s: want %s, got %s", ErrTypeMismatch, path, want, kindOf(got))
}

func scalarText(value any) (string, bool) {
	switch typed := value.(type) {
	case string:
		return typed, true
	case bool:
		return strconv.FormatBool(typed), true
	case int64:
		return strconv.FormatInt(typed, 10), true
	case uint64:
		return strconv.FormatUint(typed, 10), true
	case float64:
		return strconv.FormatFloat(typed, 'g', -1, 64), true
	default:
		return "", false
	}
}

// orDefault turns an ErrKeyNotFound result into def.
func orDefault[T any](value T, err error, def T) (T, error) {
	if errors.Is(err, ErrKeyNotFound) {
		return def, nil
	}

	return value, err
}
