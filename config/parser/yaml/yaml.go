package yaml

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/drone/envsubst"
	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/ast"
	astparser "github.com/goccy/go-yaml/parser"

	"github.com/0xalexb/yamlconfig/config"
)

const (
	// DefaultMaxDepth bounds the nesting of mappings and sequences.
	DefaultMaxDepth = 512
	// DefaultMaxNodes bounds the number of values after alias expansion.
	DefaultMaxNodes = 1_000_000
)

// ErrEmptyData is returned by Decode when the input data is empty.
var ErrEmptyData = errors.New("empty data")

// ErrLimitExceeded is returned when a document nests deeper or expands to more
// values than the parser allows. Self-referencing or exponentially aliased
// documents end up here instead of recursing without bound.
var ErrLimitExceeded = errors.New("document limit exceeded")

// ErrAliasCycle is returned when an alias refers to the anchor of a node that contains it.
var ErrAliasCycle = errors.New("alias refers to an enclosing anchor")

var errEmptyKey = errors.New("empty mapping key")

// Option configures a Parser.
type Option func(*Parser)

// WithEnvExpansion expands ${VAR} and ${VAR:-default} references inside string
// values using lookup. A nil lookup uses os.LookupEnv. Unset variables without
// a default expand to the empty string.
func WithEnvExpansion(lookup func(string) (string, bool)) Option {
	return func(p *Parser) {
		if lookup == nil {
			lookup = os.LookupEnv
		}

		p.lookupEnv = lookup
	}
}

// WithMaxDepth overrides DefaultMaxDepth. Non-positive values are ignored.
func WithMaxDepth(depth int) Option {
	return func(p *Parser) {
		if depth > 0 {
			p.maxDepth = depth
		}
	}
}

// WithMaxNodes overrides DefaultMaxNodes. Non-positive values are ignored.
func WithMaxNodes(nodes int) Option {
	return func(p *Parser) {
		if nodes > 0 {
			p.maxNodes = nodes
		}
	}
}

// Parser implements config.Parser interface for YAML data.
// It uses goccy/go-yaml ordered decoding for documents; Decode navigates the
// parsed Document and unmarshals the selected section.
type Parser struct {
	lookupEnv func(string) (string, bool)
	maxDepth  int
	maxNodes  int
}

// NewParser creates a new YAML parser instance.
func NewParser(opts ...Option) *Parser {
	parser := &Parser{
		lookupEnv: nil,
		maxDepth:  DefaultMaxDepth,
		maxNodes:  DefaultMaxNodes,
	}

	for _, apply := range opts {
		apply(parser)
	}

	return parser
}

// Parse parses YAML data into a Document. Empty input and a null root give an
// empty document; any other non-mapping root is a parse error.
// Only the first document of a multi-document stream is read.
func (p *Parser) Parse(data []byte) (*config.Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return config.NewDocument(nil), nil
	}

	var raw any

	err := yaml.UnmarshalWithOptions(data, &raw, yaml.UseOrderedMap())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrParse, err)
	}

	if raw == nil {
		return config.NewDocument(nil), nil
	}

	err = checkAliasCycles(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrParse, err)
	}

	conv := &converter{parser: p, nodes: 0}

	root, err := conv.value(raw, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrParse, err)
	}

	mapping, ok := root.(*config.Mapping)
	if !ok {
		return nil, fmt.Errorf("%w: document root must be a mapping, got %T", config.ErrParse, raw)
	}

	return config.NewDocument(mapping), nil
}

// Decode parses YAML data and unmarshals the section at path into the target.
// Empty path decodes the entire document. Errors carry the same categories as
// Document lookups: config.ErrParse, config.ErrInvalidPath, config.ErrKeyNotFound
// and config.ErrTypeMismatch when the section does not fit the target.
func (p *Parser) Decode(data []byte, target any, path string) error {
	if len(data) == 0 {
		return ErrEmptyData
	}

	err := config.ValidatePath(path)
	if err != nil {
		return err
	}

	doc, err := p.Parse(data)
	if err != nil {
		return err
	}

	value, err := doc.Get(path)
	if err != nil {
		return err
	}

	section, err := EncodeValue(value)
	if err != nil {
		return err
	}

	err = yaml.Unmarshal(section, target)
	if err != nil {
		return fmt.Errorf("%w: decoding %q into %T: %w", config.ErrTypeMismatch, path, target, err)
	}

	return nil
}

// Encode serializes a Document back to YAML, keeping key order and scalar types.
func Encode(doc *config.Document) ([]byte, error) {
	return EncodeValue(doc.Root())
}

// EncodeValue serializes a document value (scalar, sequence or *config.Mapping) to YAML.
func EncodeValue(value any) ([]byte, error) {
	out, err := yaml.MarshalWithOptions(toEncodable(value), yaml.Indent(2), yaml.IndentSequence(true))
	if err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}

	return out, nil
}

// checkAliasCycles rejects the first document when an alias points at the
// anchor of one of its own ancestors, e.g. "a: &a {b: *a}".
func checkAliasCycles(data []byte) error {
	file, err := astparser.ParseBytes(data, 0)
	if err != nil {
		return err
	}

	if len(file.Docs) == 0 {
		return nil
	}

	return aliasCycle(file.Docs[0].Body, nil)
}

func aliasCycle(node ast.Node, open []string) error {
	switch typed := node.(type) {
	case *ast.AnchorNode:
		return aliasCycle(typed.Value, append(open, nodeText(typed.Name)))
	case *ast.AliasNode:
		name := nodeText(typed.Value)
		if slices.Contains(open, name) {
			return fmt.Errorf("%w: *%s", ErrAliasCycle, name)
		}
	case *ast.MappingNode:
		for _, item := range typed.Values {
			err := aliasCycle(item, open)
			if err != nil {
				return err
			}
		}
	case *ast.MappingValueNode:
		err := aliasCycle(typed.Key, open)
		if err != nil {
			return err
		}

		return aliasCycle(typed.Value, open)
	case *ast.MappingKeyNode:
		return aliasCycle(typed.Value, open)
	case *ast.SequenceNode:
		for _, item := range typed.Values {
			err := aliasCycle(item, open)
			if err != nil {
				return err
			}
		}
	case *ast.TagNode:
		return aliasCycle(typed.Value, open)
	}

	return nil
}

func nodeText(node ast.Node) string {
	if node == nil {
		return ""
	}

	if tok := node.GetToken(); tok != nil {
		return tok.Value
	}

	return node.String()
}

// converter turns goccy's ordered decoding output into config values.
type converter struct {
	parser *Parser
	nodes  int
}

func (c *converter) value(raw any, depth int) (any, error) {
	c.nodes++
	if c.nodes > c.parser.maxNodes {
		return nil, fmt.Errorf("%w: more than %d values", ErrLimitExceeded, c.parser.maxNodes)
	}

	if depth > c.parser.maxDepth {
		return nil, fmt.Errorf("%w: nesting deeper than %d", ErrLimitExceeded, c.parser.maxDepth)
	}

	switch typed := raw.(type) {
	case nil, bool, float64:
		return typed, nil
	case string:
		return c.parser.expand(typed)
	case float32:
		return float64(typed), nil
	case int:
		return int64(typed), nil
	case int8:
		return int64(typed), nil
	case int16:
		return int64(typed), nil
	case int32:
		return int64(typed), nil
	case int64:
		return typed, nil
	case uint:
		return normalizeUint(uint64(typed)), nil
	case uint8:
		return int64(typed), nil
	case uint16:
		return int64(typed), nil
	case uint32:
		return int64(typed), nil
	case uint64:
		return normalizeUint(typed), nil
	case time.Time:
		return typed.Format(time.RFC3339Nano), nil
	case yaml.MapSlice:
		return c.mapSlice(typed, depth)
	case map[string]any:
		return c.unorderedMap(stringKeyed(typed), depth)
	case map[any]any:
		return c.unorderedMap(typed, depth)
	case []any:
		return c.sequence(typed, depth)
	default:
		return nil, fmt.Errorf("unsupported value of type %T", raw)
	}
}

func (c *converter) mapSlice(items yaml.MapSlice, depth int) (*config.Mapping, error) {
	entries := make([]config.Entry, 0, len(items))

	for _, item := range items {
		key, err := keyString(item.Key)
		if err != nil {
			return nil, err
		}

		value, err := c.value(item.Value, depth+1)
		if err != nil {
			return nil, err
		}

		entries = append(entries, config.Entry{Key: key, Value: value})
	}

	return config.NewMapping(entries), nil
}

// unorderedMap sorts keys so a document built from a Go map is still deterministic.
func (c *converter) unorderedMap(items map[any]any, depth int) (*config.Mapping, error) {
	slice := make(yaml.MapSlice, 0, len(items))
	for key, value := range items {
		slice = append(slice, yaml.MapItem{Key: key, Value: value})
	}

	sort.Slice(slice, func(i, j int) bool {
		return fmt.Sprint(slice[i].Key) < fmt.Sprint(slice[j].Key)
	})

	return c.mapSlice(slice, depth)
}

func (c *converter) sequence(items []any, depth int) ([]any, error) {
	out := make([]any, 0, len(items))

	for _, item := range items {
		value, err := c.value(item, depth+1)
		if err != nil {
			return nil, err
		}

		out = append(out, value)
	}

	return out, nil
}

func (p *Parser) expand(text string) (string, error) {
	if p.lookupEnv == nil || !strings.Contains(text, "${") {
		return text, nil
	}

	out, err := envsubst.Eval(text, func(name string) string {
		value, _ := p.lookupEnv(name)

		return value
	})
	if err != nil {
		return "", fmt.Errorf("expanding %q: %w", text, err)
	}

	return out, nil
}

func keyString(key any) (string, error) {
	switch typed := key.(type) {
	case nil:
		return "null", nil
	case string:
		if typed == "" {
			return "", errEmptyKey
		}

		return typed, nil
	case bool:
		return strconv.FormatBool(typed), nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(typed), nil
	case float32, float64:
		return fmt.Sprint(typed), nil
	default:
		return "", fmt.Errorf("unsupported mapping key of type %T", key)
	}
}

func normalizeUint(value uint64) any {
	if value <= math.MaxInt64 {
		return int64(value)
	}

	return value
}

func stringKeyed(items map[string]any) map[any]any {
	out := make(map[any]any, len(items))
	for key, value := range items {
		out[key] = value
	}

	return out
}

func toMapSlice(mapping *config.Mapping) yaml.MapSlice {
	entries := mapping.Entries()
	slice := make(yaml.MapSlice, 0, len(entries))

	for _, entry := range entries {
		slice = append(slice, yaml.MapItem{Key: entry.Key, Value: toEncodable(entry.Value)})
	}

	return slice
}

func toEncodable(value any) any {
	switch typed := value.(type) {
	case *config.Mapping:
		return toMapSlice(typed)
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = toEncodable(item)
		}

		return out
	default:
		return value
	}
}
