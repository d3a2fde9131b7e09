// Package jsonc parses JSON configuration that may carry comments and trailing
// commas. Comments are stripped with github.com/tidwall/jsonc and the result,
// being plain JSON and therefore valid YAML, goes through the YAML parser.
package jsonc

import (
	"github.com/tidwall/jsonc"

	"github.com/0xalexb/yamlconfig/config"
	yamlparser "github.com/0xalexb/yamlconfig/config/parser/yaml"
)

// Parser implements config.Parser for JSON with comments.
type Parser struct {
	yaml *yamlparser.Parser
}

// NewParser creates a JSONC parser. Options are those of the YAML parser.
func NewParser(opts ...yamlparser.Option) *Parser {
	return &Parser{yaml: yamlparser.NewParser(opts...)}
}

// Parse strips comments and parses the data into a Document.
func (p *Parser) Parse(data []byte) (*config.Document, error) {
	return p.yaml.Parse(jsonc.ToJSON(data))
}

// Decode strips comments and unmarshals the section at path into target.
func (p *Parser) Decode(data []byte, target any, path string) error {
	return p.yaml.Decode(jsonc.ToJSON(data), target, path)
}
