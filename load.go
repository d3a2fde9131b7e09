// Package yamlconfig loads hierarchical configuration documents and wires them
// into Fx applications.
//
// The config package holds the document model and the dotted-path accessor;
// this package adds one-call loaders and the application bootstrap.
package yamlconfig

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/0xalexb/yamlconfig/config"
	filefetcher "github.com/0xalexb/yamlconfig/config/fetcher/file"
	readerfetcher "github.com/0xalexb/yamlconfig/config/fetcher/reader"
	jsoncparser "github.com/0xalexb/yamlconfig/config/parser/jsonc"
	yamlparser "github.com/0xalexb/yamlconfig/config/parser/yaml"
)

// ParserFor picks the parser matching the file extension of path:
// .json and .jsonc use the JSONC parser, anything else is YAML.
//
//nolint:ireturn // callers only need the config.Parser contract
func ParserFor(path string, opts ...yamlparser.Option) config.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		return jsoncparser.NewParser(opts...)
	default:
		return yamlparser.NewParser(opts...)
	}
}

// LoadFile reads and parses the configuration file at path.
// A missing or unreadable file fails with config.ErrNotFound, malformed content with config.ErrParse.
func LoadFile(path string, opts ...yamlparser.Option) (*config.Document, error) {
	fetcher, err := filefetcher.NewFetcher(path)()
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	doc, err := config.Load(ParserFor(path, opts...), fetcher)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	return doc, nil
}

// LoadReader reads r to the end and parses it as YAML.
func LoadReader(r io.Reader, opts ...yamlparser.Option) (*config.Document, error) {
	fetcher, err := readerfetcher.NewFetcher(r)()
	if err != nil {
		return nil, err
	}

	return config.Load(yamlparser.NewParser(opts...), fetcher)
}

// LoadBytes parses data as YAML.
func LoadBytes(data []byte, opts ...yamlparser.Option) (*config.Document, error) {
	return yamlparser.NewParser(opts...).Parse(data)
}
