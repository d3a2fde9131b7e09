package config

import (
	"fmt"
	"log/slog"
)

// Parser turns raw configuration data into a Document or decodes part of it
// into a Go value.
//
// The path parameter of Decode uses the same dotted syntax as Document lookups:
//   - "server" decodes config["server"]
//   - "services.names[1]" decodes the second item of config["services"]["names"]
//   - "" (empty path) decodes the entire document
//
// See config/parser/yaml for an implementation using goccy/go-yaml.
type Parser interface {
	Parse(data []byte) (*Document, error)
	Decode(data []byte, target any, path string) error
}

// DataFetcher defines an interface for reading configuration data.
type DataFetcher interface {
	Fetch() ([]byte, error)
}

// Validator defines an interface for validating configuration structures.
type Validator interface {
	Validate() error
}

// Defaulter defines an interface for setting default values in configuration structures.
type Defaulter interface {
	SetDefaults() (changed bool)
}

// Load reads data from the fetcher and parses it into a Document.
// A malformed source fails the whole load; no partial document is returned.
func Load(parser Parser, fetcher DataFetcher) (*Document, error) {
	data, err := fetcher.Fetch()
	if err != nil {
		return nil, fmt.Errorf("reading data error: %w", err)
	}

	doc, err := parser.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing error: %w", err)
	}

	slog.Debug("configuration loaded", slog.Int("keys", doc.Len()))

	return doc, nil
}

// Provider returns a function that reads, decodes, sets defaults, and validates configuration data.
func Provider[T any](target *T, path string) func(Parser, DataFetcher) (*T, error) {
	return func(parser Parser, dataSourcer DataFetcher) (*T, error) {
		data, err := dataSourcer.Fetch()
		if err != nil {
			return nil, fmt.Errorf("reading data error: %w", err)
		}

		err = parser.Decode(data, target, path)
		if err != nil {
			return nil, fmt.Errorf("parsing error: %w", err)
		}

		targetDefaulter, isDefaulter := any(target).(Defaulter)
		if isDefaulter {
			changed := targetDefaulter.SetDefaults()
			if changed {
				slog.Info("defaults applied", slog.String("path", path))
			}
		}

		targetValidatable, isValidatable := any(target).(Validator)
		if isValidatable {
			err := targetValidatable.Validate()
			if err != nil {
				return nil, fmt.Errorf("validating error: %w", err)
			}
		}

		return target, nil
	}
}
