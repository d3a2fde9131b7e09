// Package config holds the configuration document model and its loading interfaces.
//
// A configuration source is read by a DataFetcher, turned into an immutable
// Document by a Parser, and queried with typed accessors keyed by dotted paths:
//
//	doc, err := config.Load(yamlparser.NewParser(), fetcher)
//	port, err := doc.Int("server.port")
//	debug, err := doc.BoolOr("server.debug", false)
//	first, err := doc.String("services.names[1].first")
//
// Failures are reported with the sentinel errors ErrParse, ErrNotFound,
// ErrKeyNotFound, ErrTypeMismatch and ErrInvalidPath.
//
// # Struct binding
//
// Provider decodes the section at a path into a struct, then applies the
// optional Defaulter and Validator hooks:
//
//	provider := config.Provider(&APIConfig{}, "services.api")
//	cfg, err := provider(yamlparser.NewParser(), fetcher)
package config
