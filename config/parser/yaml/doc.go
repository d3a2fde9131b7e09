// Package yaml provides a YAML parser implementation for the config package.
//
// This package uses github.com/goccy/go-yaml. Parse decodes with ordered
// mappings so a Document keeps the key order of its source; Decode looks the
// section up in the parsed Document and unmarshals it into a struct; Encode
// writes a Document back out.
//
// Usage:
//
//	parser := yaml.NewParser(yaml.WithEnvExpansion(nil))
//	doc, err := parser.Parse(data)
//	var api APIConfig
//	err = parser.Decode(data, &api, "services.api")
//
// Paths:
//   - Empty path "" -> unmarshal entire document
//   - Nested path "api.permissions[0]" -> first item of api.permissions
//   - Escaped key "labels.app\.kubernetes\.io/name" -> key "app.kubernetes.io/name"
//
// Documents whose aliases point back into their own anchor, or that nest or
// expand beyond the configured limits, fail with config.ErrParse.
package yaml
