// Package logging builds the structured loggers used across the module on top of log/slog.
// Loggers write JSON by default, or logfmt-style text, and their settings can be read
// from a configuration document like any other section.
package logging
