package yamlconfig

import (
	"go.uber.org/fx"

	yamlparser "github.com/0xalexb/yamlconfig/config/parser/yaml"
	"github.com/0xalexb/yamlconfig/inspect"
)

// Options holds configuration settings for the application.
type Options struct {
	Modules   []fx.Option
	LogLevel  string
	LogFormat string
}

// Option defines a function type for applying configuration options.
type Option func(*Options)

// WithModules adds Fx modules to the application.
func WithModules(modules ...fx.Option) Option {
	return func(opts *Options) {
		opts.Modules = append(opts.Modules, modules...)
	}
}

// WithConfigFile loads the configuration file at path into the container.
// See Module for what is provided.
func WithConfigFile(path string, parserOpts ...yamlparser.Option) Option {
	return func(opts *Options) {
		opts.Modules = append(opts.Modules, Module(path, parserOpts...))
	}
}

// WithInspector adds a named read-only HTTP view of the loaded configuration.
// It requires a *config.Document in the container, usually from WithConfigFile.
// Without options the listen address is read from the "<name>.address" key of the document.
func WithInspector(name string, opts ...inspect.Option) Option {
	return func(o *Options) {
		o.Modules = append(o.Modules, inspect.NewModule(name, opts...))
	}
}

// WithLogLevel sets the log level for the application.
// Valid levels are: "debug", "info", "warn", "error".
// If not set or invalid, defaults to "info".
func WithLogLevel(level string) Option {
	return func(opts *Options) {
		opts.LogLevel = level
	}
}

// WithLogFormat selects the log handler, "json" (default) or "text".
func WithLogFormat(format string) Option {
	return func(opts *Options) {
		opts.LogFormat = format
	}
}
