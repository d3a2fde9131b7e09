package yamlconfig

import (
	"go.uber.org/fx"

	"github.com/0xalexb/yamlconfig/config"
	filefetcher "github.com/0xalexb/yamlconfig/config/fetcher/file"
	yamlparser "github.com/0xalexb/yamlconfig/config/parser/yaml"
)

// ModuleName is the Fx module name used by Module.
const ModuleName = "config"

// Module provides config.Parser, config.DataFetcher and the parsed *config.Document
// for the file at path. The parser is chosen by extension (see ParserFor).
//
//nolint:ireturn // fx.Option is the standard return type for Fx modules
func Module(path string, opts ...yamlparser.Option) fx.Option {
	return fx.Module(ModuleName,
		fx.Provide(
			func() config.Parser { return ParserFor(path, opts...) },
			fx.Annotate(
				filefetcher.NewFetcher(path),
				fx.As(new(config.DataFetcher)),
			),
			config.Load,
		),
	)
}

// Section provides *T decoded from the section at path of the configuration
// provided by Module, with defaults and validation applied (see config.Provider).
//
//nolint:ireturn // fx.Option is the standard return type for Fx modules
func Section[T any](path string) fx.Option {
	return fx.Provide(config.Provider(new(T), path))
}
