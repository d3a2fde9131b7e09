package inspect

import (
	"fmt"
	"log/slog"

	"go.uber.org/fx"

	"github.com/0xalexb/yamlconfig/config"
)

// NewModule creates an Fx module serving the *config.Document found in the container.
// When options are given they define the Config; otherwise the Config is read from
// the document section named after the module (e.g. "inspect.address"), falling back
// to DefaultAddress.
//
//nolint:ireturn // fx.Option is the standard return type for Fx modules
func NewModule(name string, opts ...Option) fx.Option {
	if name == "" {
		return fx.Error(ErrEmptyName)
	}

	var optionCfg Config

	for _, apply := range opts {
		apply(&optionCfg)
	}

	hasConfigFromOptions := len(opts) > 0

	return fx.Module(name, fx.Invoke(
		func(lifecycle fx.Lifecycle, shutdowner fx.Shutdowner, doc *config.Document) error {
			cfg := optionCfg

			if !hasConfigFromOptions {
				docCfg, err := ConfigFromDocument(doc, name)
				if err != nil {
					return err
				}

				cfg = docCfg
			}

			handler, err := NewHandler(doc)
			if err != nil {
				return fmt.Errorf("inspector %q: %w", name, err)
			}

			srv, err := NewServer(name, handler, cfg, func() {
				shutdownErr := shutdowner.Shutdown()
				if shutdownErr != nil {
					slog.Error("failed to trigger shutdown", "name", name, "error", shutdownErr)
				}
			})
			if err != nil {
				return err
			}

			lifecycle.Append(fx.Hook{
				OnStart: srv.Start,
				OnStop:  srv.Stop,
			})

			return nil
		},
	))
}
