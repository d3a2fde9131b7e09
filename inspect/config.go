// Package inspect serves a read-only HTTP view of a configuration document and
// wires it into the Fx DI container.
package inspect

import (
	"errors"
	"fmt"

	"github.com/0xalexb/yamlconfig/config"
)

// DefaultAddress is the default address for the inspector.
const DefaultAddress = "127.0.0.1:8079"

// ErrEmptyAddress is returned when the address is empty.
var ErrEmptyAddress = errors.New("address must not be empty")

// ErrListenFailed is returned when the server fails to listen on the configured address.
var ErrListenFailed = errors.New("failed to listen")

// ErrShutdownFailed is returned when the server fails to shut down gracefully.
var ErrShutdownFailed = errors.New("shutdown failed")

// ErrEmptyName is returned when the inspector name is empty.
var ErrEmptyName = errors.New("inspector name must not be empty")

// ErrNilHandler is returned when a nil http.Handler is provided.
var ErrNilHandler = errors.New("handler must not be nil")

// ErrNilDocument is returned when no configuration document is given.
var ErrNilDocument = errors.New("document must not be nil")

// Config holds the configuration for the inspector listener.
type Config struct {
	Address string `yaml:"address"`
}

// ConfigFromDocument reads the inspector settings under section, e.g. "inspect.address".
// A missing section yields an empty Config.
func ConfigFromDocument(doc *config.Document, section string) (Config, error) {
	address, err := doc.StringOr(section+".address", "")
	if err != nil {
		return Config{}, fmt.Errorf("reading %s settings: %w", section, err)
	}

	return Config{Address: address}, nil
}

// SetDefaults sets default values for the Config.
func (c *Config) SetDefaults() bool {
	if c.Address == "" {
		c.Address = DefaultAddress

		return true
	}

	return false
}

// Validate validates the Config.
func (c *Config) Validate() error {
	if c.Address == "" {
		return ErrEmptyAddress
	}

	return nil
}
