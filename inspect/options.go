package inspect

// Option defines a function type for configuring the inspector.
type Option func(*Config)

// WithAddress sets the listen address of the inspector.
func WithAddress(addr string) Option {
	return func(cfg *Config) {
		cfg.Address = addr
	}
}
