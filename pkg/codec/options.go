package codec

import (
	"log/slog"

	"github.com/sandrolain/exprtree/pkg/metadata"
	"github.com/sandrolain/exprtree/pkg/resolver"
	"github.com/sandrolain/exprtree/pkg/typename"
)

// Options configures a Codec.
type Options struct {
	// Registry names types. Defaults to the process-wide registry, or to a
	// registry over Provider when one is given.
	Registry *typename.Registry
	// Resolver resolves member descriptors. When set, its registry is used
	// and Registry, Provider and CacheSize are ignored.
	Resolver *resolver.Resolver
	// Provider supplies type and member metadata. Defaults to
	// metadata.Builtin().
	Provider metadata.Provider
	// MaxDepth limits node nesting on both encode and decode.
	MaxDepth int
	// Indent pretty-prints encoded text.
	Indent bool
	// CacheSize sets the capacity of the member cache of a codec-owned
	// resolver. Defaults to 256.
	CacheSize int
	// Debug enables per-node debug logging.
	Debug bool
	// Logger for structured logging.
	Logger *slog.Logger
}

// Option configures a Codec.
type Option func(*Options)

// WithRegistry sets the type name registry.
func WithRegistry(r *typename.Registry) Option {
	return func(opts *Options) {
		opts.Registry = r
	}
}

// WithResolver sets the member resolver.
func WithResolver(r *resolver.Resolver) Option {
	return func(opts *Options) {
		opts.Resolver = r
	}
}

// WithProvider sets the metadata provider.
func WithProvider(p metadata.Provider) Option {
	return func(opts *Options) {
		opts.Provider = p
	}
}

// WithMaxDepth sets the maximum nesting depth.
func WithMaxDepth(depth int) Option {
	return func(opts *Options) {
		opts.MaxDepth = depth
	}
}

// WithIndent enables or disables pretty-printed output.
func WithIndent(enabled bool) Option {
	return func(opts *Options) {
		opts.Indent = enabled
	}
}

// WithCacheSize sets the member cache capacity.
func WithCacheSize(size int) Option {
	return func(opts *Options) {
		opts.CacheSize = size
	}
}

// WithDebug enables or disables debug logging.
func WithDebug(enabled bool) Option {
	return func(opts *Options) {
		opts.Debug = enabled
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(opts *Options) {
		opts.Logger = logger
	}
}
