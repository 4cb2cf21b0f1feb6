package eval

import (
	"io"
	"log/slog"
	"maps"
)

// DefaultMaxSteps bounds evaluation when no limit is configured.
const DefaultMaxSteps = 100_000

// Options configures an Interpreter.
type Options struct {
	MaxSteps int
	Logger   *slog.Logger
	Foreign  map[string]ForeignFunc // keyed as described on Interpreter
	Modules  map[string]Value       // GlobalModule values by module name
}

// Option allows configuration of interpreter parameters.
type Option func(*Options)

// WithMaxSteps sets the step quota.
//
// Default: 100000 steps (DefaultMaxSteps)
// Use WithMaxSteps(10) for testing quota enforcement.
func WithMaxSteps(n int) Option {
	return func(o *Options) {
		o.MaxSteps = n
	}
}

// WithLogger sets the logger used for debug tracing. Logs are discarded by default.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// WithForeign binds external symbols. Later bindings override earlier ones.
func WithForeign(fns map[string]ForeignFunc) Option {
	return func(o *Options) {
		if o.Foreign == nil {
			o.Foreign = make(map[string]ForeignFunc, len(fns))
		}
		maps.Copy(o.Foreign, fns)
	}
}

// WithModules binds external modules referenced by GlobalModule nodes.
func WithModules(mods map[string]Value) Option {
	return func(o *Options) {
		if o.Modules == nil {
			o.Modules = make(map[string]Value, len(mods))
		}
		maps.Copy(o.Modules, mods)
	}
}

func newOptions(opts []Option) Options {
	o := Options{
		MaxSteps: DefaultMaxSteps,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
