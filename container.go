package mindi

import (
	"log/slog"
	"reflect"

	"github.com/alecthomas/errors"
)

// Container is the public entry point: a binding registry plus the resolver
// that drives lazy, at-most-once construction. Create one with [New]; all
// bindings and cached instances die with it.
//
// The container is a construction-time graph builder, not a request-time
// hot path. All operations are synchronous.
type Container struct {
	registry *registry
	rebind   bool
	log      *slog.Logger
}

// Option configures a Container at construction.
type Option func(*Container)

// WithRebind sets whether Bind may replace an existing binding. The policy
// is fixed for the container's lifetime. Rebinding discards the old cached
// instance, but dependents resolved before the rebind keep the value they
// captured.
func WithRebind(allow bool) Option {
	return func(c *Container) { c.rebind = allow }
}

// WithLogger sets a logger for debug-level resolution events. The default
// discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Container) { c.log = logger }
}

// New creates an empty container.
func New(options ...Option) *Container {
	c := &Container{
		registry: newRegistry(),
		log:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

type bindConfig struct {
	provider any
	params   []Param
	static   Args
}

// BindOption configures a single Bind call.
type BindOption func(*bindConfig)

// WithProvider supplies the construction recipe for a binding: a function,
// or any [Provider] such as [Value] or [Partial]. Without it the bind
// target itself must be a function.
func WithProvider(provider any) BindOption {
	return func(cfg *bindConfig) { cfg.provider = provider }
}

// WithParams declares the provider's ordered parameter list: which
// parameters are injected from the container, which are caller-supplied,
// and their defaults.
func WithParams(params ...Param) BindOption {
	return func(cfg *bindConfig) { cfg.params = params }
}

// WithArgs captures static arguments merged into every invocation of the
// provider. Resolved dependencies win over static arguments of the same
// name.
func WithArgs(static Args) BindOption {
	return func(cfg *bindConfig) {
		if cfg.static == nil {
			cfg.static = Args{}
		}
		for k, v := range static {
			cfg.static[k] = v
		}
	}
}

// WithArg captures a single static argument.
func WithArg(name string, value any) BindOption {
	return func(cfg *bindConfig) {
		if cfg.static == nil {
			cfg.static = Args{}
		}
		cfg.static[name] = value
	}
}

// Bind registers a provider under an identifier.
//
// With [WithProvider], target names the binding and may be a string, a
// reflect.Type, a Ref or an Identifier. Without it, target must itself be a
// function, which is bound under the type path of its first result:
//
//	err := di.Bind(NewDatabase) // binds *Database
//
// Bind fails with ErrInvalidIdentifier for an unusable target,
// ErrInvalidProvider for an unusable provider, and ErrDuplicateBinding when
// the identifier is already bound and rebinding is disallowed.
func (c *Container) Bind(target any, options ...BindOption) error {
	cfg := bindConfig{}
	for _, opt := range options {
		opt(&cfg)
	}

	var (
		id       Identifier
		provider Provider
		err      error
	)
	if cfg.provider == nil {
		id, provider, err = c.selfBinding(target, cfg.params)
	} else {
		id, err = IdentifierOf(target)
		if err == nil {
			provider, err = asProvider(cfg.provider, cfg.params)
		}
	}
	if err != nil {
		return err
	}

	b, err := newBinding(id, provider, provider.Params(), cfg.static)
	if err != nil {
		return err
	}
	if err := c.registry.register(b, c.rebind); err != nil {
		return err
	}
	c.log.Debug("bound", "identifier", id.String(), "rebindable", c.rebind)
	return nil
}

// selfBinding handles the form where the target is both identifier source
// and provider: a function bound under its first result type.
func (c *Container) selfBinding(target any, params []Param) (Identifier, Provider, error) {
	t := reflect.TypeOf(target)
	if t == nil || t.Kind() != reflect.Func {
		// Report identifier-shaped targets as missing a provider, anything
		// else as an invalid identifier.
		if _, err := IdentifierOf(target); err != nil {
			return Identifier{}, nil, err
		}
		return Identifier{}, nil, errors.Errorf("%v is not invocable and no provider was given: %w", target, ErrInvalidProvider)
	}
	if t.NumOut() < 1 {
		return Identifier{}, nil, errors.Errorf("function %s returns nothing to bind: %w", t, ErrInvalidProvider)
	}
	id, err := IdentifierOf(t.Out(0))
	if err != nil {
		return Identifier{}, nil, err
	}
	provider, err := Func(target, params...)
	if err != nil {
		return Identifier{}, nil, err
	}
	return id, provider, nil
}

// asProvider normalises the WithProvider value.
func asProvider(raw any, params []Param) (Provider, error) {
	switch p := raw.(type) {
	case Provider:
		return p, nil
	default:
		t := reflect.TypeOf(raw)
		if t == nil || t.Kind() != reflect.Func {
			return nil, errors.Errorf("%T is neither a function nor a Provider: %w", raw, ErrInvalidProvider)
		}
		return Func(raw, params...)
	}
}

// Use returns a deferred reference to target. It never touches resolution
// state: a missing binding is only reported when the reference is actually
// resolved. Use fails only on an invalid identifier shape.
func (c *Container) Use(target any) (Ref, error) {
	id, err := IdentifierOf(target)
	if err != nil {
		return Ref{}, err
	}
	return Ref{id: id}, nil
}

// MustUse is Use but panics on an invalid identifier shape, for use in
// composite literals and wiring declarations.
func (c *Container) MustUse(target any) Ref {
	ref, err := c.Use(target)
	if err != nil {
		panic(err)
	}
	return ref
}

// Bound reports whether target has a registered binding.
func (c *Container) Bound(target any) bool {
	id, err := IdentifierOf(target)
	if err != nil {
		return false
	}
	_, ok := c.registry.lookup(id)
	return ok
}

// Resolve dereferences target to a concrete instance, constructing it and
// anything it depends on as needed. Repeated resolutions of the same
// identifier return the identical cached instance.
func (c *Container) Resolve(target any) (any, error) {
	id, err := IdentifierOf(target)
	if err != nil {
		return nil, err
	}
	return c.resolve(id, nil)
}

// Resolve is the typed form of [Container.Resolve]. With no target the
// binding is looked up under T's own type path:
//
//	db, err := mindi.Resolve[*Database](di)
//	cfg, err := mindi.Resolve[Config](di, "dev_config")
func Resolve[T any](c *Container, target ...any) (T, error) {
	var zero T
	var raw any
	switch len(target) {
	case 0:
		raw = reflect.TypeFor[T]()
	case 1:
		raw = target[0]
	default:
		return zero, errors.Errorf("at most one resolve target may be given, got %d", len(target))
	}
	v, err := c.Resolve(raw)
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, errors.Errorf("%v resolved to %T, not %s", raw, v, reflect.TypeFor[T]())
	}
	return typed, nil
}

// Instantiate eagerly resolves the transitive closure of each target, or of
// every registered binding when no target is given. It exists to validate a
// whole graph up front: missing bindings and cycles surface here before
// anything depends on them at runtime.
func (c *Container) Instantiate(targets ...any) error {
	if len(targets) == 0 {
		for _, id := range c.registry.all() {
			if _, err := c.resolve(id, nil); err != nil {
				return err
			}
		}
		return nil
	}
	for _, target := range targets {
		id, err := IdentifierOf(target)
		if err != nil {
			return err
		}
		if _, err := c.resolve(id, nil); err != nil {
			return err
		}
	}
	return nil
}
