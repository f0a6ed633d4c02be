package mindi

import (
	"maps"
	"reflect"

	"github.com/alecthomas/errors"
)

// Args is a resolved-argument mapping, keyed by parameter name.
type Args map[string]any

// Provider is a construction recipe: given a resolved argument set it
// produces an instance. The three concrete variants are [Func] for plain
// functions and constructors, [Value] for pre-built instances, and
// [Partial] for providers with pre-bound arguments.
type Provider interface {
	// Params returns the provider's declared parameters in order.
	Params() []Param
	// Provide constructs an instance from the resolved argument set.
	Provide(args Args) (any, error)
}

// Param describes one parameter of a provider or wired function: its name,
// whether the container should fill it, and an optional default. The
// ordered parameter list is the injection-point data the resolver works
// from; parameters that are not injected are never touched by the
// container.
type Param struct {
	name       string
	target     any
	id         Identifier
	injected   bool
	def        any
	hasDefault bool
}

// Arg declares a caller-supplied parameter.
func Arg(name string) Param {
	return Param{name: name}
}

// Default declares a caller-supplied parameter with a fallback value used
// when no argument is given.
func Default(name string, value any) Param {
	return Param{name: name, def: value, hasDefault: true}
}

// Inject declares a parameter to be resolved from the container. The target
// may be anything [IdentifierOf] accepts; an invalid target surfaces as
// ErrInvalidIdentifier when the parameter list is bound or wired.
func Inject(name string, target any) Param {
	return Param{name: name, target: target, injected: true}
}

// Name returns the parameter name.
func (p Param) Name() string { return p.name }

// Injected reports whether the parameter is filled from the container.
func (p Param) Injected() bool { return p.injected }

// Identifier returns the normalised injection target. It is the zero
// Identifier for non-injected parameters or before normalisation.
func (p Param) Identifier() Identifier { return p.id }

// normalizeParams resolves every injection target to an Identifier and
// rejects duplicate names. Called once at bind or wire time so identifier
// shape errors fail fast.
func normalizeParams(params []Param) ([]Param, error) {
	out := make([]Param, len(params))
	seen := make(map[string]bool, len(params))
	for i, p := range params {
		if p.name == "" {
			return nil, errors.Errorf("parameter %d has no name: %w", i, ErrInvalidProvider)
		}
		if seen[p.name] {
			return nil, errors.Errorf("duplicate parameter %q: %w", p.name, ErrInvalidProvider)
		}
		seen[p.name] = true
		if p.injected {
			id, err := IdentifierOf(p.target)
			if err != nil {
				return nil, errors.Errorf("parameter %q: %w", p.name, err)
			}
			p.id = id
		}
		out[i] = p
	}
	return out, nil
}

var errType = reflect.TypeFor[error]()

// funcProvider adapts a plain Go function or constructor. Go reflection
// does not expose parameter names, so the caller declares them with the
// ordered params list.
type funcProvider struct {
	fn     reflect.Value
	params []Param
}

// Func adapts fn into a Provider. fn must be a non-variadic function
// returning either T or (T, error), and params must describe every
// parameter in order.
func Func(fn any, params ...Param) (Provider, error) {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func {
		return nil, errors.Errorf("%T is not a function: %w", fn, ErrInvalidProvider)
	}
	t := v.Type()
	if t.IsVariadic() {
		return nil, errors.Errorf("variadic function %s: %w", t, ErrInvalidProvider)
	}
	switch t.NumOut() {
	case 1:
	case 2:
		if t.Out(1) != errType {
			return nil, errors.Errorf("second result of %s must be error: %w", t, ErrInvalidProvider)
		}
	default:
		return nil, errors.Errorf("function %s must return a value or a value and an error: %w", t, ErrInvalidProvider)
	}
	if len(params) != t.NumIn() {
		return nil, errors.Errorf("%d parameters declared for %d-parameter function %s: %w",
			len(params), t.NumIn(), t, ErrInvalidProvider)
	}
	normalized, err := normalizeParams(params)
	if err != nil {
		return nil, err
	}
	return &funcProvider{fn: v, params: normalized}, nil
}

func (f *funcProvider) Params() []Param { return f.params }

func (f *funcProvider) Provide(args Args) (any, error) {
	t := f.fn.Type()
	in := make([]reflect.Value, len(f.params))
	for i, p := range f.params {
		v, ok := args[p.name]
		if !ok {
			if !p.hasDefault {
				return nil, errors.Errorf("missing argument %q for %s", p.name, t)
			}
			v = p.def
		}
		rv, err := coerce(v, t.In(i))
		if err != nil {
			return nil, errors.Errorf("argument %q: %w", p.name, err)
		}
		in[i] = rv
	}
	out := f.fn.Call(in)
	if len(out) == 2 && !out[1].IsNil() {
		// User errors propagate unchanged so callers can classify them.
		return nil, out[1].Interface().(error)
	}
	return out[0].Interface(), nil
}

// coerce converts v for passing as a parameter of type t.
func coerce(v any, t reflect.Type) (reflect.Value, error) {
	if v == nil {
		return reflect.Zero(t), nil
	}
	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(t) {
		return rv, nil
	}
	if rv.Type().ConvertibleTo(t) {
		return rv.Convert(t), nil
	}
	return reflect.Value{}, errors.Errorf("cannot use %T as %s", v, t)
}

// valueProvider returns a fixed, pre-built instance.
type valueProvider struct {
	v any
}

// Value returns a Provider that yields v itself. This is how non-callable
// instances are registered.
func Value(v any) Provider { return valueProvider{v: v} }

func (p valueProvider) Params() []Param { return nil }

func (p valueProvider) Provide(_ Args) (any, error) { return p.v, nil }

// partialProvider wraps a provider with pre-bound arguments, the functional
// analog of a bound partial application.
type partialProvider struct {
	p      Provider
	static Args
}

// Partial wraps p so that static arguments are merged under every argument
// set it is invoked with. Arguments supplied at resolution time win over
// the pre-bound ones.
func Partial(p Provider, static Args) Provider {
	return &partialProvider{p: p, static: maps.Clone(static)}
}

func (p *partialProvider) Params() []Param { return p.p.Params() }

func (p *partialProvider) Provide(args Args) (any, error) {
	merged := maps.Clone(p.static)
	if merged == nil {
		merged = Args{}
	}
	maps.Copy(merged, args)
	return p.p.Provide(merged)
}
