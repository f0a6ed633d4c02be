package mindi

import (
	"maps"

	"github.com/alecthomas/errors"
)

// Wired wraps a function so that calling it fills its declared injection
// points from the container and passes every other argument through
// untouched. The injection points are recorded as data when Wire is called;
// nothing is captured implicitly before that, and nothing is resolved until
// the wrapper is actually invoked.
//
// Wired also implements [Provider], so a wired function can itself be
// bound:
//
//	wired, _ := di.Wire(NewService, mindi.Inject("db", mindi.For[*Database]()))
//	err := di.Bind("service", mindi.WithProvider(wired))
type Wired struct {
	c *Container
	p *funcProvider
}

// Wire records fn's ordered parameter list and returns the wrapper. params
// must describe every parameter of fn, in order. Wire fails with
// ErrInvalidProvider for an unusable function and ErrInvalidIdentifier for
// an unusable injection target.
func (c *Container) Wire(fn any, params ...Param) (*Wired, error) {
	provider, err := Func(fn, params...)
	if err != nil {
		return nil, err
	}
	return &Wired{c: c, p: provider.(*funcProvider)}, nil
}

// Params returns the recorded parameter list.
func (w *Wired) Params() []Param { return w.p.params }

// Call invokes the wrapped function. Positional arguments bind to
// parameters in declaration order; any injected parameter the caller did
// not supply is resolved from the container, and remaining parameters fall
// back to their defaults.
func (w *Wired) Call(args ...any) (any, error) {
	if len(args) > len(w.p.params) {
		return nil, errors.Errorf("too many arguments: got %d, function takes %d", len(args), len(w.p.params))
	}
	named := make(Args, len(args))
	for i, arg := range args {
		named[w.p.params[i].name] = arg
	}
	return w.CallNamed(named)
}

// CallNamed is Call with arguments supplied by parameter name.
func (w *Wired) CallNamed(args Args) (any, error) {
	merged := maps.Clone(args)
	if merged == nil {
		merged = Args{}
	}
	for _, p := range w.p.params {
		if !p.injected {
			continue
		}
		// A caller-supplied value suppresses injection.
		if _, supplied := merged[p.name]; supplied {
			continue
		}
		v, err := w.c.resolve(p.id, nil)
		if err != nil {
			return nil, err
		}
		merged[p.name] = v
	}
	return w.p.Provide(merged)
}

// Provide implements [Provider] by delegating to CallNamed.
func (w *Wired) Provide(args Args) (any, error) { return w.CallNamed(args) }
