package mindi

import (
	"maps"
	"sync"

	"github.com/alecthomas/errors"
)

type bindingState int

const (
	stateUnresolved bindingState = iota
	stateResolving
	stateResolved
)

// binding pairs an identifier with its provider, captured static arguments
// and cache state. A binding reaches stateResolved only after a fully
// successful construction; failed constructions revert to stateUnresolved
// so a later attempt can succeed.
type binding struct {
	id       Identifier
	provider Provider
	params   []Param
	static   Args

	// mu serialises construction so the provider runs at most once even
	// under concurrent resolution of the same identifier.
	mu       sync.Mutex
	state    bindingState
	instance any
}

// registry is the passive store of bindings for one container. It never
// runs providers. Bindings are keyed by the identifier's canonical form so
// the type-reference and string spellings of an identifier share one
// binding.
type registry struct {
	mu       sync.Mutex
	bindings map[string]*binding
	order    []Identifier
}

func newRegistry() *registry {
	return &registry{bindings: make(map[string]*binding)}
}

// register inserts b, or replaces an existing binding for the same
// identifier when replace is true. Replacement discards the old record
// including any cached instance; dependents that already captured the old
// instance keep it (rebinding is not retroactive).
func (r *registry) register(b *binding, replace bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.bindings[b.id.String()]; exists {
		if !replace {
			return errors.Errorf("%s is already bound: %w", b.id, ErrDuplicateBinding)
		}
	} else {
		r.order = append(r.order, b.id)
	}
	r.bindings[b.id.String()] = b
	return nil
}

// lookup is a pure read.
func (r *registry) lookup(id Identifier) (*binding, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bindings[id.String()]
	return b, ok
}

// all returns the registered identifiers in registration order.
func (r *registry) all() []Identifier {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Identifier, len(r.order))
	copy(out, r.order)
	return out
}

// newBinding validates and assembles a binding record.
func newBinding(id Identifier, provider Provider, params []Param, static Args) (*binding, error) {
	if provider == nil {
		return nil, errors.Errorf("%s has no provider: %w", id, ErrInvalidProvider)
	}
	normalized, err := normalizeParams(params)
	if err != nil {
		return nil, err
	}
	return &binding{
		id:       id,
		provider: provider,
		params:   normalized,
		static:   maps.Clone(static),
	}, nil
}
