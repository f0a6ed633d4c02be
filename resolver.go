package mindi

import (
	"maps"
	"slices"
)

// resolve turns id into a fully-constructed instance, recursively
// satisfying declared dependencies bottom-up. path is the ordered list of
// identifiers currently being resolved on this call chain; it is per-call
// state so independent resolutions never observe each other's in-progress
// chains as cycles.
func (c *Container) resolve(id Identifier, path []Identifier) (any, error) {
	b, ok := c.registry.lookup(id)
	if !ok {
		return nil, &UnboundError{Identifier: id}
	}

	// Cycles must be reported before any provider on the cycle runs, and
	// before taking the construction lock, which an ancestor frame on this
	// chain already holds.
	if i := slices.IndexFunc(path, id.Equal); i >= 0 {
		cycle := &CycleError{Trace: append(slices.Clone(path[i:]), id)}
		c.log.Debug("dependency cycle", "trace", cycle.Error())
		return nil, cycle
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == stateResolved {
		c.log.Debug("resolve cache hit", "identifier", id.String())
		return b.instance, nil
	}

	b.state = stateResolving
	path = append(path, id)

	args := maps.Clone(b.static)
	if args == nil {
		args = Args{}
	}
	for _, p := range b.params {
		if !p.injected {
			// Pass-through parameters are never resolved; a default only
			// fills in when no static argument was captured.
			if _, supplied := args[p.name]; !supplied && p.hasDefault {
				args[p.name] = p.def
			}
			continue
		}
		dep, err := c.resolve(p.id, path)
		if err != nil {
			b.state = stateUnresolved
			return nil, err
		}
		// Resolved dependencies win over static arguments of the same name.
		args[p.name] = dep
	}

	instance, err := b.provider.Provide(args)
	if err != nil {
		// Propagated unchanged; the binding reverts so a retry is possible.
		b.state = stateUnresolved
		return nil, err
	}

	b.instance = instance
	b.state = stateResolved
	c.log.Debug("resolved", "identifier", id.String())
	return instance, nil
}
