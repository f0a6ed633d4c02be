package mindi

import (
	"strings"

	"github.com/alecthomas/errors"
)

// Sentinel errors for classifying container failures with errors.Is.
//
// Errors returned by providers themselves are propagated unchanged and will
// not match any of these.
var (
	// ErrInvalidIdentifier indicates a value that is neither a string, a
	// reflect.Type, a Ref nor an Identifier was used where an identifier
	// was expected.
	ErrInvalidIdentifier = errors.New("invalid identifier")
	// ErrInvalidProvider indicates a bind with a value that cannot be
	// invoked as a provider.
	ErrInvalidProvider = errors.New("invalid provider")
	// ErrDuplicateBinding indicates a bind targeting an already-bound
	// identifier on a container that disallows rebinding.
	ErrDuplicateBinding = errors.New("duplicate binding")
	// ErrUnbound indicates resolution reached an identifier with no
	// registered binding.
	ErrUnbound = errors.New("unbound identifier")
	// ErrCycle indicates resolution revisited an identifier already on the
	// current resolution path.
	ErrCycle = errors.New("cyclic dependency")
)

// UnboundError reports resolution of an identifier that has no binding.
type UnboundError struct {
	Identifier Identifier
}

func (e *UnboundError) Error() string {
	return "no binding registered for " + e.Identifier.String()
}

func (e *UnboundError) Is(target error) bool { return target == ErrUnbound }

// CycleError reports a dependency cycle. Trace holds the identifiers on the
// cycle in resolution order, with the entry point repeated at the end, so
// the chain A -> B -> C -> D -> B produces the trace [B C D B].
type CycleError struct {
	Trace []Identifier
}

func (e *CycleError) Error() string {
	parts := make([]string, len(e.Trace))
	for i, id := range e.Trace {
		parts[i] = id.String()
	}
	return "Cycle detected: " + strings.Join(parts, " -> ")
}

func (e *CycleError) Is(target error) bool { return target == ErrCycle }
