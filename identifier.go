package mindi

import (
	"reflect"

	"github.com/alecthomas/errors"

	"github.com/djosix/mindi/internal/typepath"
)

// Kind discriminates how an Identifier was derived.
type Kind int

const (
	// KindOpaque is an identifier built from a caller-chosen string token.
	KindOpaque Kind = iota
	// KindTypePath is an identifier built from a Go type's canonical
	// dotted path.
	KindTypePath
)

func (k Kind) String() string {
	switch k {
	case KindOpaque:
		return "opaque"
	case KindTypePath:
		return "typepath"
	default:
		return "unknown"
	}
}

// Identifier names a binding. It is a pure value: two identifiers are equal
// iff their canonical forms are equal, regardless of whether they were
// derived from a string or from a type reference. Compare identifiers with
// [Identifier.Equal], which ignores the informational Kind.
type Identifier struct {
	kind  Kind
	value string
}

// Kind reports how the identifier was derived. It is informational only
// and never part of identity: a type reference and the string form of its
// canonical path name the same binding.
func (i Identifier) Kind() Kind { return i.kind }

// String returns the canonical form.
func (i Identifier) String() string { return i.value }

// IsZero reports whether the identifier is the zero value.
func (i Identifier) IsZero() bool { return i.value == "" }

// Equal reports whether the canonical forms match.
func (i Identifier) Equal(o Identifier) bool { return i.value == o.value }

// IdentifierOf derives an Identifier from raw, which may be:
//
//   - an Identifier (returned unchanged)
//   - a Ref (its target identifier)
//   - a string, used verbatim as an opaque token
//   - a reflect.Type, canonicalised to its dotted path
//
// Anything else fails with ErrInvalidIdentifier.
func IdentifierOf(raw any) (Identifier, error) {
	switch v := raw.(type) {
	case Identifier:
		return v, nil
	case Ref:
		return v.id, nil
	case string:
		if v == "" {
			return Identifier{}, errors.Errorf("empty string: %w", ErrInvalidIdentifier)
		}
		return Identifier{kind: KindOpaque, value: v}, nil
	case reflect.Type:
		path, err := typepath.Canonical(v)
		if err != nil {
			return Identifier{}, errors.Errorf("%s: %w", err, ErrInvalidIdentifier)
		}
		return Identifier{kind: KindTypePath, value: path}, nil
	default:
		return Identifier{}, errors.Errorf("cannot derive an identifier from %T: %w", raw, ErrInvalidIdentifier)
	}
}

// For returns the type-path Identifier for T. Pointers are dereferenced, so
// For[*Database]() and For[Database]() are the same identifier.
//
// For panics if T has no canonical path (unnamed types); use IdentifierOf
// with a reflect.Type to handle that case with an error.
func For[T any]() Identifier {
	id, err := IdentifierOf(reflect.TypeFor[T]())
	if err != nil {
		panic(err)
	}
	return id
}

// Ref is a deferred reference to a binding, returned by [Container.Use]. It
// carries only the target identifier; dereferencing it (via
// [Container.Resolve] or by the resolver during wiring) yields the cached
// or newly-constructed instance. Refs to the same identifier are
// interchangeable.
type Ref struct {
	id Identifier
}

// Identifier returns the identifier the reference points at.
func (r Ref) Identifier() Identifier { return r.id }

func (r Ref) String() string { return "use(" + r.id.String() + ")" }
