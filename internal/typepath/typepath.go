// Package typepath canonicalises Go types into dotted path strings.
package typepath

import (
	"reflect"

	"github.com/alecthomas/errors"
)

// Canonical returns the canonical dotted path for t, eg. "database/sql.DB".
//
// Pointers are dereferenced so *T and T share a path. Predeclared types have
// no package path and canonicalise to their bare name ("int", "string").
// Unnamed types (maps, slices, funcs, anonymous structs) have no stable
// cross-module path and are rejected.
func Canonical(t reflect.Type) (string, error) {
	if t == nil {
		return "", errors.New("nil type has no canonical path")
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() == "" {
		return "", errors.Errorf("unnamed type %s has no canonical path", t)
	}
	if t.PkgPath() == "" {
		return t.Name(), nil
	}
	return t.PkgPath() + "." + t.Name(), nil
}
