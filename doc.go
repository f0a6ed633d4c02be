// Package mindi is a runtime dependency-injection container.
//
// A Container maps identifiers to providers. An identifier is either an
// opaque string token or the canonical dotted path of a Go type, so a
// binding registered under a type can be looked up via the type, via
// [For], or via its path string interchangeably.
//
//	di := mindi.New()
//
//	err := di.Bind(NewDatabase) // binds *Database under its type path
//	err = di.Bind("service",
//		mindi.WithProvider(NewService),
//		mindi.WithParams(mindi.Inject("db", mindi.For[*Database]())),
//	)
//
// Resolution is lazy: nothing is constructed until a value is requested.
// Each binding is constructed at most once per container and cached for the
// container's lifetime.
//
//	svc, err := mindi.Resolve[*Service](di, "service")
//
// The resolver walks a binding's declared dependencies bottom-up and
// refuses to run any provider that participates in a dependency cycle,
// reporting the cycle as a readable trace such as "B -> C -> D -> B".
// [Container.Instantiate] with no arguments eagerly resolves every
// registered binding, which is useful as a startup self-check for an
// entire application graph.
//
// Providers that need caller-supplied arguments can be wrapped with
// [Container.Wire], which fills only the declared injection points and
// passes everything else through.
//
// The providers/ subpackages contain ready-made bindings for common
// infrastructure: SQL databases, structured logging and .env-based
// configuration.
package mindi
