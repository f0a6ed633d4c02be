package mindi_test

import (
	"log/slog"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/alecthomas/errors"

	"github.com/djosix/mindi"
)

type Database struct {
	constructed int
}

func NewDatabase() *Database { return &Database{} }

type Service struct {
	DB *Database
}

func NewService(db *Database) *Service { return &Service{DB: db} }

func TestBindFunctionUnderItsResultType(t *testing.T) {
	di := mindi.New()
	assert.NoError(t, di.Bind(NewDatabase))
	assert.True(t, di.Bound(mindi.For[*Database]()))

	db, err := mindi.Resolve[*Database](di)
	assert.NoError(t, err)
	assert.NotZero(t, db)
}

func TestSingletonProperty(t *testing.T) {
	di := mindi.New()
	assert.NoError(t, di.Bind(NewDatabase))

	first, err := mindi.Resolve[*Database](di)
	assert.NoError(t, err)
	second, err := mindi.Resolve[*Database](di)
	assert.NoError(t, err)
	assert.True(t, first == second)
}

func TestNoDuplicateConstruction(t *testing.T) {
	di := mindi.New()
	var constructions int
	assert.NoError(t, di.Bind(mindi.For[*Database](), mindi.WithProvider(func() *Database {
		constructions++
		return NewDatabase()
	})))
	assert.NoError(t, di.Bind("serviceY",
		mindi.WithProvider(NewService),
		mindi.WithParams(mindi.Inject("db", mindi.For[*Database]())),
	))
	assert.NoError(t, di.Bind("serviceZ",
		mindi.WithProvider(NewService),
		mindi.WithParams(mindi.Inject("db", mindi.For[*Database]())),
	))

	y, err := mindi.Resolve[*Service](di, "serviceY")
	assert.NoError(t, err)
	z, err := mindi.Resolve[*Service](di, "serviceZ")
	assert.NoError(t, err)
	assert.Equal(t, 1, constructions)
	assert.True(t, y.DB == z.DB)
}

func TestConstructorInjection(t *testing.T) {
	di := mindi.New()
	assert.NoError(t, di.Bind(NewDatabase))
	assert.NoError(t, di.Bind(NewService,
		mindi.WithParams(mindi.Inject("db", mindi.For[*Database]())),
	))

	svc, err := mindi.Resolve[*Service](di)
	assert.NoError(t, err)
	db, err := mindi.Resolve[*Database](di)
	assert.NoError(t, err)
	assert.True(t, svc.DB == db)
}

type config struct {
	Env string
}

func newConfig(env string) config { return config{Env: env} }

func TestStaticArguments(t *testing.T) {
	di := mindi.New()
	assert.NoError(t, di.Bind("dev_config",
		mindi.WithProvider(newConfig),
		mindi.WithParams(mindi.Arg("env")),
		mindi.WithArg("env", "dev"),
	))
	assert.NoError(t, di.Bind("prod_config",
		mindi.WithProvider(newConfig),
		mindi.WithParams(mindi.Arg("env")),
		mindi.WithArg("env", "prod"),
	))

	dev, err := mindi.Resolve[config](di, "dev_config")
	assert.NoError(t, err)
	prod, err := mindi.Resolve[config](di, "prod_config")
	assert.NoError(t, err)
	assert.Equal(t, "dev", dev.Env)
	assert.Equal(t, "prod", prod.Env)
}

func TestStaticAndInjectedArgumentMerge(t *testing.T) {
	di := mindi.New()
	assert.NoError(t, di.Bind(NewDatabase))
	type app struct {
		env string
		db  *Database
	}
	assert.NoError(t, di.Bind("app",
		mindi.WithProvider(func(env string, db *Database) *app { return &app{env: env, db: db} }),
		mindi.WithParams(mindi.Arg("env"), mindi.Inject("db", mindi.For[*Database]())),
		mindi.WithArgs(mindi.Args{"env": "dev"}),
	))

	a, err := mindi.Resolve[*app](di, "app")
	assert.NoError(t, err)
	assert.Equal(t, "dev", a.env)
	db, err := mindi.Resolve[*Database](di)
	assert.NoError(t, err)
	assert.True(t, a.db == db)
}

func TestResolvedDependencyWinsOverStaticArgument(t *testing.T) {
	di := mindi.New()
	real := NewDatabase()
	assert.NoError(t, di.Bind(mindi.For[*Database](), mindi.WithProvider(mindi.Value(real))))
	// A static argument colliding with an injected parameter must lose;
	// the stale value here would not even coerce to *Database.
	assert.NoError(t, di.Bind("service",
		mindi.WithProvider(NewService),
		mindi.WithParams(mindi.Inject("db", mindi.For[*Database]())),
		mindi.WithArg("db", "stale"),
	))

	svc, err := mindi.Resolve[*Service](di, "service")
	assert.NoError(t, err)
	assert.True(t, svc.DB == real)
}

func TestUnboundDependencyFailsLookup(t *testing.T) {
	di := mindi.New()
	assert.NoError(t, di.Bind("service",
		mindi.WithProvider(NewService),
		mindi.WithParams(mindi.Inject("db", "missing")),
	))

	_, err := di.Resolve("service")
	assert.IsError(t, err, mindi.ErrUnbound)
	var unbound *mindi.UnboundError
	assert.True(t, errors.As(err, &unbound))
	assert.Equal(t, "missing", unbound.Identifier.String())
}

func TestRetryAfterMissingBindingSupplied(t *testing.T) {
	di := mindi.New()
	assert.NoError(t, di.Bind("service",
		mindi.WithProvider(NewService),
		mindi.WithParams(mindi.Inject("db", mindi.For[*Database]())),
	))

	_, err := di.Resolve("service")
	assert.IsError(t, err, mindi.ErrUnbound)

	// Binding the missing dependency afterwards makes the retry succeed.
	assert.NoError(t, di.Bind(NewDatabase))
	svc, err := mindi.Resolve[*Service](di, "service")
	assert.NoError(t, err)
	assert.NotZero(t, svc.DB)
}

func TestRebindAllowed(t *testing.T) {
	di := mindi.New(mindi.WithRebind(true))
	assert.NoError(t, di.Bind("value", mindi.WithProvider(func() string { return "original" })))

	v, err := mindi.Resolve[string](di, "value")
	assert.NoError(t, err)
	assert.Equal(t, "original", v)

	// Rebinding replaces the provider and discards the cached instance.
	assert.NoError(t, di.Bind("value", mindi.WithProvider(func() string { return "new" })))
	v, err = mindi.Resolve[string](di, "value")
	assert.NoError(t, err)
	assert.Equal(t, "new", v)
}

func TestRebindDisallowed(t *testing.T) {
	di := mindi.New()
	assert.NoError(t, di.Bind(NewDatabase))
	err := di.Bind(NewDatabase)
	assert.IsError(t, err, mindi.ErrDuplicateBinding)
}

func TestRebindIsNotRetroactive(t *testing.T) {
	// A dependent resolved before a rebind keeps the instance it captured;
	// rebinding does not propagate into already-built values.
	di := mindi.New(mindi.WithRebind(true))
	assert.NoError(t, di.Bind(NewDatabase))
	assert.NoError(t, di.Bind(NewService,
		mindi.WithParams(mindi.Inject("db", mindi.For[*Database]())),
	))

	svc, err := mindi.Resolve[*Service](di)
	assert.NoError(t, err)
	stale := svc.DB

	replacement := NewDatabase()
	assert.NoError(t, di.Bind(mindi.For[*Database](), mindi.WithProvider(mindi.Value(replacement))))

	db, err := mindi.Resolve[*Database](di)
	assert.NoError(t, err)
	assert.True(t, db == replacement)

	again, err := mindi.Resolve[*Service](di)
	assert.NoError(t, err)
	assert.True(t, again == svc)
	assert.True(t, again.DB == stale)
}

func TestIdentifierAliasing(t *testing.T) {
	di := mindi.New()
	assert.NoError(t, di.Bind(NewDatabase))

	byHelper, err := mindi.Resolve[*Database](di, mindi.For[*Database]())
	assert.NoError(t, err)
	byType, err := mindi.Resolve[*Database](di, reflect.TypeFor[Database]())
	assert.NoError(t, err)
	byString, err := mindi.Resolve[*Database](di, reflect.TypeFor[Database]().PkgPath()+".Database")
	assert.NoError(t, err)

	assert.True(t, byHelper == byType)
	assert.True(t, byType == byString)
}

func TestBindErrors(t *testing.T) {
	di := mindi.New()

	// Neither a string nor a type reference.
	assert.IsError(t, di.Bind(123), mindi.ErrInvalidIdentifier)

	// Identifier without a provider.
	assert.IsError(t, di.Bind("key"), mindi.ErrInvalidProvider)

	// Non-invocable provider.
	assert.IsError(t, di.Bind("key", mindi.WithProvider(123)), mindi.ErrInvalidProvider)

	// Provider whose parameters are not declared.
	assert.IsError(t, di.Bind("key", mindi.WithProvider(newConfig)), mindi.ErrInvalidProvider)

	// Injection target with an invalid shape fails at bind time.
	assert.IsError(t, di.Bind("key",
		mindi.WithProvider(NewService),
		mindi.WithParams(mindi.Inject("db", 42)),
	), mindi.ErrInvalidIdentifier)
}

func TestProviderFailurePropagatesUnchanged(t *testing.T) {
	di := mindi.New()
	errBoom := errors.New("boom")
	broken := true
	assert.NoError(t, di.Bind("db", mindi.WithProvider(func() (*Database, error) {
		if broken {
			return nil, errBoom
		}
		return NewDatabase(), nil
	})))

	_, err := di.Resolve("db")
	assert.IsError(t, err, errBoom)
	assert.False(t, errors.Is(err, mindi.ErrCycle))
	assert.False(t, errors.Is(err, mindi.ErrUnbound))

	// The binding reverts to unresolved, so a later attempt can succeed.
	broken = false
	db, err := mindi.Resolve[*Database](di, "db")
	assert.NoError(t, err)
	assert.NotZero(t, db)
}

func TestValueProvider(t *testing.T) {
	di := mindi.New()
	db := NewDatabase()
	assert.NoError(t, di.Bind(mindi.For[*Database](), mindi.WithProvider(mindi.Value(db))))

	got, err := mindi.Resolve[*Database](di)
	assert.NoError(t, err)
	assert.True(t, got == db)
}

func TestPartialProvider(t *testing.T) {
	di := mindi.New()
	provider, err := mindi.Func(newConfig, mindi.Arg("env"))
	assert.NoError(t, err)
	assert.NoError(t, di.Bind("config",
		mindi.WithProvider(mindi.Partial(provider, mindi.Args{"env": "prebound"})),
	))

	cfg, err := mindi.Resolve[config](di, "config")
	assert.NoError(t, err)
	assert.Equal(t, "prebound", cfg.Env)
}

func TestConcurrentResolutionConstructsOnce(t *testing.T) {
	di := mindi.New(mindi.WithLogger(slog.New(slog.DiscardHandler)))
	var constructions atomic.Int32
	assert.NoError(t, di.Bind(mindi.For[*Database](), mindi.WithProvider(func() *Database {
		constructions.Add(1)
		return NewDatabase()
	})))

	var wg sync.WaitGroup
	results := make([]*Database, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			db, err := mindi.Resolve[*Database](di)
			assert.NoError(t, err)
			results[i] = db
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), constructions.Load())
	for _, db := range results {
		assert.True(t, db == results[0])
	}
}
