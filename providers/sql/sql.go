// Package sql provides SQL database bindings for a mindi container.
package sql

import (
	"database/sql"
	"strings"

	"github.com/alecthomas/errors"
	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/djosix/mindi"
)

// ErrConstraint is returned by TranslateError for integrity constraint
// violations, independent of the underlying driver.
var ErrConstraint = errors.New("constraint violation")

// Config selects the database to connect to. The DSN scheme picks the
// driver: sqlite://, mysql://, or postgres:// (pgx:// is accepted as an
// alias).
type Config struct {
	DSN string
}

// New opens a database connection for the configured DSN.
//
// Scheme detection works on the raw string: sqlite DSNs such as
// "sqlite://file::memory:?cache=shared" are not parseable URLs.
func New(config Config) (*sql.DB, error) {
	dsn := config.DSN
	switch {
	case strings.HasPrefix(dsn, "sqlite://"):
		return errors.WithStack2(sql.Open("sqlite", strings.TrimPrefix(dsn, "sqlite://")))
	case strings.HasPrefix(dsn, "mysql://"):
		return errors.WithStack2(sql.Open("mysql", strings.TrimPrefix(dsn, "mysql://")))
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "pgx://"):
		dsn = strings.Replace(dsn, "pgx://", "postgres://", 1)
		return errors.WithStack2(sql.Open("pgx", dsn))
	default:
		return nil, errors.Errorf("unsupported SQL DSN scheme: %s", dsn)
	}
}

// Register binds *sql.DB into c, constructed lazily from an injected
// [Config]. Bind a Config before resolving:
//
//	err := di.Bind(mindi.For[sqlp.Config](),
//		mindi.WithProvider(mindi.Value(sqlp.Config{DSN: "sqlite://:memory:"})))
//	err = sqlp.Register(di)
func Register(c *mindi.Container) error {
	return c.Bind(mindi.For[*sql.DB](),
		mindi.WithProvider(New),
		mindi.WithParams(mindi.Inject("config", mindi.For[Config]())),
	)
}

// TranslateError maps driver-specific integrity constraint violations onto
// ErrConstraint so callers can classify them without importing driver
// packages. Other errors are returned unchanged.
func TranslateError(err error) error {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case 19, 1555, 1556: // SQLITE_CONSTRAINT / _PRIMARYKEY / _FOREIGNKEY
			return errors.Errorf("%w: %w", ErrConstraint, err)
		}
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
		return errors.Errorf("%w: %w", ErrConstraint, err)
	}
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case 1062, 1451, 1452: // duplicate entry / foreign key violations
			return errors.Errorf("%w: %w", ErrConstraint, err)
		}
	}
	return err
}
