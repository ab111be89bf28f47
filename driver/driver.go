// Package driver supplies the three concrete database/sql collaborators for
// the composer: MySQL, PostgreSQL, and SQLite. Each adapter pins one
// dialect.Dialect to one database/sql driver package and gives the CLI a
// single URI-scheme dispatch point, following cli/driver_util.go's
// normalize-then-switch convention.
package driver

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/soulstompp/tqlcompose/ast"
	"github.com/soulstompp/tqlcompose/compose"
	"github.com/soulstompp/tqlcompose/dialect"
)

// Value is the driver-facing bound value type, kept as its own name at the
// driver boundary even though it is the same underlying type as
// dialect.Value.
type Value = dialect.Value

// Adapter is the driver collaborator contract: a dialect, a connection
// opener, and a thin wrapper around the composer. Compose imposes no further
// constraint on the prepared-statement type it hands back to callers.
type Adapter interface {
	Dialect() dialect.Dialect
	Open(ctx context.Context, dsn string) (*sql.DB, error)
	Compose(stmt *ast.Statement, bindings compose.Bindings, mocks compose.Mocks) (string, []Value, error)
}

// ErrUnsupportedScheme is returned by ForURI when a database URI's scheme
// does not map to any known adapter.
var ErrUnsupportedScheme = errors.New("driver: unsupported database uri scheme")

// ForURI resolves the Adapter registered for a database URI's scheme
// (mysql://, postgres://, sqlite://) and returns the DSN to hand that
// adapter's Open, with the scheme stripped and the rest passed through
// untouched for the driver's own DSN parser.
func ForURI(uri string) (Adapter, string, error) {
	scheme, _, ok := strings.Cut(uri, "://")
	if !ok {
		return nil, "", fmt.Errorf("driver: invalid database uri %q: missing scheme", uri)
	}

	switch normalizeScheme(scheme) {
	case "mysql", "mariadb":
		return MySQL{}, dsnFromURI(uri), nil
	case "postgres", "postgresql":
		return Postgres{}, dsnFromURI(uri), nil
	case "sqlite", "sqlite3":
		return SQLite{}, dsnFromURI(uri), nil
	default:
		return nil, "", fmt.Errorf("%w: %s", ErrUnsupportedScheme, scheme)
	}
}

func normalizeScheme(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// dsnFromURI strips the scheme tqlcompose uses for dialect dispatch and
// passes the remainder through verbatim, since each driver package parses
// its own DSN shape (user:pass@tcp(host:port)/db for mysql,
// user:pass@host:port/db?opts for postgres, a plain file path for sqlite).
func dsnFromURI(uri string) string {
	_, rest, _ := strings.Cut(uri, "://")

	return rest
}

// composeWith is the one line every adapter's Compose shares: hand the
// parsed statement and caller-supplied bindings/mocks to a fresh Composer
// pinned to the adapter's own dialect.
func composeWith(d dialect.Dialect, stmt *ast.Statement, bindings compose.Bindings, mocks compose.Mocks) (string, []Value, error) {
	return compose.New(d, bindings, mocks).Compose(stmt)
}
