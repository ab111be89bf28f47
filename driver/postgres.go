package driver

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/soulstompp/tqlcompose/ast"
	"github.com/soulstompp/tqlcompose/compose"
	"github.com/soulstompp/tqlcompose/dialect"
)

// Postgres adapts the composer to a PostgreSQL database/sql connection,
// rendering bind placeholders as positional $n tokens.
type Postgres struct{}

func (Postgres) Dialect() dialect.Dialect { return dialect.PositionalDollar() }

func (Postgres) Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func (a Postgres) Compose(stmt *ast.Statement, bindings compose.Bindings, mocks compose.Mocks) (string, []Value, error) {
	return composeWith(a.Dialect(), stmt, bindings, mocks)
}
