package driver

import (
	"context"
	"database/sql"

	_ "github.com/mattn/go-sqlite3"

	"github.com/soulstompp/tqlcompose/ast"
	"github.com/soulstompp/tqlcompose/compose"
	"github.com/soulstompp/tqlcompose/dialect"
)

// SQLite adapts the composer to a database/sql connection over
// mattn/go-sqlite3, rendering bind placeholders as positional ?n tokens.
type SQLite struct{}

func (SQLite) Dialect() dialect.Dialect { return dialect.PositionalQuestion() }

func (SQLite) Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func (a SQLite) Compose(stmt *ast.Statement, bindings compose.Bindings, mocks compose.Mocks) (string, []Value, error) {
	return composeWith(a.Dialect(), stmt, bindings, mocks)
}
