package driver

import (
	"context"
	"database/sql"

	_ "github.com/go-sql-driver/mysql"

	"github.com/soulstompp/tqlcompose/ast"
	"github.com/soulstompp/tqlcompose/compose"
	"github.com/soulstompp/tqlcompose/dialect"
)

// MySQL adapts the composer to a MySQL or MariaDB database/sql connection,
// rendering bind placeholders as anonymous `?` tokens.
type MySQL struct{}

func (MySQL) Dialect() dialect.Dialect { return dialect.AnonymousQuestion() }

func (MySQL) Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func (a MySQL) Compose(stmt *ast.Statement, bindings compose.Bindings, mocks compose.Mocks) (string, []Value, error) {
	return composeWith(a.Dialect(), stmt, bindings, mocks)
}
