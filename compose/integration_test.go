package compose_test

import (
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/soulstompp/tqlcompose/alias"
	"github.com/soulstompp/tqlcompose/compose"
	"github.com/soulstompp/tqlcompose/dialect"
	"github.com/soulstompp/tqlcompose/parser"
)

// These fixtures live under ../testdata/templates, loaded relative to this
// package's directory the way `go test` always runs with cwd set to the
// package under test. Macro paths inside the fixtures resolve against the
// working directory too, so they also name ../testdata/templates/....

func TestLoadAndComposeInlinedTemplate(t *testing.T) {
	stmt, err := parser.Load(alias.NewPath("../testdata/templates/user_with_address.tql"))
	assert.NoError(t, err)

	c := compose.New(dialect.PositionalDollar(), compose.Bindings{
		"user_id": {int64(7)},
	}, compose.NewMocks())

	sql, values, err := c.Compose(stmt)
	assert.NoError(t, err)
	assert.Equal(t, "SELECT street, city FROM addresses WHERE user_id = $1;", sql)
	assert.Equal(t, []dialect.Value{int64(7)}, values)
}

func TestLoadAndComposeUnionOfTwoTemplates(t *testing.T) {
	stmt, err := parser.Load(alias.NewPath("../testdata/templates/active_or_pending.tql"))
	assert.NoError(t, err)

	// Both union branches bind the same name, and a binding is read in full
	// at every occurrence (no per-occurrence cursor), so a single shared
	// value satisfies both of them: active_users.tql's bare :bind(status)
	// accepts at most one value by default, and pending_users.tql's
	// EXPECTING 1 requires exactly one.
	c := compose.New(dialect.PositionalQuestion(), compose.Bindings{
		"status": {"active"},
	}, compose.NewMocks())

	sql, values, err := c.Compose(stmt)
	assert.NoError(t, err)
	assert.Equal(t,
		"SELECT id, name FROM users WHERE status = ?1 UNION SELECT id, name FROM users WHERE status = ?2;",
		sql)
	assert.Equal(t, []dialect.Value{"active", "active"}, values)
}
