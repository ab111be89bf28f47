package parser

import (
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/soulstompp/tqlcompose/alias"
	"github.com/soulstompp/tqlcompose/ast"
	"github.com/soulstompp/tqlcompose/compose"
	"github.com/soulstompp/tqlcompose/dialect"
)

func mustParse(t *testing.T, src string) *ast.Statement {
	t.Helper()
	stmt, err := ParseSource(src, alias.NewLiteral(src))
	assert.NoError(t, err)
	return stmt
}

func TestParseSimpleBind(t *testing.T) {
	stmt := mustParse(t, "INSERT INTO person (name, data) VALUES (:bind(name), :bind(data));")
	assert.True(t, stmt.Complete)

	c := compose.New(dialect.AnonymousQuestion(), compose.Bindings{
		"name": {"Steven"},
		"data": {nil},
	}, compose.NewMocks())

	sql, values, err := c.Compose(stmt)
	assert.NoError(t, err)
	assert.Equal(t, "INSERT INTO person (name, data) VALUES ( ?, ? );", sql)
	assert.Equal(t, []dialect.Value{"Steven", nil}, values)
}

func TestParseQuotedMultiUseBind(t *testing.T) {
	stmt := mustParse(t, "SELECT id FROM t WHERE x=':bind(n)' AND y=':bind(n)';")

	c := compose.New(dialect.PositionalQuestion(), compose.Bindings{
		"n": {"a"},
	}, compose.NewMocks())

	sql, values, err := c.Compose(stmt)
	assert.NoError(t, err)
	assert.Equal(t, "SELECT id FROM t WHERE x=?1 AND y=?2;", sql)
	assert.Equal(t, []dialect.Value{"a", "a"}, values)
}

func TestParseExpectingMinMultiValueBind(t *testing.T) {
	stmt := mustParse(t, "SELECT * FROM t WHERE c IN (:bind(xs EXPECTING MIN 1));")

	c := compose.New(dialect.PositionalDollar(), compose.Bindings{
		"xs": {"a", "b", "c"},
	}, compose.NewMocks())

	sql, values, err := c.Compose(stmt)
	assert.NoError(t, err)
	assert.Equal(t, "SELECT * FROM t WHERE c IN ( $1, $2, $3 );", sql)
	assert.Equal(t, []dialect.Value{"a", "b", "c"}, values)
}

func TestParseKeywordsCaptured(t *testing.T) {
	stmt := mustParse(t, "SELECT * FROM orders JOIN items ON orders.id = items.order_id;")

	var kinds []ast.Kind
	for _, n := range stmt.Nodes {
		kinds = append(kinds, n.Kind)
	}

	assert.Equal(t, ast.Keyword, kinds[0]) // SELECT

	hasDbObject := false
	for _, k := range kinds {
		if k == ast.DbObject {
			hasDbObject = true
		}
	}
	assert.True(t, hasDbObject)
}

func TestParseMacroShapedFile(t *testing.T) {
	stmt := mustParse(t, "\n  :count(x.tql);\n")
	assert.True(t, stmt.MacroShaped())

	node, ok := stmt.Macro()
	assert.True(t, ok)
	assert.Equal(t, "count", node.Command)
}

func TestParseUnionRequiresTwoAliases(t *testing.T) {
	_, err := ParseSource(":union(a.tql);", alias.NewLiteral(""))
	assert.Error(t, err)
}

func TestParseUnbalancedBindQuoteFails(t *testing.T) {
	_, err := ParseSource("SELECT ':bind(x);", alias.NewLiteral(""))
	assert.Error(t, err)
}
