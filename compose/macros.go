package compose

import (
	"sort"
	"strings"

	"github.com/soulstompp/tqlcompose/alias"
	"github.com/soulstompp/tqlcompose/ast"
	"github.com/soulstompp/tqlcompose/dialect"
	"github.com/soulstompp/tqlcompose/position"
	"github.com/soulstompp/tqlcompose/tqlerrors"
)

// composeCommand dispatches a macro-call node to its command implementation.
// compose(X) splices X's resolved statement in place (or its mock, if X is
// path-mocked); count(X) and union(X1, X2, ...) rewrite to a synthetic
// wrapper statement that is re-entered through ComposeStatement so that
// padding and ending-suppression stay uniform with the rest of the walk.
func (c *Composer) composeCommand(node *ast.Node, offset int, child bool) (string, []dialect.Value, error) {
	switch node.Command {
	case "compose":
		return c.composeCompose(node, offset, child)
	case "count":
		return c.composeCount(node, offset, child)
	case "union":
		return c.composeUnion(node, offset, child)
	default:
		return "", nil, tqlerrors.Newf(tqlerrors.ErrCompositionCommandUnknown, node.Pos, "%s", node.Command)
	}
}

func (c *Composer) composeCompose(node *ast.Node, offset int, child bool) (string, []dialect.Value, error) {
	if len(node.Of) == 0 {
		return "", nil, tqlerrors.New(tqlerrors.ErrCompositionCommandArgInvalid, node.Pos, "compose requires an alias")
	}

	return c.resolveChild(node, node.Of[0], offset, child)
}

// resolveChild emits the SQL a macro call's alias argument resolves to: a
// registered path mock transparently stands in for the alias's own parsed
// statement, exactly as it would for a bare :compose of that same alias.
func (c *Composer) resolveChild(node *ast.Node, target alias.Alias, offset int, child bool) (string, []dialect.Value, error) {
	if rows, ok := c.Mocks.Path[target]; ok {
		return c.mockCompose(rows, offset)
	}

	childStmt, ok := node.Aliases[target]
	if !ok {
		return "", nil, tqlerrors.Newf(tqlerrors.ErrCompositionAliasUnknown, node.Pos, "%s", target)
	}

	return c.ComposeStatement(childStmt, offset, child)
}

func (c *Composer) composeCount(node *ast.Node, offset int, child bool) (string, []dialect.Value, error) {
	collist := "1"
	if len(node.Columns) > 0 {
		collist = strings.Join(node.Columns, ", ")
	}

	pos := position.Generated("COUNT")
	nodes := []ast.Node{
		{Kind: ast.Literal, Pos: pos, Text: "SELECT COUNT(" + collist + ") FROM ("},
	}

	cur := offset
	for _, a := range node.Of {
		s, v, err := c.resolveChild(node, a, cur, true)
		if err != nil {
			return "", nil, err
		}

		nodes = append(nodes, ast.Node{Kind: ast.RawSQL, Pos: pos, Text: s, Values: v})
		cur = offset + countValues(nodes)
	}

	nodes = append(nodes,
		ast.Node{Kind: ast.Literal, Pos: pos, Text: ") AS count_main"},
		ast.Node{Kind: ast.Ending, Pos: pos},
	)

	synthetic := &ast.Statement{Nodes: nodes, Complete: true}

	return c.ComposeStatement(synthetic, offset, child)
}

func (c *Composer) composeUnion(node *ast.Node, offset int, child bool) (string, []dialect.Value, error) {
	if len(node.Of) < 2 {
		return "", nil, tqlerrors.New(tqlerrors.ErrCompositionCommandArgInvalid, node.Pos, "union requires 2 or more alias names")
	}

	pos := position.Generated("UNION")
	var nodes []ast.Node

	cur := offset
	for idx, a := range node.Of {
		if idx > 0 {
			nodes = append(nodes, ast.Node{Kind: ast.Literal, Pos: pos, Text: "UNION"})
		}

		s, v, err := c.resolveChild(node, a, cur, true)
		if err != nil {
			return "", nil, err
		}

		nodes = append(nodes, ast.Node{Kind: ast.RawSQL, Pos: pos, Text: s, Values: v})
		cur = offset + countValues(nodes)
	}

	nodes = append(nodes, ast.Node{Kind: ast.Ending, Pos: pos})

	synthetic := &ast.Statement{Nodes: nodes, Complete: true}

	return c.ComposeStatement(synthetic, offset, child)
}

func countValues(nodes []ast.Node) int {
	n := 0
	for _, node := range nodes {
		n += len(node.Values)
	}
	return n
}

// mockCompose synthesizes "SELECT tag AS col, ... UNION ALL ..." from a
// caller-supplied row set, replacing a referenced template or db-object
// transparently. Columns within a row are emitted in lexicographic order so
// output is deterministic; placeholder numbering runs continuously across
// every row.
func (c *Composer) mockCompose(rows []Row, offset int) (string, []dialect.Value, error) {
	if offset == 0 {
		offset = 1
	}

	if len(rows) == 0 {
		return "", nil, tqlerrors.New(tqlerrors.ErrMockCompositionArgsInvalid, position.Generated("mock"), "mock rows cannot be empty")
	}

	var sb strings.Builder
	var values []dialect.Value

	i := offset
	expectedColumns := -1

	for r, row := range rows {
		if r > 0 {
			sb.WriteString(" UNION ALL ")
		}
		sb.WriteString("SELECT ")

		names := make([]string, 0, len(row))
		for name := range row {
			names = append(names, name)
		}
		sort.Strings(names)

		for colIdx, name := range names {
			if colIdx > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(c.Dialect.BindingTag(i, name))
			sb.WriteString(" AS ")
			sb.WriteString(name)
			values = append(values, row[name])
			i++
		}

		if expectedColumns == -1 {
			expectedColumns = len(names)
		} else if len(names) != expectedColumns {
			return "", nil, tqlerrors.Newf(tqlerrors.ErrMockCompositionColumnCountInvalid, position.Generated("mock"),
				"row %d has %d columns, expected %d", r, len(names), expectedColumns)
		}
	}

	return sb.String(), values, nil
}
