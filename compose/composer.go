package compose

import (
	"strings"

	"github.com/soulstompp/tqlcompose/alias"
	"github.com/soulstompp/tqlcompose/ast"
	"github.com/soulstompp/tqlcompose/dialect"
	"github.com/soulstompp/tqlcompose/tqlerrors"
)

// Composer walks a statement, assigns placeholder numbers, collects bind
// values in order, enforces cardinality, dispatches macros, and applies
// mock overrides. It owns its Bindings and Mocks for the duration of one
// Compose call; values stored inside are the caller's own and are never
// cloned. Reusing a Composer across calls requires resetting Bindings/Mocks
// between them.
type Composer struct {
	Dialect  dialect.Dialect
	Bindings Bindings
	Mocks    Mocks
}

// New builds a Composer for one compose invocation.
func New(d dialect.Dialect, bindings Bindings, mocks Mocks) *Composer {
	return &Composer{Dialect: d, Bindings: bindings, Mocks: mocks}
}

// Compose is the public entry point: it composes a statement starting at
// placeholder index 1, top-level (not a macro child).
func (c *Composer) Compose(stmt *ast.Statement) (string, []dialect.Value, error) {
	return c.ComposeStatement(stmt, 1, false)
}

// fragment is one already-rendered piece of output SQL plus the flag
// controlling whether a padding space precedes it when joined to what came
// before. This mirrors composer.rs's per-iteration pad/skip_padding bools.
type fragment struct {
	text string
	pad  bool
}

func join(frags []fragment) string {
	var sb strings.Builder
	for _, f := range frags {
		if f.text == "" {
			continue
		}
		skip := f.text == ","
		if !skip && f.pad && sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(f.text)
	}
	return sb.String()
}

// ComposeStatement walks stmt and emits (sql, values). offset is the
// 1-based placeholder index assigned to the next binding; child indicates
// the statement is being emitted inside a macro expansion, which suppresses
// its terminating ';'. The caller's next free placeholder index is
// offset + len(values).
func (c *Composer) ComposeStatement(stmt *ast.Statement, offset int, child bool) (string, []dialect.Value, error) {
	i := offset
	var frags []fragment
	var values []dialect.Value

	for idx := range stmt.Nodes {
		node := &stmt.Nodes[idx]
		pad := true
		var subSQL string
		var subValues []dialect.Value
		var err error

		switch node.Kind {
		case ast.Literal:
			subSQL = strings.TrimSpace(node.Text)
		case ast.Keyword:
			subSQL = node.Text
		case ast.RawSQL:
			subSQL = node.Text
			subValues = toDialectValues(node.Values)
		case ast.Binding:
			pad = !node.Quoted
			subSQL, subValues, err = c.composeBinding(node, i)
		case ast.MacroCall:
			// A macro call that is the statement's only node (the
			// "macro-shaped" case, e.g. a file consisting solely of
			// :count(x);) stands in for the whole statement, so it
			// inherits this call's child flag. A macro call found
			// alongside other fragments is, by construction, nested
			// inside a larger statement that owns its own terminator,
			// so its own synthesized ending is always suppressed.
			macroChild := child || !stmt.MacroShaped()
			subSQL, subValues, err = c.composeCommand(node, i, macroChild)
		case ast.DbObject:
			subSQL, subValues, err = c.composeDbObject(node, i)
		case ast.Ending:
			pad = false
			// A macro-shaped statement's own Ending is redundant: the
			// sole macro call it wraps was composed with this same
			// child flag (see the MacroCall case above) and already
			// supplied its own terminator at the correct nesting depth.
			if !child && !stmt.MacroShaped() {
				subSQL = ";"
			}
		}

		if err != nil {
			return "", nil, err
		}

		frags = append(frags, fragment{text: subSQL, pad: pad})
		values = append(values, subValues...)
		i = offset + len(values)
	}

	return join(frags), values, nil
}

func toDialectValues(vs []any) []dialect.Value {
	if vs == nil {
		return nil
	}
	out := make([]dialect.Value, len(vs))
	copy(out, vs)
	return out
}

// composeBinding implements the cardinality table from spec.md §4.F.
func (c *Composer) composeBinding(node *ast.Node, offset int) (string, []dialect.Value, error) {
	name := node.Name

	vals, ok := c.Bindings[name]
	if !ok {
		return "", nil, tqlerrors.New(tqlerrors.ErrCompositionBindingValueCount, node.Pos, "requires a value")
	}

	var tags []string
	var values []dialect.Value
	found := 0
	for _, v := range vals {
		tags = append(tags, c.Dialect.BindingTag(offset+found, name))
		values = append(values, v)
		found++
	}

	if found == 0 {
		if node.Nullable {
			return "NULL", nil, nil
		}
		return "", nil, tqlerrors.New(tqlerrors.ErrCompositionBindingValueInvalid, node.Pos, "cannot be NULL and no value provided")
	}

	if node.Min != nil && found < *node.Min {
		return "", nil, tqlerrors.Newf(tqlerrors.ErrCompositionBindingValueCount, node.Pos, "found %d < min %d", found, *node.Min)
	}

	if node.Max != nil {
		if found > *node.Max {
			return "", nil, tqlerrors.Newf(tqlerrors.ErrCompositionBindingValueCount, node.Pos, "found %d > max %d", found, *node.Max)
		}
	} else if node.Min == nil && found > 1 {
		return "", nil, tqlerrors.New(tqlerrors.ErrCompositionBindingValueCount, node.Pos, "does not accept more than one value")
	}

	return strings.Join(tags, ", "), values, nil
}

// composeDbObject renders a FROM/JOIN table reference, or — if the
// referenced object has a registered mock — splices in its mock rows
// instead. The mock lookup key drops any AS rename: the rename only affects
// how the reference reads in the generated SQL, not which table identity a
// caller-supplied mock override applies to.
func (c *Composer) composeDbObject(node *ast.Node, offset int) (string, []dialect.Value, error) {
	key := alias.NewDbObject(node.DbObj.Name, "")

	rows, ok := c.Mocks.Object[key]
	if !ok {
		return node.DbObj.String(), nil, nil
	}

	mockSQL, values, err := c.mockCompose(rows, offset)
	if err != nil {
		return "", nil, err
	}

	return "( " + mockSQL + " ) AS " + node.DbObj.Name, values, nil
}
