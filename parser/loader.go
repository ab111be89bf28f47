package parser

import (
	"github.com/soulstompp/tqlcompose/alias"
	"github.com/soulstompp/tqlcompose/ast"
	"github.com/soulstompp/tqlcompose/position"
	"github.com/soulstompp/tqlcompose/tqlerrors"
)

// Load reads and parses the template identified by a, then recursively
// resolves every alias referenced by a macro call it contains (and every
// alias those in turn reference) into the macro's alias table, per the
// eager-resolution rule: for each path in a macro's `of`, the file is read,
// parsed, and the resulting statement inserted before Load returns.
func Load(a alias.Alias) (*ast.Statement, error) {
	return loadAlias(a, map[alias.Alias]bool{})
}

func loadAlias(a alias.Alias, pending map[alias.Alias]bool) (*ast.Statement, error) {
	if pending[a] {
		return nil, tqlerrors.New(tqlerrors.ErrAliasConflict, position.Generated("load"), "cyclic reference to "+a.String())
	}
	pending[a] = true
	defer delete(pending, a)

	src, err := a.ReadRawSQL()
	if err != nil {
		return nil, err
	}

	stmt, err := ParseSource(src, a)
	if err != nil {
		return nil, err
	}

	if err := resolveAliases(stmt, pending); err != nil {
		return nil, err
	}

	return stmt, nil
}

// resolveAliases walks every macro-call node in stmt and fills in its alias
// table, recursing through loadAlias for any alias not already present.
func resolveAliases(stmt *ast.Statement, pending map[alias.Alias]bool) error {
	for i := range stmt.Nodes {
		node := &stmt.Nodes[i]
		if node.Kind != ast.MacroCall {
			continue
		}

		if node.Aliases == nil {
			node.Aliases = ast.AliasTable{}
		}

		for _, a := range node.Of {
			if _, ok := node.Aliases[a]; ok {
				continue
			}

			child, err := loadAlias(a, pending)
			if err != nil {
				return err
			}
			node.Aliases[a] = child
		}
	}

	return nil
}
