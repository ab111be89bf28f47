// Package ast defines the tagged-variant representation of a parsed .tql
// template: literal text, named bindings, macro calls, database-object
// references, reserved keywords, and the statement terminator. Nodes are a
// closed sum implemented as a single struct with a Kind discriminant, in
// preference to an interface-per-variant hierarchy — there is a fixed,
// small set of shapes and no caller ever needs to add a new one.
package ast

import (
	"strings"

	"github.com/soulstompp/tqlcompose/alias"
	"github.com/soulstompp/tqlcompose/position"
)

// Kind discriminates the Sql node variants.
type Kind int

const (
	Literal Kind = iota
	Binding
	MacroCall
	DbObject
	Keyword
	Ending
	// RawSQL carries SQL text that has already been composed (and the
	// values its placeholders already consumed). The composer uses it
	// to splice a recursively-composed child statement into a
	// synthetic wrapper statement (built for :count/:union rewrites)
	// without re-parsing or re-numbering the child's placeholders.
	RawSQL
)

// Node is one fragment of a parsed statement.
type Node struct {
	Kind Kind
	Pos  position.Position

	// Literal, Keyword
	Text string

	// Binding
	Name     string
	Quoted   bool
	Min      *int
	Max      *int
	Nullable bool

	// MacroCall
	Command  string // "compose" | "count" | "union"
	Distinct bool
	All      bool
	Columns  []string
	Of       []alias.Alias // ordered alias references, as written in the call
	Aliases  AliasTable    // resolved eagerly at parse time; covers every name in Of

	// DbObject
	DbObj alias.Alias

	// RawSQL
	Values []any
}

// AliasTable maps an alias to the statement it resolved to at parse time.
// Invariant (spec.md §3): for every entry in a MacroCall's Of list, this
// table contains the parsed statement for that alias.
type AliasTable map[alias.Alias]*Statement

// Statement is an ordered sequence of AST nodes. Complete records whether
// the parser stopped at a terminating ';'; a statement that runs to end of
// input without one is returned with Complete false.
type Statement struct {
	Nodes    []Node
	Complete bool
}

// MacroShaped reports whether this statement's sequence is exactly one
// macro-call node — the shape that makes tree-structured composition
// possible: a file consisting solely of a macro call parses to a
// macro-shaped statement and can be inlined wholesale by a parent composer.
// A leading whitespace-only literal (blank lines before the macro call) and
// a trailing Ending node don't break the shape; they carry no SQL of their
// own.
func (s *Statement) MacroShaped() bool {
	nodes := s.Nodes
	if len(nodes) > 0 && nodes[0].Kind == Literal && strings.TrimSpace(nodes[0].Text) == "" {
		nodes = nodes[1:]
	}
	if len(nodes) > 0 && nodes[len(nodes)-1].Kind == Ending {
		nodes = nodes[:len(nodes)-1]
	}
	return len(nodes) == 1 && nodes[0].Kind == MacroCall
}

// Macro returns the sole macro-call node when the statement is macro-shaped.
func (s *Statement) Macro() (*Node, bool) {
	if !s.MacroShaped() {
		return nil, false
	}
	for i := range s.Nodes {
		if s.Nodes[i].Kind == MacroCall {
			return &s.Nodes[i], true
		}
	}
	return nil, false
}
