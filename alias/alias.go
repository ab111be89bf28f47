// Package alias identifies the origin of a composition: a filesystem path, a
// named database object, or an inline raw-SQL literal. Aliases are the
// identity keys of an alias table, so equality must be structural — a plain
// comparable struct gives us that for free as a Go map key.
package alias

import (
	"fmt"
	"os"
)

// Kind discriminates the three alias variants.
type Kind int

const (
	// Path identifies a composition by the filesystem path of the .tql
	// file that defines it.
	Path Kind = iota
	// DbObject identifies a composition by the name of a table or view,
	// optionally renamed with an AS clause.
	DbObject
	// Literal identifies a composition by its raw SQL text, embedded
	// directly rather than read from a file.
	Literal
)

// Alias is a small comparable sum type. Two aliases are equal iff their kind
// and fields match exactly, which is what Go's built-in struct equality (and
// therefore its usability as a map key) already gives us.
type Alias struct {
	Kind Kind
	Name string // Path: the file path. DbObject: the object name. Literal: the raw SQL.
	As   string // DbObject only: the rename, if any. Empty otherwise.
}

// NewPath builds a filesystem-path alias.
func NewPath(path string) Alias {
	return Alias{Kind: Path, Name: path}
}

// NewDbObject builds a database-object alias, optionally renamed.
func NewDbObject(name, as string) Alias {
	return Alias{Kind: DbObject, Name: name, As: as}
}

// NewLiteral builds an inline raw-SQL alias.
func NewLiteral(sql string) Alias {
	return Alias{Kind: Literal, Name: sql}
}

// ReadRawSQL returns the text that should be parsed for this alias: file
// contents for a Path, the verbatim object name for a DbObject, and the
// stored text for a Literal.
func (a Alias) ReadRawSQL() (string, error) {
	switch a.Kind {
	case Path:
		data, err := os.ReadFile(a.Name)
		if err != nil {
			return "", fmt.Errorf("reading template %s: %w", a.Name, err)
		}
		return string(data), nil
	case DbObject:
		return a.Name, nil
	case Literal:
		return a.Name, nil
	default:
		return "", fmt.Errorf("unknown alias kind %d", a.Kind)
	}
}

// String renders the alias the way it would appear in a position's display
// form (composition <alias> ...).
func (a Alias) String() string {
	switch a.Kind {
	case DbObject:
		if a.As != "" {
			return fmt.Sprintf("%s AS %s", a.Name, a.As)
		}
		return a.Name
	default:
		return a.Name
	}
}
