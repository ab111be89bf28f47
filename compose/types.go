// Package compose implements the composer engine: it walks a parsed
// statement, expands :compose/:count/:union macros, enforces binding
// cardinality, renders dialect-specific placeholders, and applies mock
// overrides, emitting a flat SQL string paired with an ordered value vector.
package compose

import (
	"github.com/soulstompp/tqlcompose/alias"
	"github.com/soulstompp/tqlcompose/dialect"
)

// Row is a single mock result row: column name to value.
type Row map[string]dialect.Value

// Bindings maps a parameter name to the ordered list of values supplied for
// it. The composer never iterates the map: it looks a name up when the walk
// reaches that binding, so emitted SQL and values follow template order and
// are deterministic for fixed inputs.
type Bindings map[string][]dialect.Value

// Mocks holds the two parallel override maps described in spec.md §3: one
// keyed by alias (replacing a referenced template), one keyed by a
// database-object alias (replacing a table reference). Both use
// alias.Alias as the identity key, matching spec.md §3's "Aliases are the
// identity keys" invariant; a db-object key is always built with an empty
// rename (alias.NewDbObject(name, "")) since a reference's AS clause
// affects only how it reads in the generated SQL, not which table identity
// a mock override targets.
type Mocks struct {
	Path   map[alias.Alias][]Row
	Object map[alias.Alias][]Row
}

// NewMocks returns an empty Mocks value ready to populate.
func NewMocks() Mocks {
	return Mocks{Path: map[alias.Alias][]Row{}, Object: map[alias.Alias][]Row{}}
}
