// Package dialect supplies the one piece of back-end-specific knowledge the
// composer needs: how to render a placeholder token. Everything else about
// macro rewriting is dialect-independent.
package dialect

import "strconv"

// Value is the opaque value-type handle the composer treats as untyped; it
// is carried straight through from the caller's bindings/mocks maps into the
// output value vector without being interpreted.
type Value = any

// Name identifies one of the supported back-ends.
type Name string

const (
	Postgres Name = "postgres"
	MySQL    Name = "mysql"
	SQLite   Name = "sqlite"
	MariaDB  Name = "mariadb"
)

// Feature records a capability bit for a dialect. Unlike the placeholder
// format, these don't change how the composer emits SQL, and neither the
// composer nor the CLI consults them: a child template pasted in by
// :compose (e.g. one with a trailing RETURNING clause) is emitted as written
// whatever the target back-end. Supports lets a caller query a bit itself.
type Feature int

const (
	FeatureReturning Feature = iota + 1
	FeatureConcatOperator // ||
	FeatureConcatFunction // CONCAT()
	FeatureJSON
	FeatureArray
)

// Dialect is the strategy object the composer is parameterized over.
type Dialect interface {
	Name() Name
	// BindingTag renders the placeholder token for the placeholder at
	// the given 1-based index, bound to the named parameter.
	BindingTag(index int, name string) string
	// Supports reports whether the dialect implements a given feature.
	Supports(f Feature) bool
}

type positionalDollar struct{}

// PositionalDollar renders placeholders as $1, $2, ... (PostgreSQL style).
func PositionalDollar() Dialect { return positionalDollar{} }

func (positionalDollar) Name() Name                         { return Postgres }
func (positionalDollar) BindingTag(index int, _ string) string { return "$" + strconv.Itoa(index) }
func (positionalDollar) Supports(f Feature) bool {
	switch f {
	case FeatureReturning, FeatureConcatOperator, FeatureJSON, FeatureArray:
		return true
	default:
		return false
	}
}

type positionalQuestion struct{}

// PositionalQuestion renders placeholders as ?1, ?2, ... (SQLite style).
func PositionalQuestion() Dialect { return positionalQuestion{} }

func (positionalQuestion) Name() Name                         { return SQLite }
func (positionalQuestion) BindingTag(index int, _ string) string { return "?" + strconv.Itoa(index) }
func (positionalQuestion) Supports(f Feature) bool {
	switch f {
	case FeatureReturning, FeatureJSON:
		return true
	default:
		return false
	}
}

type anonymousQuestion struct{}

// AnonymousQuestion renders every placeholder as a bare ? (MySQL/MariaDB style).
func AnonymousQuestion() Dialect { return anonymousQuestion{} }

func (anonymousQuestion) Name() Name                         { return MySQL }
func (anonymousQuestion) BindingTag(_ int, _ string) string { return "?" }
func (anonymousQuestion) Supports(f Feature) bool {
	switch f {
	case FeatureConcatFunction, FeatureJSON:
		return true
	default:
		return false
	}
}

// ForName resolves the dialect implementation registered for a dialect name,
// following the URI-scheme dispatch the CLI collaborator uses
// (mysql://, postgres://, sqlite://).
func ForName(n Name) (Dialect, bool) {
	switch n {
	case Postgres:
		return PositionalDollar(), true
	case MySQL, MariaDB:
		return AnonymousQuestion(), true
	case SQLite:
		return PositionalQuestion(), true
	default:
		return nil, false
	}
}
