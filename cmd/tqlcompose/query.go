package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/goccy/go-yaml"

	"github.com/soulstompp/tqlcompose/alias"
	"github.com/soulstompp/tqlcompose/bindvalue"
	"github.com/soulstompp/tqlcompose/compose"
	"github.com/soulstompp/tqlcompose/driver"
	"github.com/soulstompp/tqlcompose/parser"
)

// QueryCmd composes a .tql template against a database URI and runs it,
// printing one JSON object per result row. Its argument shape distills
// original_source/sql-composer-cli/src/main.rs's URI-positional,
// repeatable-bind-flag CLI.
type QueryCmd struct {
	DatabaseURI  string   `arg:"" name:"database-uri" help:"Database connection URI (mysql://, postgres://, sqlite://)"`
	TemplatePath string   `arg:"" name:"template-path" help:"Path to a .tql template file"`
	Bind         []string `name:"bind" short:"b" help:"Bind value group, e.g. \"[id: [1, 2]]\" (repeatable)"`
	MockPath     string   `name:"mock-path" help:"YAML file of path-keyed mock rows"`
	MockObject   string   `name:"mock-object" help:"YAML file of db-object-keyed mock rows"`
}

// Run executes the query command.
func (q *QueryCmd) Run(ctx *Context) error {
	bindings, err := q.loadBindings()
	if err != nil {
		return err
	}

	mocks, err := q.loadMocks()
	if err != nil {
		return err
	}

	stmt, err := parser.Load(alias.NewPath(q.TemplatePath))
	if err != nil {
		return fmt.Errorf("loading template %s: %w", q.TemplatePath, err)
	}

	adapter, dsn, err := driver.ForURI(q.DatabaseURI)
	if err != nil {
		return err
	}

	sql, values, err := adapter.Compose(stmt, bindings, mocks)
	if err != nil {
		return err
	}

	if ctx.Verbose {
		color.Blue("Generated SQL: %s", sql)
		color.Blue("Values: %v", values)
	}

	background := context.Background()

	db, err := adapter.Open(background, dsn)
	if err != nil {
		return fmt.Errorf("opening database connection: %w", err)
	}
	defer db.Close()

	return runAndPrintRows(background, db, sql, values)
}

// loadBindings merges every --bind occurrence left-to-right; repeated keys
// across occurrences append to, rather than replace, the existing value
// list, matching bindvalue's own multimap-fold semantics.
func (q *QueryCmd) loadBindings() (compose.Bindings, error) {
	result := compose.Bindings{}

	for _, b := range q.Bind {
		parsed, err := bindvalue.Parse(b)
		if err != nil {
			return nil, err
		}

		for name, values := range parsed {
			result[name] = append(result[name], values...)
		}
	}

	return result, nil
}

func (q *QueryCmd) loadMocks() (compose.Mocks, error) {
	mocks := compose.NewMocks()

	if q.MockPath != "" {
		raw, err := readYAMLRows(q.MockPath)
		if err != nil {
			return mocks, fmt.Errorf("loading %s: %w", q.MockPath, err)
		}

		for key, rows := range raw {
			mocks.Path[alias.NewPath(key)] = rows
		}
	}

	if q.MockObject != "" {
		raw, err := readYAMLRows(q.MockObject)
		if err != nil {
			return mocks, fmt.Errorf("loading %s: %w", q.MockObject, err)
		}

		for key, rows := range raw {
			mocks.Object[alias.NewDbObject(key, "")] = rows
		}
	}

	return mocks, nil
}

func readYAMLRows(path string) (map[string][]compose.Row, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string][]compose.Row

	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	return raw, nil
}
