package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/soulstompp/tqlcompose/driver"
)

// runAndPrintRows executes the composed SQL and prints one JSON object per
// result row to stdout, following cli/command_query.go's row-by-row output
// loop but specialized to this module's single JSON output format.
func runAndPrintRows(ctx context.Context, db *sql.DB, query string, values []driver.Value) error {
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("executing query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return err
	}

	for rows.Next() {
		scanned := make([]any, len(cols))
		ptrs := make([]any, len(cols))

		for i := range scanned {
			ptrs[i] = &scanned[i]
		}

		if err := rows.Scan(ptrs...); err != nil {
			return fmt.Errorf("scanning row: %w", err)
		}

		record := make(map[string]any, len(cols))
		for i, c := range cols {
			record[c] = scanned[i]
		}

		b, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("marshaling row: %w", err)
		}

		fmt.Println(string(b))
	}

	return rows.Err()
}
