// Command tqlcompose composes a .tql template against a database URI and
// prints the resulting rows, following cmd/snapsql/main.go's kong-driven
// command shape and cli/command_query.go's verbose/error-reporting
// conventions.
package main

import (
	"errors"
	"os"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"
	"github.com/joho/godotenv"

	"github.com/soulstompp/tqlcompose/tqlerrors"
)

// Context carries global CLI flags into every command's Run method.
type Context struct {
	Verbose bool
}

// CLI is the root command set. Only "query" exists today; the structure
// mirrors the teacher's CLI struct so additional subcommands (e.g. a future
// "validate") slot in the same way.
var CLI struct {
	Verbose bool     `help:"Enable verbose output" short:"v"`
	Query   QueryCmd `cmd:"" help:"Compose a .tql template and execute it against a database"`
}

func main() {
	if fileExists(".env") {
		if err := godotenv.Load(".env"); err != nil {
			color.New(color.FgRed).Fprintf(os.Stderr, "Error: failed to load .env file: %v\n", err)
			os.Exit(1)
		}
	}

	k := kong.Parse(&CLI)

	appCtx := &Context{Verbose: CLI.Verbose}

	if err := k.Run(appCtx); err != nil {
		printErr(err)
		os.Exit(1)
	}
}

func printErr(err error) {
	red := color.New(color.FgRed)

	var te *tqlerrors.Error
	if errors.As(err, &te) {
		red.Fprintf(os.Stderr, "Error: %s\n", te.Error())
		return
	}

	red.Fprintf(os.Stderr, "Error: %v\n", err)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
