package main

import (
	"fmt"
	"os"
)

const usage = `tenantsql - multi-tenant backend scaffolding from model definitions

Usage:
  tenantsql <command> [arguments]

Commands:
  init          Initialize a new tenantsql project (creates tenantsql.yaml and a sample model)
  generate      Compile model definitions into queries, migrations, and typed wrappers
  watch         Regenerate whenever a model definition changes

Options:
  -h, --help    Show this help message

Run 'tenantsql <command> --help' for more information on a specific command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(0)
	}

	cmd := os.Args[1]

	switch cmd {
	case "-h", "--help", "help":
		fmt.Print(usage)
		os.Exit(0)

	case "init":
		initCmd()

	case "generate":
		generateCmd()

	case "watch":
		watchCmd()

	default:
		fmt.Fprintf(os.Stderr, "error: unknown command: %s\n", cmd)
		fmt.Fprintln(os.Stderr, "Run 'tenantsql --help' for usage.")
		os.Exit(1)
	}
}
