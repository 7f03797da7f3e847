// Package initcmd implements the 'tenantsql init' command for scaffolding
// new projects.
package initcmd

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/tenantsql/tenantsql/internal/config"
)

// Options configures the init command execution.
type Options struct {
	Stdout io.Writer
	Stderr io.Writer
}

// Run executes the init command with the given arguments. Returns an exit
// code (0 for success, 1 for error).
func Run(args []string, opts Options) int {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	fs.SetOutput(opts.Stderr)

	force := fs.Bool("force", false, "overwrite an existing tenantsql.yaml")
	noSample := fs.Bool("no-sample", false, "skip writing the sample model definition")
	help := fs.Bool("help", false, "show help for init command")
	helpShort := fs.Bool("h", false, "show help for init command")

	if err := fs.Parse(args); err != nil {
		return 1
	}

	if *help || *helpShort {
		printHelp(opts.Stdout)
		return 0
	}

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(opts.Stderr, "Error: failed to get current directory: %v\n", err)
		return 1
	}

	if err := execute(cwd, *force, !*noSample, opts.Stdout); err != nil {
		fmt.Fprintf(opts.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// execute performs the actual initialization.
func execute(targetDir string, force, withSample bool, stdout io.Writer) error {
	configPath := filepath.Join(targetDir, config.ConfigFilename)

	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("%s already exists\n"+
			"  Use --force to overwrite", config.ConfigFilename)
	}

	modelsDir := filepath.Join(targetDir, "models")
	if info, err := os.Stat(modelsDir); err == nil && !info.IsDir() {
		return fmt.Errorf("expected directory but found file: models")
	}
	if err := os.MkdirAll(modelsDir, 0755); err != nil {
		return fmt.Errorf("failed to create models directory: %w", err)
	}

	if withSample {
		samplePath := filepath.Join(modelsDir, "project.yaml")
		if _, err := os.Stat(samplePath); err == nil && !force {
			return fmt.Errorf("models/project.yaml already exists\n" +
				"  Use --force to overwrite")
		}
		if err := writeAtomic(samplePath, sampleModel); err != nil {
			return fmt.Errorf("failed to write sample model: %w", err)
		}
	}

	if err := writeAtomic(configPath, configTemplate); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Fprintf(stdout, "Initialized tenantsql project in %s\n", targetDir)
	fmt.Fprintf(stdout, "  created %s\n", config.ConfigFilename)
	fmt.Fprintln(stdout, "  created models/")
	if withSample {
		fmt.Fprintln(stdout, "  created models/project.yaml")
	}
	fmt.Fprintln(stdout, "\nNext steps:")
	fmt.Fprintln(stdout, "  1. Edit the model definitions under models/")
	fmt.Fprintln(stdout, "  2. Run 'tenantsql generate'")
	return nil
}

// writeAtomic writes content to path via a temp file and rename, so a
// crash cannot leave a half-written file behind.
func writeAtomic(path, content string) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(content), 0600); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

const configTemplate = `# tenantsql configuration file
# This file marks the root of your tenantsql project.

# Directory holding the model definition files.
models_dir: models

# Directory receiving generated queries, migrations, and wrappers.
out_dir: gen

# Package name of the emitted Go wrappers.
wrapper_package: dbqueries

# Optional external SQL formatter command; each generated .sql file's path
# is appended as the final argument.
# formatter: ["sleek"]
`

const sampleModel = `# A minimal tenant-scoped model. Every non-global model gets an implicit
# organization_id column and tenancy predicates on all generated queries.
name: project
schema: app
table: projects
fields:
  - name: id
    type: bigint
  - name: name
    type: string
    owner_write: true
  - name: description
    type: text
    writable: true
    nullable: true
sort:
  - field: name
`

func printHelp(w io.Writer) {
	fmt.Fprint(w, `tenantsql init - initialize a new tenantsql project

Usage:
  tenantsql init [options]

Creates tenantsql.yaml and a models/ directory with a sample model
definition in the current directory.

Options:
  --force       Overwrite existing tenantsql.yaml and sample model
  --no-sample   Skip writing the sample model definition
  -h, --help    Show this help message
`)
}
