// Package render is the dispatch driver: it fans query generation out
// across models and operation kinds, persists the results, and invokes the
// optional SQL formatter. Units are mutually independent; the first failure
// aborts the run's result while already-started units finish on their own.
package render

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/tenantsql/tenantsql/migrate"
	"github.com/tenantsql/tenantsql/model"
	"github.com/tenantsql/tenantsql/querygen"
	"github.com/tenantsql/tenantsql/runnergen"
)

// Config controls one generation run.
type Config struct {
	// OutDir receives queries/, migrations/, and db/ subdirectories.
	OutDir string

	// WrapperPackage is the package name of the emitted Go wrappers.
	WrapperPackage string

	// Formatter, when non-empty, is run once per generated .sql file with
	// the file path appended as the final argument.
	Formatter []string

	Logger *slog.Logger
}

// FormatFailure records one formatter invocation that failed. The file's
// unformatted text remains valid; other files are unaffected.
type FormatFailure struct {
	Path   string `json:"path"`
	Detail string `json:"detail"`
}

// Result summarizes a completed run.
type Result struct {
	// RunID tags the run in logs and the manifest.
	RunID string `json:"run_id"`

	// Files maps each written path (relative to OutDir) to the SHA-256 of
	// its content, so downstream tooling can detect staleness.
	Files map[string]string `json:"files"`

	FormatFailures []FormatFailure `json:"format_failures,omitempty"`
}

// Run generates every output for the given models and writes them under
// cfg.OutDir. Generation is atomic per unit: a unit either contributes its
// complete files or an error, never partial text.
func Run(ctx context.Context, cfg Config, models []*model.Model) (*Result, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(127)}))
	}

	res := &Result{
		RunID: uuid.NewString(),
		Files: make(map[string]string),
	}
	logger.Info("generation run started", "run_id", res.RunID, "models", len(models))

	for _, sub := range []string{"queries", "migrations", "db"} {
		if err := os.MkdirAll(filepath.Join(cfg.OutDir, sub), 0o755); err != nil {
			return nil, fmt.Errorf("creating output directory: %w", err)
		}
	}

	var mu sync.Mutex
	record := func(rel string, sum string) {
		mu.Lock()
		defer mu.Unlock()
		res.Files[rel] = sum
	}
	recordFormatFailure := func(f FormatFailure) {
		mu.Lock()
		defer mu.Unlock()
		res.FormatFailures = append(res.FormatFailures, f)
	}

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, m := range models {
		m := m
		// Migration sequence follows the order models were handed in,
		// which is the loader's order.
		seq := i + 1
		for _, op := range querygen.Operations {
			op := op
			g.Go(func() error {
				return renderQueries(ctx, cfg, m, op, record, recordFormatFailure, logger)
			})
		}
		g.Go(func() error {
			return renderMigrations(ctx, cfg, m, seq, record, recordFormatFailure, logger)
		})
		g.Go(func() error {
			return renderWrappers(cfg, m, record)
		})
	}
	g.Go(func() error {
		src, err := runnergen.Source(runnergen.BaseFile(cfg.WrapperPackage))
		if err != nil {
			return fmt.Errorf("rendering wrapper base: %w", err)
		}
		return writeOutput(cfg, filepath.Join("db", "db.go"), src, record)
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := writeManifest(cfg, res); err != nil {
		return nil, err
	}

	logger.Info("generation run finished",
		"run_id", res.RunID,
		"files", len(res.Files),
		"format_failures", len(res.FormatFailures))
	return res, nil
}

func renderQueries(ctx context.Context, cfg Config, m *model.Model, op querygen.Operation, record func(string, string), recordFormatFailure func(FormatFailure), logger *slog.Logger) error {
	qcs, err := querygen.Generate(m, op)
	if err != nil {
		return fmt.Errorf("model %s: %w", m.Name, err)
	}
	for _, qc := range qcs {
		rel := filepath.Join("queries", m.Name, qc.OperationName+".sql")
		if err := writeOutput(cfg, rel, []byte(qc.SQL+"\n"), record); err != nil {
			return err
		}
		formatFile(ctx, cfg, rel, record, recordFormatFailure, logger)
	}
	return nil
}

func renderMigrations(ctx context.Context, cfg Config, m *model.Model, seq int, record func(string, string), recordFormatFailure func(FormatFailure), logger *slog.Logger) error {
	base := fmt.Sprintf("%03d_create_%s", seq, m.Table)
	up := filepath.Join("migrations", base+".up.sql")
	down := filepath.Join("migrations", base+".down.sql")
	if err := writeOutput(cfg, up, []byte(migrate.CreateTableSQL(m)), record); err != nil {
		return err
	}
	if err := writeOutput(cfg, down, []byte(migrate.DropTableSQL(m)), record); err != nil {
		return err
	}
	formatFile(ctx, cfg, up, record, recordFormatFailure, logger)
	formatFile(ctx, cfg, down, record, recordFormatFailure, logger)
	return nil
}

func renderWrappers(cfg Config, m *model.Model, record func(string, string)) error {
	f, err := runnergen.File(m, cfg.WrapperPackage)
	if err != nil {
		return err
	}
	src, err := runnergen.Source(f)
	if err != nil {
		return fmt.Errorf("rendering wrappers for %s: %w", m.Name, err)
	}
	return writeOutput(cfg, filepath.Join("db", m.Name+"_queries.go"), src, record)
}

// writeOutput writes content atomically: a temp file in the target
// directory renamed into place, so a failure never leaves partial text.
func writeOutput(cfg Config, rel string, content []byte, record func(string, string)) error {
	path := filepath.Join(cfg.OutDir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("writing %s: %w", rel, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("writing %s: %w", rel, err)
	}
	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing %s: %w", rel, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing %s: %w", rel, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing %s: %w", rel, err)
	}

	sum := sha256.Sum256(content)
	record(rel, hex.EncodeToString(sum[:]))
	return nil
}

// formatFile invokes the configured formatter on one file. A failure is
// reported against that file only; the unformatted text stays in place.
// After a successful format the file is re-hashed, so the manifest always
// reflects the bytes on disk.
func formatFile(ctx context.Context, cfg Config, rel string, record func(string, string), recordFormatFailure func(FormatFailure), logger *slog.Logger) {
	if len(cfg.Formatter) == 0 {
		return
	}
	path := filepath.Join(cfg.OutDir, rel)
	args := append(append([]string{}, cfg.Formatter[1:]...), path)
	out, err := exec.CommandContext(ctx, cfg.Formatter[0], args...).CombinedOutput()
	if err != nil {
		detail := fmt.Sprintf("%v: %s", err, out)
		logger.Warn("formatter failed", "file", rel, "detail", detail)
		recordFormatFailure(FormatFailure{Path: rel, Detail: detail})
		return
	}

	formatted, err := os.ReadFile(path)
	if err != nil {
		detail := fmt.Sprintf("rereading formatted file: %v", err)
		logger.Warn("formatter failed", "file", rel, "detail", detail)
		recordFormatFailure(FormatFailure{Path: rel, Detail: detail})
		return
	}
	sum := sha256.Sum256(formatted)
	record(rel, hex.EncodeToString(sum[:]))
}

func writeManifest(cfg Config, res *Result) error {
	// Stable failure ordering for readers of the manifest.
	sort.Slice(res.FormatFailures, func(i, j int) bool {
		return res.FormatFailures[i].Path < res.FormatFailures[j].Path
	})
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(filepath.Join(cfg.OutDir, "manifest.json"), data, 0o644)
}
