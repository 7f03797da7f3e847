package main

import (
	"context"
	"log/slog"

	"github.com/tenantsql/tenantsql/cli"
	"github.com/tenantsql/tenantsql/internal/config"
	"github.com/tenantsql/tenantsql/logging"
	"github.com/tenantsql/tenantsql/model"
	"github.com/tenantsql/tenantsql/render"
)

// generateCmd runs one full generation pass for the enclosing project.
func generateCmd() {
	cfg, err := config.Find(".")
	if err != nil {
		cli.FatalErr("loading project config", err)
	}

	logger := logging.New(cfg.DevLogging)
	res, err := runGeneration(context.Background(), cfg, logger)
	if err != nil {
		cli.FatalErr("generation failed", err)
	}

	for _, ff := range res.FormatFailures {
		cli.Warnf("formatter failed on %s: %s", ff.Path, ff.Detail)
	}
	cli.Successf("generated %d files (run %s)", len(res.Files), res.RunID)
}

// runGeneration loads the model set and drives the render pipeline. It is
// shared by generate and watch.
func runGeneration(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*render.Result, error) {
	models, err := model.LoadDir(cfg.ModelsPath())
	if err != nil {
		return nil, err
	}
	return render.Run(ctx, render.Config{
		OutDir:         cfg.OutPath(),
		WrapperPackage: cfg.WrapperPackage,
		Formatter:      cfg.Formatter,
		Logger:         logger,
	}, models)
}
