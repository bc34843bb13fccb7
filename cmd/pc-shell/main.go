package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/tuanvumaihuynh/perishable-catalog/internal/config"
	"github.com/tuanvumaihuynh/perishable-catalog/internal/log"
	"github.com/tuanvumaihuynh/perishable-catalog/internal/repository"
	"github.com/tuanvumaihuynh/perishable-catalog/internal/service"
	"github.com/tuanvumaihuynh/perishable-catalog/internal/shell"
	"github.com/tuanvumaihuynh/perishable-catalog/pkg/sessionid"
	"github.com/tuanvumaihuynh/perishable-catalog/pkg/validator"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("error running shell application: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	type Config struct {
		Log   config.Log
		Store config.Store
		Shell config.Shell
	}
	cfg, err := config.New[Config]()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	v, err := validator.NewDefaultValidator()
	if err != nil {
		return fmt.Errorf("error creating validator: %w", err)
	}
	if err := v.Validate(cfg); err != nil {
		if msgs := validator.Messages(err); len(msgs) > 0 {
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("error validating config: %w", err)
	}

	logger := log.NewSlogLogger(cfg.Log, os.Stderr)

	sid, err := sessionid.New()
	if err != nil {
		return fmt.Errorf("error creating session id: %w", err)
	}
	ctx = sessionid.NewContext(ctx, sid)

	repo, err := repository.NewProductRepository(cfg.Store)
	if err != nil {
		return fmt.Errorf("error creating product repository: %w", err)
	}

	catalog := service.NewCatalog(logger, repo)
	report, err := catalog.Load(ctx)
	if err != nil {
		return fmt.Errorf("error loading products: %w", err)
	}
	logger.InfoContext(ctx, "catalog loaded",
		slog.String("driver", cfg.Store.Driver.String()),
		slog.String("path", cfg.Store.FilePath()),
		slog.Int("products", report.Loaded),
		slog.Int("skipped", len(report.Skipped)),
	)

	sh := shell.New(cfg.Shell, logger, shell.NewDispatcher(logger, catalog, v), os.Stdin, os.Stdout)
	sh.ReportLoad(report)

	if err := sh.Run(ctx); err != nil {
		return fmt.Errorf("error running shell: %w", err)
	}

	logger.InfoContext(ctx, "shell stopped")
	return nil
}
