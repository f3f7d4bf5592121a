// Command process runs a full enrichment pass: it streams raw
// contribution records (NDJSON, stdin by default), resolves identity,
// company, and release for each one, emits the enriched stream
// (stdout by default), and persists newly learned users to the
// runtime store.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/contribscope/backend/internal/adapter/postgres"
	"github.com/contribscope/backend/internal/adapter/postgres/runtime"
	"github.com/contribscope/backend/internal/adapter/provider/launchpad"
	"github.com/contribscope/backend/internal/app"
	"github.com/contribscope/backend/internal/app/processor"
	"github.com/contribscope/backend/internal/config"
	"github.com/contribscope/backend/internal/service/enrich"
	"github.com/contribscope/backend/pkg/ctxutil"
)

func main() {
	pipelineConfigPath := flag.String("pipeline-config", "", "path to pipeline YAML config")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger := app.NewLogger(cfg.Log)

	pipeCfg, err := processor.LoadConfig(*pipelineConfigPath)
	if err != nil {
		logger.Error("load pipeline config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := ctxutil.WithRunID(context.Background(), uuid.New())

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	store := runtime.New(pool)
	identity := launchpad.NewClientWithURL(cfg.Identity.BaseURL, cfg.Identity.Timeout, logger)

	engine, err := enrich.NewService(ctx, logger, store, identity)
	if err != nil {
		logger.Error("build enrichment engine", slog.String("error", err.Error()))
		os.Exit(1)
	}

	in, closeIn, err := openInput(pipeCfg.InputPath)
	if err != nil {
		logger.Error("open input", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeIn()

	out, closeOut, err := openOutput(pipeCfg.OutputPath)
	if err != nil {
		logger.Error("open output", slog.String("error", err.Error()))
		os.Exit(1)
	}

	res, err := processor.New(logger, engine).Run(ctx, in, out)
	if err != nil {
		logger.Error("enrichment run failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := closeOut(); err != nil {
		logger.Error("close output", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("done", slog.Int("read", res.Read), slog.Int("written", res.Written))
}

func openInput(path string) (io.Reader, func() error, error) {
	if path == "" || path == "-" {
		return os.Stdin, func() error { return nil }, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func openOutput(path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}
