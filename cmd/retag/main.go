// Command retag re-assigns release windows to previously enriched
// records using a record-to-release index file (JSON object mapping
// record key to release name).
//
// By default it streams records NDJSON in and writes only the changed
// records out. With -stored it re-tags the records table kept in the
// runtime store instead.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
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
	"github.com/contribscope/backend/internal/service/defaultdata"
	"github.com/contribscope/backend/internal/service/enrich"
	"github.com/contribscope/backend/pkg/ctxutil"
)

func main() {
	indexPath := flag.String("release-index", "", "path to record-to-release index JSON")
	stored := flag.Bool("stored", false, "re-tag the records table in the runtime store")
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
	if *indexPath == "" {
		*indexPath = pipeCfg.ReleaseIndexPath
	}

	releaseIndex, err := loadReleaseIndex(*indexPath)
	if err != nil {
		logger.Error("load release index", slog.String("error", err.Error()))
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

	if *stored {
		changed, err := defaultdata.NewService(logger, store).Retag(ctx, engine, releaseIndex)
		if err != nil {
			logger.Error("re-tag stored records", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("done", slog.Int("changed", changed))
		return
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

	res, err := processor.New(logger, engine).Retag(ctx, in, out, releaseIndex)
	if err != nil {
		logger.Error("re-tag run failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := closeOut(); err != nil {
		logger.Error("close output", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("done", slog.Int("read", res.Read), slog.Int("changed", res.Written))
}

func loadReleaseIndex(path string) (map[string]string, error) {
	if path == "" {
		return nil, fmt.Errorf("release index path is required")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var index map[string]string
	if err := json.Unmarshal(raw, &index); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return index, nil
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
