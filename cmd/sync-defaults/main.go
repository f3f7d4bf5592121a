// Command sync-defaults loads the bundled default reference data
// (users, companies, releases) from a JSON file and writes it into
// the runtime store when its digest differs from the last synced one.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/contribscope/backend/internal/adapter/postgres"
	"github.com/contribscope/backend/internal/adapter/postgres/runtime"
	"github.com/contribscope/backend/internal/app"
	"github.com/contribscope/backend/internal/app/processor"
	"github.com/contribscope/backend/internal/config"
	"github.com/contribscope/backend/internal/service/defaultdata"
)

func main() {
	dataPath := flag.String("data", "", "path to default data JSON")
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
	if *dataPath == "" {
		*dataPath = pipeCfg.DefaultDataPath
	}

	data, err := loadDefaultData(*dataPath)
	if err != nil {
		logger.Error("load default data", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	changed, err := defaultdata.NewService(logger, runtime.New(pool)).Sync(ctx, data)
	if err != nil {
		logger.Error("sync default data", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("done", slog.Bool("changed", changed))
}

func loadDefaultData(path string) (defaultdata.DefaultData, error) {
	var data defaultdata.DefaultData
	if path == "" {
		return data, fmt.Errorf("default data path is required")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return data, err
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return data, fmt.Errorf("decode %s: %w", path, err)
	}
	return data, nil
}
