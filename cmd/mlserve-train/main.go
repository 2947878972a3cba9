package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/go-sod/mlserve/internal/logging"
	"github.com/go-sod/mlserve/internal/shutdown"
	"github.com/go-sod/mlserve/internal/trainer"
	"github.com/go-sod/mlserve/internal/util"
)

func main() {
	dataPath := flag.String("data_path", "data/diabetes.csv", "Path to the training data.")
	modelsDir := flag.String("models_dir", "models", "Directory to save the trained model.")
	baseDir := flag.String("base_dir", ".", "Application root that relative paths are resolved against.")
	configPath := flag.String("config", "", "Optional TOML file with training hyperparameters.")
	flag.Parse()

	ctx, done := shutdown.New()
	logger := logging.NewLoggerFromEnv()
	ctx = logging.WithLogger(ctx, logger)

	err := run(ctx, *baseDir, *dataPath, *modelsDir, *configPath)
	done()
	if err != nil {
		logger.Fatal(err)
	}
	_ = logger.Sync()
}

func run(ctx context.Context, baseDir, dataPath, modelsDir, configPath string) error {
	if configPath != "" {
		configPath = util.ResolvePath(baseDir, configPath)
	}
	cfg, err := trainer.LoadConfig(ctx, configPath)
	if err != nil {
		return fmt.Errorf("trainer.LoadConfig: %w", err)
	}

	_, err = trainer.New(cfg).Train(
		ctx,
		util.ResolvePath(baseDir, dataPath),
		util.ResolvePath(baseDir, modelsDir),
	)
	if err != nil {
		return fmt.Errorf("trainer.Train: %w", err)
	}
	return nil
}
