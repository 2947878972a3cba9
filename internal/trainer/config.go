package trainer

import (
	"context"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/sethvargo/go-envconfig"
)

const ArtifactName = "model.joblib"

const LedgerName = "runs.db"

// Config holds the training hyperparameters. Defaults come from the env tags,
// a TOML file passed to LoadConfig overrides them.
type Config struct {
	TestSize float64 `env:"MLSERVE_TRAIN_TEST_SIZE,default=0.2" toml:"test_size"`
	Seed     uint32  `env:"MLSERVE_TRAIN_SEED,default=42" toml:"seed"`
	MaxIter  int     `env:"MLSERVE_TRAIN_MAX_ITER,default=1000" toml:"max_iter"`
	Tol      float64 `env:"MLSERVE_TRAIN_TOL,default=0.0001" toml:"tol"`
	C        float64 `env:"MLSERVE_TRAIN_C,default=1.0" toml:"c"`
}

func LoadConfig(ctx context.Context, path string) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("error loading environment variables: %w", err)
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, fmt.Errorf("decode config file %s: %w", path, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.TestSize <= 0 || c.TestSize >= 1 {
		return fmt.Errorf("test_size must be in (0, 1), got %v", c.TestSize)
	}
	if c.MaxIter <= 0 {
		return fmt.Errorf("max_iter must be positive, got %d", c.MaxIter)
	}
	if c.Tol <= 0 {
		return fmt.Errorf("tol must be positive, got %v", c.Tol)
	}
	if c.C <= 0 {
		return fmt.Errorf("c must be positive, got %v", c.C)
	}
	return nil
}
