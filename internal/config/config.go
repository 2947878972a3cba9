package config

import (
	"github.com/go-sod/mlserve/internal/predict"
	"github.com/go-sod/mlserve/internal/predictor"
	"github.com/go-sod/mlserve/internal/setup"
)

var (
	_ setup.PredictorConfigProvider = (*Config)(nil)
	_ setup.BaseDirProvider         = (*Config)(nil)
)

type Config struct {
	BaseDir        string `envconfig:"MLSERVE_BASE_DIR" default:"."`
	SrvAddr        string `envconfig:"MLSERVE_ADDR" default:":8787"`
	GRPCAddr       string `envconfig:"MLSERVE_GRPC_ADDR" default:":8788"`
	DebugAddr      string `envconfig:"MLSERVE_DEBUG_ADDR"`
	MaxConnections int    `envconfig:"MLSERVE_MAX_CONNECTIONS" default:"0"`
	Predict        predict.Config
	Predictor      predictor.Config
}

func (c *Config) BaseDirectory() string {
	return c.BaseDir
}

func (c *Config) PredictType() predictor.AlgType {
	return c.Predictor.Type
}

func (c *Config) PredictConfig() *predictor.Config {
	return &c.Predictor
}
