package setup

import (
	"context"
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/go-sod/mlserve/internal/logging"
	"github.com/go-sod/mlserve/internal/predictor"
	"github.com/go-sod/mlserve/internal/predictor/logreg"
	"github.com/go-sod/mlserve/internal/srvenv"
	"github.com/go-sod/mlserve/internal/util"
	"github.com/kelseyhightower/envconfig"
)

type PredictorConfigProvider interface {
	PredictConfig() *predictor.Config
	PredictType() predictor.AlgType
}

type BaseDirProvider interface {
	BaseDirectory() string
}

func Setup(ctx context.Context, config interface{}) (*srvenv.SrvEnv, error) {
	logger := logging.FromContext(ctx)
	var serverEnvOpts []srvenv.Option
	if err := envconfig.Process("", config); err != nil {
		return nil, fmt.Errorf("error loading environment variables: %w", err)
	}

	baseDir := "."
	if baseDirProvider, ok := config.(BaseDirProvider); ok {
		baseDir = baseDirProvider.BaseDirectory()
	}

	if predictConfigProvider, ok := config.(PredictorConfigProvider); ok {
		logger.Info("Configuring predictor")
		provideFn, err := ProvidePredictorFor(predictConfigProvider.PredictConfig(), baseDir)
		if err != nil {
			return nil, fmt.Errorf("unable create predictor provide function: %w", err)
		}
		serverEnvOpts = append(serverEnvOpts, srvenv.WithPredictor(provideFn))
	}

	return srvenv.New(serverEnvOpts...), nil
}

// ProvidePredictorFor resolves the artifact path against baseDir. The
// returned function fails when the artifact does not exist.
func ProvidePredictorFor(cfg *predictor.Config, baseDir string) (predictor.ProvideFn, error) {
	modelPath := util.ResolvePath(baseDir, cfg.ModelPath)
	switch cfg.PredictorType() {
	case predictor.AlgTypeLogReg:
		return func(ctx context.Context) (predictor.Predictor, error) {
			logger := logging.FromContext(ctx)
			if _, err := os.Stat(modelPath); err != nil {
				if os.IsNotExist(err) {
					return nil, fmt.Errorf("model not found at %s", modelPath)
				}
				return nil, fmt.Errorf("stat model %s: %w", modelPath, err)
			}
			m, err := logreg.Load(modelPath)
			if err != nil {
				return nil, fmt.Errorf("unable load model: %w", err)
			}
			logger.Infof("Loaded model %s from %s", m.Info().ID, modelPath)
			logger.Debugf("model info: %s", spew.Sdump(m.Info()))
			return m, nil
		}, nil
	default:
		return nil, fmt.Errorf("unknown predictor type: %s", cfg.PredictorType())
	}
}
