package main

import (
	"context"
	"fmt"
	"net/http"

	mlserve "github.com/go-sod/mlserve/internal/config"
	"github.com/go-sod/mlserve/internal/predict"
	"github.com/go-sod/mlserve/internal/predictor"
	"github.com/go-sod/mlserve/internal/server"
)

// newRouter builds the public mux. A model whose input width differs from
// the configured feature count is rejected before any request is served.
func newRouter(ctx context.Context, config *mlserve.Config, model predictor.Predictor, metricsHandler http.Handler) (http.Handler, error) {
	if model.NumFeatures() != config.Predict.NumFeatures {
		return nil, fmt.Errorf(
			"model expects %d features, but MLSERVE_NUM_FEATURES is %d",
			model.NumFeatures(), config.Predict.NumFeatures,
		)
	}

	predictHandler, err := predict.NewHandler(&config.Predict, model)
	if err != nil {
		return nil, fmt.Errorf("predict.NewHandler: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/predict", predictHandler)
	mux.Handle("/health", server.HandleHealth(ctx))
	mux.Handle("/model", predict.NewInfoHandler(model))
	mux.Handle("/metrics", metricsHandler)

	return server.WithRequestLogger(ctx, mux), nil
}
