package predictor

import (
	"context"
	"time"
)

type ProvideFn func(context.Context) (Predictor, error)

// Predictor is a fitted, read-only model shared by request handlers.
type Predictor interface {
	NumFeatures() int
	Predict(samples [][]float64) ([]float64, error)
	Info() Info
}

type Info struct {
	ID          string    `json:"id"`
	Algorithm   AlgType   `json:"algorithm"`
	Classes     []float64 `json:"classes"`
	NumFeatures int       `json:"features"`
	Iterations  int       `json:"iterations"`
	Converged   bool      `json:"converged"`
	Accuracy    float64   `json:"accuracy"`
	TrainedAt   time.Time `json:"trainedAt"`
}
