package model

import (
	"time"

	"github.com/google/uuid"
)

type Status uint8

const (
	StatusSucceeded Status = iota
	StatusNotConverged
)

func NewRun(dataPath, artifactPath string, createdAt time.Time) Run {
	return Run{
		ID:           uuid.New(),
		DataPath:     dataPath,
		ArtifactPath: artifactPath,
		CreatedAt:    createdAt,
	}
}

// Run is one completed execution of the training pipeline.
type Run struct {
	ID           uuid.UUID `json:"id"`
	ModelID      string    `json:"modelId"`
	DataPath     string    `json:"dataPath"`
	ArtifactPath string    `json:"artifactPath"`
	TrainRows    int       `json:"trainRows"`
	TestRows     int       `json:"testRows"`
	Accuracy     float64   `json:"accuracy"`
	Iterations   int       `json:"iterations"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (r Run) Converged() bool {
	return r.Status == StatusSucceeded
}
