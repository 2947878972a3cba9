// Package trainer runs the offline pipeline: load, split, fit, evaluate,
// persist.
package trainer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-sod/mlserve/internal/database"
	"github.com/go-sod/mlserve/internal/dataset"
	"github.com/go-sod/mlserve/internal/logging"
	"github.com/go-sod/mlserve/internal/predictor/logreg"
	runDb "github.com/go-sod/mlserve/internal/run/database"
	runModel "github.com/go-sod/mlserve/internal/run/model"
)

type Report struct {
	ArtifactPath string
	TrainRows    int
	TestRows     int
	Accuracy     float64
	Iterations   int
	Converged    bool
	Run          runModel.Run

	// Previous is the last run recorded before this one, nil on the first run.
	Previous *runModel.Run
	// BestAccuracy is the highest accuracy among converged runs in the ledger.
	BestAccuracy float64
	Runs         int
}

type Trainer struct {
	cfg *Config
	now func() time.Time
}

func New(cfg *Config) *Trainer {
	return &Trainer{cfg: cfg, now: time.Now}
}

// Train fits a model on the CSV at dataPath and writes it to
// modelsDir/model.joblib. The run is appended to modelsDir/runs.db.
func (t *Trainer) Train(ctx context.Context, dataPath, modelsDir string) (*Report, error) {
	logger := logging.FromContext(ctx)
	logger.Info("Starting model training...")

	if err := os.MkdirAll(modelsDir, 0o755); err != nil {
		return nil, fmt.Errorf("create models dir: %w", err)
	}

	logger.Infof("Loading data from %s", dataPath)
	frame, err := dataset.ReadCSVFile(dataPath)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	x, y := frame.XY()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	split, err := dataset.TrainTestSplit(x, y, t.cfg.TestSize, t.cfg.Seed)
	if err != nil {
		return nil, fmt.Errorf("split dataset: %w", err)
	}
	_, cols := frame.Shape()
	features := cols - 1
	logger.Infof(
		"Data split into training and testing sets. Train shape: (%d, %d), Test shape: (%d, %d)",
		len(split.XTrain), features, len(split.XTest), features,
	)

	logger.Info("Training Logistic Regression model...")
	model := logreg.New(
		logreg.WithMaxIter(t.cfg.MaxIter),
		logreg.WithTol(t.cfg.Tol),
		logreg.WithC(t.cfg.C),
	)
	if err := model.Fit(split.XTrain, split.YTrain); err != nil {
		return nil, fmt.Errorf("fit model: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !model.Converged() {
		logger.Warnf("Solver failed to converge after %d iterations, increase max_iter", model.Iterations())
	}

	acc, err := model.Score(split.XTest, split.YTest)
	if err != nil {
		return nil, fmt.Errorf("evaluate model: %w", err)
	}
	model.SetAccuracy(acc)
	logger.Infof("Model accuracy: %.4f", acc)

	artifactPath := filepath.Join(modelsDir, ArtifactName)
	logger.Infof("Saving model to %s", artifactPath)
	if err := model.Save(artifactPath); err != nil {
		return nil, fmt.Errorf("save model: %w", err)
	}

	run := runModel.NewRun(dataPath, artifactPath, t.now())
	run.ModelID = model.Info().ID
	run.TrainRows = len(split.XTrain)
	run.TestRows = len(split.XTest)
	run.Accuracy = acc
	run.Iterations = model.Iterations()
	if !model.Converged() {
		run.Status = runModel.StatusNotConverged
	}
	history, err := t.record(ctx, filepath.Join(modelsDir, LedgerName), run)
	if err != nil {
		return nil, fmt.Errorf("record run: %w", err)
	}
	if history.previous != nil {
		logger.Infof("Previous run %s accuracy: %.4f", history.previous.ID, history.previous.Accuracy)
	}
	logger.Infof("Best accuracy over %d runs: %.4f", history.runs, history.best)

	logger.Info("Model training finished.")
	return &Report{
		Previous:     history.previous,
		BestAccuracy: history.best,
		Runs:         history.runs,
		ArtifactPath: artifactPath,
		TrainRows:    run.TrainRows,
		TestRows:     run.TestRows,
		Accuracy:     acc,
		Iterations:   run.Iterations,
		Converged:    model.Converged(),
		Run:          run,
	}, nil
}

type history struct {
	previous *runModel.Run
	best     float64
	runs     int
}

func (t *Trainer) record(ctx context.Context, ledgerPath string, run runModel.Run) (*history, error) {
	db, err := database.NewFromEnv(ctx, &database.Config{FileName: ledgerPath, Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	defer db.Close(ctx)

	ledger := runDb.New(db)
	h := &history{}
	last, err := ledger.Last(ctx)
	switch {
	case err == nil:
		h.previous = &last
	case !errors.Is(err, runDb.ErrNotFound):
		return nil, fmt.Errorf("last run: %w", err)
	}

	if err := ledger.Store(ctx, run); err != nil {
		return nil, err
	}

	converged, err := ledger.FindAll(ctx, func(r runModel.Run) bool {
		return r.Converged()
	})
	if err != nil {
		return nil, fmt.Errorf("find runs: %w", err)
	}
	for _, r := range converged {
		if r.Accuracy > h.best {
			h.best = r.Accuracy
		}
	}

	if h.runs, err = ledger.Count(); err != nil {
		return nil, fmt.Errorf("count runs: %w", err)
	}
	return h, nil
}
