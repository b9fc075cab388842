package predictor

import (
	"context"

	"github.com/wonny/trendlab/backend/internal/dataset"
)

// Predictor is the two-call contract the pipeline depends on. How the
// model works is its own business; the pipeline only guarantees that
// PredictProba is called exclusively with rows dated after every training
// row (the splitter enforces this, not the predictor).
type Predictor interface {
	// Train fits the model on labeled rows.
	Train(ctx context.Context, rows []dataset.Row) error

	// PredictProba returns, per row, the probability that the label is 1
	// (an upward move over the horizon). Values are in [0, 1].
	PredictProba(ctx context.Context, rows []dataset.Row) ([]float64, error)
}

// Factory builds a fresh, untrained predictor for one pipeline run.
// Per-ticker pipelines run in parallel, so models are never shared.
type Factory func() Predictor
