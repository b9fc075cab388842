package predictor

import (
	"context"
	"fmt"
	"math"

	"github.com/wonny/trendlab/backend/internal/dataset"
)

// Logistic is the built-in baseline: plain logistic regression trained by
// gradient descent on standardized features. It exists so the pipeline is
// runnable end to end without an external model; anything implementing
// Predictor can replace it.
type Logistic struct {
	// Hyperparameters
	LearningRate float64
	Epochs       int
	L2           float64

	// Fitted state
	weights []float64
	bias    float64
	means   []float64
	stds    []float64
}

// NewLogistic creates a baseline predictor with standard hyperparameters.
func NewLogistic() *Logistic {
	return &Logistic{
		LearningRate: 0.05,
		Epochs:       200,
		L2:           1e-4,
	}
}

// Train fits weights by full-batch gradient descent. Features are
// standardized with training-set statistics; the same statistics are
// applied at prediction time, so no information flows backwards.
func (m *Logistic) Train(ctx context.Context, rows []dataset.Row) error {
	if len(rows) == 0 {
		return fmt.Errorf("logistic: no training rows")
	}

	dim := len(rows[0].Features)
	m.fitScaler(rows, dim)

	x := make([][]float64, len(rows))
	y := make([]float64, len(rows))
	for i, row := range rows {
		if len(row.Features) != dim {
			return fmt.Errorf("logistic: inconsistent feature dimension at row %d", i)
		}
		x[i] = m.scale(row.Features)
		y[i] = float64(row.Label)
	}

	m.weights = make([]float64, dim)
	m.bias = 0

	n := float64(len(rows))
	grad := make([]float64, dim)

	for epoch := 0; epoch < m.Epochs; epoch++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		for d := range grad {
			grad[d] = 0
		}
		gradBias := 0.0

		for i := range x {
			p := sigmoid(dot(m.weights, x[i]) + m.bias)
			diff := p - y[i]
			for d := range grad {
				grad[d] += diff * x[i][d]
			}
			gradBias += diff
		}

		for d := range m.weights {
			m.weights[d] -= m.LearningRate * (grad[d]/n + m.L2*m.weights[d])
		}
		m.bias -= m.LearningRate * gradBias / n
	}

	return nil
}

// PredictProba returns P(label=1) per row.
func (m *Logistic) PredictProba(ctx context.Context, rows []dataset.Row) ([]float64, error) {
	if m.weights == nil {
		return nil, fmt.Errorf("logistic: predict before train")
	}

	out := make([]float64, len(rows))
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if len(row.Features) != len(m.weights) {
			return nil, fmt.Errorf("logistic: feature dimension %d, model expects %d",
				len(row.Features), len(m.weights))
		}
		out[i] = sigmoid(dot(m.weights, m.scale(row.Features)) + m.bias)
	}
	return out, nil
}

// fitScaler computes per-feature mean and standard deviation from the
// training rows.
func (m *Logistic) fitScaler(rows []dataset.Row, dim int) {
	m.means = make([]float64, dim)
	m.stds = make([]float64, dim)

	n := float64(len(rows))
	for _, row := range rows {
		for d, v := range row.Features {
			m.means[d] += v
		}
	}
	for d := range m.means {
		m.means[d] /= n
	}

	for _, row := range rows {
		for d, v := range row.Features {
			diff := v - m.means[d]
			m.stds[d] += diff * diff
		}
	}
	for d := range m.stds {
		m.stds[d] = math.Sqrt(m.stds[d] / n)
		if m.stds[d] == 0 {
			// Constant feature carries no signal; neutralize it.
			m.stds[d] = 1
		}
	}
}

func (m *Logistic) scale(features []float64) []float64 {
	scaled := make([]float64, len(features))
	for d, v := range features {
		scaled[d] = (v - m.means[d]) / m.stds[d]
	}
	return scaled
}

func dot(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}
