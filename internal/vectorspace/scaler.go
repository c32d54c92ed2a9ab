package vectorspace

import (
	"fmt"
	"math"
)

// Scaler standardizes the scalar feature block to zero mean and unit
// variance using statistics captured at fit time
type Scaler struct {
	Mean  []float64
	Scale []float64
}

// NewScaler creates an unfitted scaler
func NewScaler() *Scaler {
	return &Scaler{}
}

// Fit captures per-feature mean and standard deviation over the corpus.
// Constant features get a scale of one so transforming them is a no-op shift.
func (s *Scaler) Fit(rows [][]float64) error {
	if len(rows) == 0 {
		return fmt.Errorf("scaler: no rows to fit")
	}

	width := len(rows[0])
	s.Mean = make([]float64, width)
	s.Scale = make([]float64, width)

	for _, row := range rows {
		if len(row) != width {
			return fmt.Errorf("scaler: ragged row width %d, want %d", len(row), width)
		}
		for i, val := range row {
			s.Mean[i] += val
		}
	}
	n := float64(len(rows))
	for i := range s.Mean {
		s.Mean[i] /= n
	}

	for _, row := range rows {
		for i, val := range row {
			d := val - s.Mean[i]
			s.Scale[i] += d * d
		}
	}
	for i := range s.Scale {
		s.Scale[i] = math.Sqrt(s.Scale[i] / n)
		if s.Scale[i] == 0 {
			s.Scale[i] = 1
		}
	}
	return nil
}

// Transform standardizes one row using the fitted statistics
func (s *Scaler) Transform(row []float64) ([]float64, error) {
	if len(s.Mean) == 0 {
		return nil, ErrNotFitted
	}
	if len(row) != len(s.Mean) {
		return nil, fmt.Errorf("scaler: row width %d, want %d", len(row), len(s.Mean))
	}

	out := make([]float64, len(row))
	for i, val := range row {
		out[i] = (val - s.Mean[i]) / s.Scale[i]
	}
	return out, nil
}
