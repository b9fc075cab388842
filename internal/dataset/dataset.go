package dataset

import (
	"fmt"
	"time"

	"github.com/wonny/trendlab/backend/internal/features"
	"github.com/wonny/trendlab/backend/internal/labels"
)

// Row is one aligned (features, label) observation. Features are
// vectorized in the order of FeatureNames handed to Join, so rows from the
// same build are directly comparable.
type Row struct {
	Date      time.Time
	Ticker    string
	Features  []float64
	Label     int
	FwdReturn float64
}

// Join inner-joins feature and label rows by date. Both inputs are
// chronologically sorted by construction (they derive from the same
// normalized series), so a merge walk suffices. Sessions that only exist on
// one side (the feature warm-up head, the unlabeled tail) are dropped.
func Join(featureRows []features.Row, labelRows []labels.Row, names []string) ([]Row, error) {
	rows := make([]Row, 0, min(len(featureRows), len(labelRows)))

	i, j := 0, 0
	for i < len(featureRows) && j < len(labelRows) {
		fd, ld := featureRows[i].Date, labelRows[j].Date
		switch {
		case fd.Before(ld):
			i++
		case ld.Before(fd):
			j++
		default:
			vec := make([]float64, len(names))
			for k, name := range names {
				v, ok := featureRows[i].Values[name]
				if !ok {
					return nil, fmt.Errorf("join: feature %q missing at %s", name, fd.Format("2006-01-02"))
				}
				vec[k] = v
			}
			rows = append(rows, Row{
				Date:      fd,
				Ticker:    featureRows[i].Ticker,
				Features:  vec,
				Label:     labelRows[j].Label,
				FwdReturn: labelRows[j].FwdReturn,
			})
			i++
			j++
		}
	}

	return rows, nil
}
