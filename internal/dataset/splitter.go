package dataset

import "fmt"

// SplitConfig controls the temporal three-way split.
type SplitConfig struct {
	// TrainFrac and ValFrac are fractions of the joined rows; the test
	// segment takes the remainder.
	TrainFrac float64 `yaml:"train_frac" json:"train_frac"`
	ValFrac   float64 `yaml:"val_frac" json:"val_frac"`

	// Horizon is the label horizon in sessions; an embargo of this many
	// rows is removed at each segment boundary so no label's forward
	// window reaches into the next segment.
	Horizon int `yaml:"-" json:"horizon"`

	// MinSegmentRows is the minimum usable size of every segment after
	// embargo removal.
	MinSegmentRows int `yaml:"min_segment_rows" json:"min_segment_rows"`
}

// DefaultSplitConfig returns the standard 70/15/15 split.
func DefaultSplitConfig(horizon int) SplitConfig {
	return SplitConfig{
		TrainFrac:      0.70,
		ValFrac:        0.15,
		Horizon:        horizon,
		MinSegmentRows: 30,
	}
}

// Validate checks fraction sanity.
func (c SplitConfig) Validate() error {
	if c.TrainFrac <= 0 || c.ValFrac <= 0 {
		return fmt.Errorf("split fractions must be > 0")
	}
	if c.TrainFrac+c.ValFrac >= 1 {
		return fmt.Errorf("train_frac + val_frac must be < 1, got %.2f", c.TrainFrac+c.ValFrac)
	}
	if c.Horizon <= 0 {
		return fmt.Errorf("split horizon must be > 0, got %d", c.Horizon)
	}
	if c.MinSegmentRows < 1 {
		return fmt.Errorf("min_segment_rows must be >= 1, got %d", c.MinSegmentRows)
	}
	return nil
}

// Split holds the three chronological segments plus the rows sacrificed to
// the embargo windows. Train rows strictly precede validation rows, which
// strictly precede test rows.
type Split struct {
	Train     []Row
	Val       []Row
	Test      []Row
	Embargoed []Row

	FeatureNames []string
}

// TemporalSplit partitions chronologically sorted rows into train/val/test
// with an embargo of Horizon rows excluded at each boundary. After
// building the segments it re-verifies the no-leakage invariant and fails
// hard on any violation.
func TemporalSplit(rows []Row, names []string, cfg SplitConfig) (*Split, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("split config: %w", err)
	}

	n := len(rows)
	h := cfg.Horizon

	trainEnd := int(float64(n) * cfg.TrainFrac)
	valStart := trainEnd + h
	valEnd := trainEnd + int(float64(n)*cfg.ValFrac)
	testStart := valEnd + h

	if valStart > n {
		valStart = n
	}
	if valEnd < valStart {
		valEnd = valStart
	}
	if testStart > n {
		testStart = n
	}

	split := &Split{
		Train:        rows[:trainEnd],
		Val:          rows[valStart:valEnd],
		Test:         rows[testStart:],
		FeatureNames: names,
	}
	split.Embargoed = append(split.Embargoed, rows[trainEnd:valStart]...)
	split.Embargoed = append(split.Embargoed, rows[valEnd:testStart]...)

	for _, seg := range []struct {
		name string
		rows []Row
	}{
		{"train", split.Train},
		{"val", split.Val},
		{"test", split.Test},
	} {
		if len(seg.rows) < cfg.MinSegmentRows {
			return nil, &InsufficientDataError{
				Segment: seg.name,
				Rows:    len(seg.rows),
				MinRows: cfg.MinSegmentRows,
			}
		}
	}

	if err := verifyNoLeakage(rows, split, h); err != nil {
		return nil, err
	}

	return split, nil
}

// verifyNoLeakage re-derives the embargo guarantee from the produced
// segments instead of trusting the index arithmetic above: for every row in
// an earlier segment, the session Horizon rows ahead (the last session its
// label depends on) must come strictly before the next segment's first row.
// Rows are session-indexed, so row position stands in for session distance.
func verifyNoLeakage(all []Row, split *Split, horizon int) error {
	index := make(map[string]int, len(all))
	for i, r := range all {
		index[r.Date.Format("2006-01-02")] = i
	}

	check := func(earlier, later []Row, boundary string) error {
		if len(earlier) == 0 || len(later) == 0 {
			return nil
		}
		lastIdx := index[earlier[len(earlier)-1].Date.Format("2006-01-02")]
		nextIdx := index[later[0].Date.Format("2006-01-02")]
		if lastIdx+horizon >= nextIdx {
			return &LeakageInvariantError{
				Detail: fmt.Sprintf("%s: label window of %s (session %d, horizon %d) reaches segment starting at %s (session %d)",
					boundary,
					earlier[len(earlier)-1].Date.Format("2006-01-02"), lastIdx, horizon,
					later[0].Date.Format("2006-01-02"), nextIdx),
			}
		}
		return nil
	}

	if err := check(split.Train, split.Val, "train/val"); err != nil {
		return err
	}
	if err := check(split.Val, split.Test, "val/test"); err != nil {
		return err
	}
	// Train must also clear the test segment in case val is ever empty.
	return check(split.Train, split.Test, "train/test")
}

// Stats summarizes a split for logging and the dataset CLI.
type Stats struct {
	Total     int `json:"total"`
	Train     int `json:"train"`
	Val       int `json:"val"`
	Test      int `json:"test"`
	Embargoed int `json:"embargoed"`
}

// Stats returns segment sizes. Train+Val+Test+Embargoed always equals the
// joined row count.
func (s *Split) Stats() Stats {
	return Stats{
		Total:     len(s.Train) + len(s.Val) + len(s.Test) + len(s.Embargoed),
		Train:     len(s.Train),
		Val:       len(s.Val),
		Test:      len(s.Test),
		Embargoed: len(s.Embargoed),
	}
}
