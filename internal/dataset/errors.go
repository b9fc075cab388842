package dataset

import "fmt"

// InsufficientDataError indicates a split segment ended up below the
// minimum row count after embargo removal. A tiny segment silently
// invalidates every downstream metric, so this is a hard failure for the
// run, not a warning.
type InsufficientDataError struct {
	Segment string
	Rows    int
	MinRows int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: %s segment has %d rows, need at least %d",
		e.Segment, e.Rows, e.MinRows)
}

// LeakageInvariantError indicates a label's future-price window crosses a
// split boundary. This can only happen through a bug in the splitter; it is
// never recovered or suppressed. The run must halt rather than ship a
// leaking dataset.
type LeakageInvariantError struct {
	Detail string
}

func (e *LeakageInvariantError) Error() string {
	return fmt.Sprintf("leakage invariant violated: %s", e.Detail)
}
