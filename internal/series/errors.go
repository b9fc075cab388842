package series

import (
	"fmt"
	"time"
)

// DataIntegrityError indicates a malformed or insufficient raw series.
// Fatal for the affected ticker only; a batch run collects these and
// continues with the remaining tickers.
type DataIntegrityError struct {
	Ticker string
	Reason string
}

func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("data integrity: %s: %s", e.Ticker, e.Reason)
}

// StaleDataWarning flags a gap between consecutive sessions longer than the
// configured threshold. It is surfaced to the caller, never masked, and does
// not fail normalization: the series stays usable, the researcher decides.
type StaleDataWarning struct {
	Ticker   string
	From     time.Time
	To       time.Time
	Sessions int // estimated missing sessions
}

func (w StaleDataWarning) String() string {
	return fmt.Sprintf("stale data: %s: gap of ~%d sessions between %s and %s",
		w.Ticker, w.Sessions, w.From.Format("2006-01-02"), w.To.Format("2006-01-02"))
}
