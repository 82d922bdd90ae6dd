package logmgr

import "fmt"

// TooManyErrorsError is emitted at most once per operation, the instant the
// configured error ceiling is breached, per spec §4.5's at-most-one-abort
// invariant. Threshold is the configured absolute ceiling (0 if the
// breach was ratio-driven) and Ratio is the configured ratio ceiling (0 if
// the breach was count-driven).
type TooManyErrorsError struct {
	Observed  int64
	Threshold int64
	Ratio     float64
}

func (e *TooManyErrorsError) Error() string {
	if e.Ratio > 0 {
		return fmt.Sprintf("logmgr: error ratio ceiling exceeded: %d errors observed (ratio ceiling %.4f)", e.Observed, e.Ratio)
	}
	return fmt.Sprintf("logmgr: error ceiling exceeded: %d errors observed (ceiling %d)", e.Observed, e.Threshold)
}
