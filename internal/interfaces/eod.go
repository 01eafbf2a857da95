package interfaces

import "time"

// EodSummarizer aggregates a day's trade log and decision log into a CSV
// report grouped by underlying.
type EodSummarizer interface {
	// SummarizeDay writes the CSV summary for the given date. Returns the
	// path of the written file, or "" when the date has no log entries.
	SummarizeDay(t time.Time) (csvPath string, err error)

	// SummarizeToday summarizes the current UTC date.
	SummarizeToday() (csvPath string, err error)

	// ShouldRunNow reports whether the summary for today is due (past the
	// daily cutoff and not generated yet) and where it would be written.
	ShouldRunNow() (shouldRun bool, csvPath string)
}
