package eod

import (
	"os"
	"path/filepath"
	"time"
)

func logDir() string {
	if v := os.Getenv("TRADER_LOG_DIR"); v != "" {
		return v
	}
	return "logs"
}

func tradeFile(t time.Time) string {
	dateStr := t.UTC().Format("2006-01-02")
	return filepath.Join(logDir(), dateStr+".txt")
}

func decisionFile(t time.Time) string {
	dateStr := t.UTC().Format("2006-01-02")
	return filepath.Join(logDir(), "decisions", dateStr+".txt")
}

func eodCSVPath(t time.Time) string {
	dateStr := t.UTC().Format("2006-01-02")
	return filepath.Join(logDir(), "eod", dateStr+".csv")
}

// US options stop trading at 20:00 UTC (4 PM ET); give fills a few
// minutes to land in the log before summarizing.
func marketCloseTime(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 20, 10, 0, 0, time.UTC)
}
