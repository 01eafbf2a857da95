// Package eod builds the end-of-day CSV report: one row per underlying with
// submitted bracket counts, total contracts, entry notional, and how many
// alerts were skipped or discarded. Inputs are the daily JSONL files the
// tradelog package writes.
package eod

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/IndianaJonesR/Discord-Trading-Engine/internal/tradelog"
	"github.com/IndianaJonesR/Discord-Trading-Engine/internal/types"
)

type aggRow struct {
	Underlying    string
	Orders        int
	Contracts     int
	EntryNotional float64
	Skips         int
	Discards      int
}

type eodSummarizer struct{}

func (s *eodSummarizer) SummarizeDay(t time.Time) (string, error) {
	aggs := map[string]*aggRow{}

	haveTrades, err := readTrades(tradeFile(t), aggs)
	if err != nil {
		return "", err
	}
	haveDecisions, err := readDecisions(decisionFile(t), aggs)
	if err != nil {
		return "", err
	}
	if !haveTrades && !haveDecisions {
		return "", nil
	}

	keys := make([]string, 0, len(aggs))
	for k := range aggs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	outPath := eodCSVPath(t)
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return "", err
	}
	out, err := os.Create(outPath)
	if err != nil {
		return "", err
	}
	defer out.Close()

	w := csv.NewWriter(out)
	defer w.Flush()
	headers := []string{"underlying", "orders", "contracts", "entry_notional", "avg_entry", "skips", "discards"}
	if err := w.Write(headers); err != nil {
		return "", err
	}

	var totalOrders, totalContracts, totalSkips, totalDiscards int
	var totalNotional float64
	for _, k := range keys {
		r := aggs[k]
		var avgEntry float64
		if r.Contracts > 0 {
			// Notional is contracts x 100 shares x entry limit.
			avgEntry = r.EntryNotional / (float64(r.Contracts) * 100)
		}
		rec := []string{
			r.Underlying,
			strconv.Itoa(r.Orders),
			strconv.Itoa(r.Contracts),
			fmt.Sprintf("%.2f", r.EntryNotional),
			fmt.Sprintf("%.4f", avgEntry),
			strconv.Itoa(r.Skips),
			strconv.Itoa(r.Discards),
		}
		if err := w.Write(rec); err != nil {
			return "", err
		}
		totalOrders += r.Orders
		totalContracts += r.Contracts
		totalNotional += r.EntryNotional
		totalSkips += r.Skips
		totalDiscards += r.Discards
	}
	_ = w.Write([]string{"TOTAL",
		strconv.Itoa(totalOrders),
		strconv.Itoa(totalContracts),
		fmt.Sprintf("%.2f", totalNotional),
		"",
		strconv.Itoa(totalSkips),
		strconv.Itoa(totalDiscards),
	})
	return outPath, nil
}

func (s *eodSummarizer) SummarizeToday() (string, error) {
	return s.SummarizeDay(time.Now().UTC())
}

func (s *eodSummarizer) ShouldRunNow() (bool, string) {
	now := time.Now().UTC()
	outPath := eodCSVPath(now)
	if now.After(marketCloseTime(now)) {
		if _, err := os.Stat(outPath); os.IsNotExist(err) {
			return true, outPath
		}
	}
	return false, outPath
}

func readTrades(path string, aggs map[string]*aggRow) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	found := false
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var e tradelog.Entry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			continue
		}
		found = true
		row := rowFor(aggs, e.Underlying)
		row.Orders++
		row.Contracts += e.Qty
		if entry, err := strconv.ParseFloat(e.EntryLimit, 64); err == nil {
			row.EntryNotional += entry * 100 * float64(e.Qty)
		}
	}
	return found, sc.Err()
}

func readDecisions(path string, aggs map[string]*aggRow) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	found := false
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var e tradelog.DecisionEntry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			continue
		}
		found = true
		row := rowFor(aggs, e.Underlying)
		if e.Decision == string(types.Skip) {
			row.Skips++
		} else {
			row.Discards++
		}
	}
	return found, sc.Err()
}

func rowFor(aggs map[string]*aggRow, underlying string) *aggRow {
	row := aggs[underlying]
	if row == nil {
		row = &aggRow{Underlying: underlying}
		aggs[underlying] = row
	}
	return row
}
