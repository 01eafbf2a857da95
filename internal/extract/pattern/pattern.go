// Package pattern extracts option quotes from the canonical alert shape
// ("$SPY 400 Calls 3/15 $1.25") without calling out to a model. Used in
// DRY_RUN and as the offline default.
package pattern

import (
	"context"
	"regexp"
	"strings"

	"github.com/IndianaJonesR/Discord-Trading-Engine/internal/extract/openai"
	"github.com/IndianaJonesR/Discord-Trading-Engine/internal/types"
)

var alertRe = regexp.MustCompile(
	`\$?([A-Za-z]{1,6})\s+(\d+(?:\.\d+)?)\s+(Calls?|Puts?|CALLS?|PUTS?|calls?|puts?)\s+(\d{1,2}/\d{1,2})\s+\$?(\d+(?:\.\d+)?)`)

type PatternExtractor struct{}

func NewPatternExtractor() *PatternExtractor {
	return &PatternExtractor{}
}

func (e *PatternExtractor) Extract(ctx context.Context, text string) (*types.OptionQuote, error) {
	if strings.Contains(text, "%") {
		return nil, nil
	}
	m := alertRe.FindStringSubmatch(text)
	if m == nil {
		return nil, nil
	}
	return openai.FromFields(m[1], m[2], m[3], m[4], m[5]), nil
}
