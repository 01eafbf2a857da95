// Package openai extracts option quotes from free-form alert text with an
// OpenAI chat-completions call, temperature 0, JSON-object response.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/IndianaJonesR/Discord-Trading-Engine/internal/api"
	"github.com/IndianaJonesR/Discord-Trading-Engine/internal/store"
	"github.com/IndianaJonesR/Discord-Trading-Engine/internal/trace"
	"github.com/IndianaJonesR/Discord-Trading-Engine/internal/types"
)

const systemPrompt = `Extract option trading information from the message. Return a JSON with these fields:
- symbol: The stock ticker symbol (e.g., "SPY")
- strike: The strike price as a string (e.g., "400")
- option_type: "Puts" or "Calls"
- expiration: The expiration date in MM/DD format (e.g., "3/15")
- price: The option price as a string with 2 decimal places (e.g., "1.25")

If the message doesn't contain valid option information, return null.
The message format should be similar to: "$SPY 400 Calls 3/15 $1.25"`

type OpenAIExtractor struct {
	cfg *store.Config
	api *api.Client
}

func NewOpenAIExtractor(cfg *store.Config) *OpenAIExtractor {
	return &OpenAIExtractor{
		cfg: cfg,
		api: api.NewClient(
			api.WithBaseURL("https://api.openai.com"),
			api.WithTimeout(30*time.Second),
		),
	}
}

func (e *OpenAIExtractor) Extract(ctx context.Context, text string) (*types.OptionQuote, error) {
	// Percent signs mark running-update messages, never fresh alerts.
	if strings.Contains(text, "%") {
		return nil, nil
	}

	ctx, span := trace.StartSpan(ctx, "openai-api-call")
	defer span.End()

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, errors.New("OPENAI_API_KEY missing")
	}

	body := map[string]any{
		"model": e.cfg.Extractor.Model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": text},
		},
		"temperature":     e.cfg.Extractor.Temperature,
		"max_tokens":      e.cfg.Extractor.MaxTokens,
		"response_format": map[string]string{"type": "json_object"},
	}
	req := api.NewRequest(http.MethodPost, "/v1/chat/completions").
		WithContext(ctx).
		WithBody(body).
		WithHeader("Authorization", "Bearer "+apiKey)
	resp, err := e.api.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openai: %w", err)
	}

	var r struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := resp.ParseJSON(&r); err != nil {
		return nil, err
	}
	if len(r.Choices) == 0 {
		return nil, errors.New("no choices")
	}

	out := strings.TrimSpace(r.Choices[0].Message.Content)

	var raw struct {
		Symbol     string `json:"symbol"`
		Strike     string `json:"strike"`
		OptionType string `json:"option_type"`
		Expiration string `json:"expiration"`
		Price      string `json:"price"`
	}
	if err := json.Unmarshal([]byte(out), &raw); err != nil || raw.Symbol == "" {
		// Model said null or produced something unusable: no quote.
		return nil, nil
	}

	return FromFields(raw.Symbol, raw.Strike, raw.OptionType, raw.Expiration, raw.Price), nil
}

// FromFields builds a quote from the model's string fields, returning nil
// when any field doesn't convert. Semantic checks (positive strike and so
// on) are the quote's own Validate.
func FromFields(symbol, strike, optionType, expiration, price string) *types.OptionQuote {
	strikeDec, err := decimal.NewFromString(strings.TrimSpace(strike))
	if err != nil {
		return nil
	}
	priceDec, err := decimal.NewFromString(strings.TrimPrefix(strings.TrimSpace(price), "$"))
	if err != nil {
		return nil
	}

	var kind types.OptionKind
	switch {
	case strings.HasPrefix(strings.ToLower(optionType), "put"):
		kind = types.Put
	case strings.HasPrefix(strings.ToLower(optionType), "call"):
		kind = types.Call
	default:
		return nil
	}

	parts := strings.Split(strings.TrimSpace(expiration), "/")
	if len(parts) != 2 {
		return nil
	}
	var month, day int
	if _, err := fmt.Sscanf(parts[0], "%d", &month); err != nil {
		return nil
	}
	if _, err := fmt.Sscanf(parts[1], "%d", &day); err != nil {
		return nil
	}

	return &types.OptionQuote{
		Underlying: strings.ToUpper(strings.TrimSpace(symbol)),
		Strike:     strikeDec,
		Kind:       kind,
		Month:      month,
		Day:        day,
		Price:      priceDec,
	}
}
