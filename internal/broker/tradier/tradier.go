// Package tradier submits bracket orders to the Tradier brokerage API as a
// single OTOCO (one-triggers-a-one-cancels-other) ticket: a limit entry
// whose fill activates a take-profit limit and a stop-limit, each
// cancelling the other.
package tradier

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/IndianaJonesR/Discord-Trading-Engine/internal/api"
	"github.com/IndianaJonesR/Discord-Trading-Engine/internal/logger"
	"github.com/IndianaJonesR/Discord-Trading-Engine/internal/types"
)

type Params struct {
	Mode      string // DRY_RUN or LIVE
	BaseURL   string // e.g. https://sandbox.tradier.com
	AccountID string
	Token     string
	Duration  string // day (default) or gtc
}

type Client struct {
	params Params
	api    *api.Client
	retry  *api.RetryConfig // nil = api.DefaultRetryConfig
}

func New(p Params) *Client {
	if p.Duration == "" {
		p.Duration = "day"
	}
	return &Client{
		params: p,
		api: api.NewClient(
			api.WithBaseURL(p.BaseURL),
			api.WithHeader("Authorization", "Bearer "+p.Token),
			api.WithHeader("Accept", "application/json"),
			api.WithTimeout(15*time.Second),
			api.WithLogging(true),
		),
	}
}

// SubmitBracket posts the three-leg OTOCO order. Transport failures and 5xx
// answers are retried with backoff; exhaustion is an error. An HTTP
// rejection comes back as a result with the status code and whatever body
// the brokerage sent, for the caller to judge.
func (c *Client) SubmitBracket(ctx context.Context, plan types.OrderPlan) (types.SubmitResult, error) {
	form := otocoPayload(plan, c.params.Duration)

	if c.params.Mode == "DRY_RUN" {
		logger.Info(ctx, "DRY_RUN: skipping order submission",
			"option_symbol", plan.OptionSymbol,
			"payload", form.Encode(),
		)
		return types.SubmitResult{
			StatusCode: 200,
			OrderID:    "dry-run",
			Body:       map[string]any{"order": map[string]any{"id": "dry-run", "status": "ok"}},
		}, nil
	}

	path := fmt.Sprintf("/v1/accounts/%s/orders", c.params.AccountID)
	req := api.NewRequest(http.MethodPost, path).WithContext(ctx).WithForm(form)
	resp, err := c.api.DoWithRetry(req, c.retry)
	if resp == nil {
		return types.SubmitResult{}, err
	}

	result := types.SubmitResult{StatusCode: resp.StatusCode}
	var body map[string]any
	if perr := resp.ParseJSON(&body); perr == nil {
		result.Body = body
		result.OrderID = orderID(body)
	}
	return result, nil
}

// otocoPayload lays the three legs out in Tradier's indexed form-field
// format. All legs share the option symbol and duration.
func otocoPayload(plan types.OrderPlan, duration string) url.Values {
	qty := strconv.Itoa(plan.Quantity)
	return url.Values{
		"class":    {"otoco"},
		"duration": {duration},
		// Primary buy order
		"type[0]":          {"limit"},
		"price[0]":         {plan.EntryLimit.StringFixed(2)},
		"option_symbol[0]": {plan.OptionSymbol},
		"side[0]":          {"buy_to_open"},
		"quantity[0]":      {qty},
		// Take profit order
		"type[1]":          {"limit"},
		"price[1]":         {plan.TakeProfit.StringFixed(2)},
		"option_symbol[1]": {plan.OptionSymbol},
		"side[1]":          {"sell_to_close"},
		"quantity[1]":      {qty},
		// Stop loss order, triggering and filling at the same price
		"type[2]":          {"stop_limit"},
		"price[2]":         {plan.StopTrigger.StringFixed(2)},
		"stop[2]":          {plan.StopTrigger.StringFixed(2)},
		"option_symbol[2]": {plan.OptionSymbol},
		"side[2]":          {"sell_to_close"},
		"quantity[2]":      {qty},
	}
}

func orderID(body map[string]any) string {
	order, ok := body["order"].(map[string]any)
	if !ok {
		return ""
	}
	switch id := order["id"].(type) {
	case string:
		return id
	case float64:
		return strconv.FormatInt(int64(id), 10)
	default:
		return ""
	}
}
