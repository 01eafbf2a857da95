package webapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/IndianaJonesR/Discord-Trading-Engine/internal/riskcfg"
	"github.com/IndianaJonesR/Discord-Trading-Engine/internal/types"
)

type fakeEngine struct {
	lastText string
	result   *types.AlertResult
	err      error
}

func (f *fakeEngine) HandleMessage(ctx context.Context, text string) (*types.AlertResult, error) {
	f.lastText = text
	return f.result, f.err
}

func newTestServer(t *testing.T, eng *fakeEngine) (*Server, *riskcfg.Store) {
	t.Helper()
	store := riskcfg.NewStore(riskcfg.NewMemoryPersistence())
	if eng == nil {
		return NewServer(store, nil), store
	}
	return NewServer(store, eng), store
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("response is not JSON: %v (%s)", err, rec.Body.String())
	}
	return out
}

func TestGetConfigReturnsDefaults(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	rec := doJSON(t, srv.Handler(), http.MethodGet, "/api/config", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var cfg riskcfg.Config
	if err := json.Unmarshal(rec.Body.Bytes(), &cfg); err != nil {
		t.Fatalf("decode config: %v", err)
	}
	if cfg != riskcfg.Default() {
		t.Errorf("config = %+v, want defaults", cfg)
	}
}

func TestUpdatePositionPersists(t *testing.T) {
	srv, store := newTestServer(t, nil)

	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/position",
		`{"min_amount": 300, "max_amount": 1000}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if got := decode(t, rec)["status"]; got != "success" {
		t.Errorf("status field = %v, want success", got)
	}

	cfg := store.Load(context.Background())
	if cfg.PositionSize.MinAmount != 300 || cfg.PositionSize.MaxAmount != 1000 {
		t.Errorf("stored position size = %+v", cfg.PositionSize)
	}
}

func TestUpdatePositionRejectsInvertedBand(t *testing.T) {
	srv, store := newTestServer(t, nil)

	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/position",
		`{"min_amount": 500, "max_amount": 100}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	out := decode(t, rec)
	if out["status"] != "error" || out["message"] == "" {
		t.Errorf("error envelope = %v", out)
	}

	if store.Load(context.Background()) != riskcfg.Default() {
		t.Error("failed update must not change the stored config")
	}
}

func TestUpdateStopLossAndTakeProfit(t *testing.T) {
	srv, store := newTestServer(t, nil)

	if rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/stop-loss", `{"percentage": 25}`); rec.Code != http.StatusOK {
		t.Fatalf("stop-loss status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/take-profit", `{"percentage": 40}`); rec.Code != http.StatusOK {
		t.Fatalf("take-profit status = %d, body = %s", rec.Code, rec.Body.String())
	}

	cfg := store.Load(context.Background())
	if cfg.StopLoss.Percentage != 25 || cfg.TakeProfit.Percentage != 40 {
		t.Errorf("config = %+v", cfg)
	}
}

func TestEntryAdjustmentConvertsPercentToMultiplier(t *testing.T) {
	srv, store := newTestServer(t, nil)

	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/entry-adjustment", `{"percentage": 5}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	if got := store.Load(context.Background()).EntryPriceAdjustment; got != 1.05 {
		t.Errorf("entry adjustment = %v, want 1.05", got)
	}
}

func TestResetRestoresDefaults(t *testing.T) {
	srv, store := newTestServer(t, nil)

	doJSON(t, srv.Handler(), http.MethodPost, "/api/stop-loss", `{"percentage": 25}`)
	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/reset", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	if store.Load(context.Background()) != riskcfg.Default() {
		t.Error("reset did not restore defaults")
	}
}

func TestMalformedBodyIsBadRequest(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/stop-loss", `{"percentage": `)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestSubmitTradeRunsThroughEngine(t *testing.T) {
	eng := &fakeEngine{result: &types.AlertResult{Submitted: true, Reason: "order submitted"}}
	srv, _ := newTestServer(t, eng)

	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/trades",
		`{"symbol": "SPY", "strike": "400", "option_type": "Calls", "expiration": "3/15", "price": "1.25"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	want := "$SPY 400 Calls 3/15 $1.25"
	if eng.lastText != want {
		t.Errorf("engine text = %q, want %q", eng.lastText, want)
	}
	if got := decode(t, rec)["status"]; got != "success" {
		t.Errorf("status field = %v", got)
	}
}

func TestSubmitTradeRequiresAllFields(t *testing.T) {
	eng := &fakeEngine{}
	srv, _ := newTestServer(t, eng)

	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/trades",
		`{"symbol": "SPY", "strike": "400"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if eng.lastText != "" {
		t.Error("engine must not be called for incomplete requests")
	}
}

func TestSubmitTradeWithoutEngineIsUnavailable(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/trades",
		`{"symbol": "SPY", "strike": "400", "option_type": "Calls", "expiration": "3/15", "price": "1.25"}`)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}
