// Package webapi is the HTTP surface over the risk configuration: read the
// document, update one sub-object at a time, reset to defaults, and submit
// a manual trade through the same pipeline the chat alerts use.
package webapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/IndianaJonesR/Discord-Trading-Engine/internal/interfaces"
	"github.com/IndianaJonesR/Discord-Trading-Engine/internal/logger"
	"github.com/IndianaJonesR/Discord-Trading-Engine/internal/riskcfg"
)

// Server serves the config API. The engine is optional: the standalone
// config process runs without one and rejects manual trades.
type Server struct {
	risk *riskcfg.Store
	eng  interfaces.Engine
	mux  *http.ServeMux
}

func NewServer(risk *riskcfg.Store, eng interfaces.Engine) *Server {
	s := &Server{risk: risk, eng: eng, mux: http.NewServeMux()}
	s.mux.HandleFunc("GET /api/config", s.getConfig)
	s.mux.HandleFunc("POST /api/position", s.updatePosition)
	s.mux.HandleFunc("POST /api/stop-loss", s.updateStopLoss)
	s.mux.HandleFunc("POST /api/take-profit", s.updateTakeProfit)
	s.mux.HandleFunc("POST /api/entry-adjustment", s.updateEntryAdjustment)
	s.mux.HandleFunc("POST /api/reset", s.reset)
	s.mux.HandleFunc("POST /api/trades", s.submitTrade)
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

// ListenAndServe runs the server until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	logger.Info(ctx, "Config API listening", "addr", addr)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSuccess(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"status": "error", "message": msg})
}

// writeUpdateResult maps validation failures to 400 with the field-level
// reason; anything else wrong with the backing store is a 500.
func writeUpdateResult(w http.ResponseWriter, err error) {
	if err == nil {
		writeSuccess(w)
		return
	}
	var verr *riskcfg.ValidationError
	if errors.As(err, &verr) {
		writeError(w, http.StatusBadRequest, verr.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

func (s *Server) getConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.risk.Load(r.Context()))
}

func (s *Server) updatePosition(w http.ResponseWriter, r *http.Request) {
	var body struct {
		MinAmount float64 `json:"min_amount"`
		MaxAmount float64 `json:"max_amount"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	_, err := s.risk.SetPositionSize(r.Context(), body.MinAmount, body.MaxAmount)
	writeUpdateResult(w, err)
}

func (s *Server) updateStopLoss(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Percentage float64 `json:"percentage"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	_, err := s.risk.SetStopLoss(r.Context(), body.Percentage)
	writeUpdateResult(w, err)
}

func (s *Server) updateTakeProfit(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Percentage float64 `json:"percentage"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	_, err := s.risk.SetTakeProfit(r.Context(), body.Percentage)
	writeUpdateResult(w, err)
}

func (s *Server) updateEntryAdjustment(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Percentage float64 `json:"percentage"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	// The UI speaks markup percent (5 -> multiplier 1.05).
	_, err := s.risk.SetEntryAdjustment(r.Context(), 1+body.Percentage/100)
	writeUpdateResult(w, err)
}

func (s *Server) reset(w http.ResponseWriter, r *http.Request) {
	_, err := s.risk.Reset(r.Context())
	writeUpdateResult(w, err)
}

// submitTrade runs a manual trade through the same extract -> plan ->
// submit path the chat alerts take.
func (s *Server) submitTrade(w http.ResponseWriter, r *http.Request) {
	if s.eng == nil {
		writeError(w, http.StatusServiceUnavailable, "trading engine not running in this process")
		return
	}

	var body map[string]string
	if !decodeBody(w, r, &body) {
		return
	}
	for _, field := range []string{"symbol", "strike", "option_type", "expiration", "price"} {
		if body[field] == "" {
			writeError(w, http.StatusBadRequest, "Missing required field: "+field)
			return
		}
	}

	text := fmt.Sprintf("$%s %s %s %s $%s",
		body["symbol"], body["strike"], body["option_type"], body["expiration"], body["price"])
	result, err := s.eng.HandleMessage(r.Context(), text)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "success",
		"message": result.Reason,
		"trade":   result,
	})
}
