package valuation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/camayank/StartupValuator-sub001/pkg/core/engine"
	"github.com/camayank/StartupValuator-sub001/pkg/core/input"
	"github.com/camayank/StartupValuator-sub001/pkg/core/montecarlo"
	"github.com/camayank/StartupValuator-sub001/pkg/core/report"
	"github.com/camayank/StartupValuator-sub001/pkg/core/store"
	"github.com/camayank/StartupValuator-sub001/pkg/models"
)

const maxBodyBytes = 1 << 20

// RunRequest is the body of POST /api/valuation/run.
type RunRequest struct {
	Input      models.ValuationInput `json:"input"`
	AllMethods bool                  `json:"all_methods"`
	Simulate   bool                  `json:"simulate"`
	Seed       *uint64               `json:"seed,omitempty"`
}

// RunResponse wraps the report with its audit ID when a store is wired.
type RunResponse struct {
	RunID  *uuid.UUID     `json:"run_id,omitempty"`
	Report *engine.Report `json:"report"`
}

// ErrorResponse is the structured body of every non-2xx reply.
type ErrorResponse struct {
	Error string  `json:"error"`
	Kind  string  `json:"kind"`
	Field string  `json:"field,omitempty"`
	Min   float64 `json:"min,omitempty"`
	Max   float64 `json:"max,omitempty"`
}

// Handler holds dependencies for valuation endpoints
type Handler struct {
	Engine *engine.Engine
	Store  store.Repository
	Logger *zap.Logger
	now    func() time.Time
}

// NewHandler creates a new valuation handler. repo may be nil.
func NewHandler(eng *engine.Engine, repo store.Repository, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{Engine: eng, Store: repo, Logger: logger, now: time.Now}
}

// Register mounts the endpoints on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/valuation/run", h.HandleRun)
	mux.HandleFunc("/api/valuation/simulate", h.HandleSimulate)
	mux.HandleFunc("/api/valuation/frameworks", h.HandleFrameworks)
	mux.HandleFunc("/api/valuation/runs", h.HandleRuns)
}

func cors(w http.ResponseWriter, r *http.Request, methods string) bool {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", methods+", OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return true
	}
	return false
}

// HandleRun values one input. ?format=markdown or ?format=html renders the
// report instead of returning JSON.
func (h *Handler) HandleRun(w http.ResponseWriter, r *http.Request) {
	if cors(w, r, "POST") {
		return
	}
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", fmt.Errorf("use POST"))
		return
	}

	var req RunRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	rep, err := h.Engine.Run(r.Context(), req.Input, engine.Options{
		AllMethods: req.AllMethods,
		Simulate:   req.Simulate,
		Seed:       req.Seed,
	})
	if err != nil {
		h.Logger.Warn("valuation run failed", zap.String("company", req.Input.CompanyName), zap.Error(err))
		writeEngineError(w, err)
		return
	}

	switch r.URL.Query().Get("format") {
	case "markdown":
		h.render(w, "text/markdown; charset=utf-8", rep, report.Markdown)
		return
	case "html":
		h.render(w, "text/html; charset=utf-8", rep, report.HTML)
		return
	}

	resp := RunResponse{Report: rep}
	if h.Store != nil {
		rec := store.NewRunRecord(rep, h.now())
		if err := h.Store.Save(r.Context(), rec); err != nil {
			h.Logger.Error("failed to persist run", zap.Error(err))
		} else {
			resp.RunID = &rec.ID
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) render(w http.ResponseWriter, contentType string, rep *engine.Report, fn func(*engine.Report) (string, error)) {
	out, err := fn(rep)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "render", err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	io.WriteString(w, out)
}

// HandleSimulate runs a standalone Monte Carlo request.
func (h *Handler) HandleSimulate(w http.ResponseWriter, r *http.Request) {
	if cors(w, r, "POST") {
		return
	}
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", fmt.Errorf("use POST"))
		return
	}

	var req montecarlo.Request
	if err := decodeBody(w, r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err)
		return
	}

	res, err := h.Engine.Simulate(r.Context(), req)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleFrameworks lists the compliance frameworks.
func (h *Handler) HandleFrameworks(w http.ResponseWriter, r *http.Request) {
	if cors(w, r, "GET") {
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"tables_version": h.Engine.Tables().Version,
		"frameworks":     h.Engine.Frameworks(),
	})
}

// HandleRuns returns one stored run (?id=) or the latest runs (?limit=).
func (h *Handler) HandleRuns(w http.ResponseWriter, r *http.Request) {
	if cors(w, r, "GET") {
		return
	}
	if h.Store == nil {
		writeError(w, http.StatusNotImplemented, "no_store", fmt.Errorf("run persistence is not configured"))
		return
	}

	q := r.URL.Query()
	if raw := q.Get("id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid run id: %w", err))
			return
		}
		rec, err := h.Store.Load(r.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "store", err)
			return
		}
		writeJSON(w, http.StatusOK, rec)
		return
	}

	limit, _ := strconv.Atoi(q.Get("limit"))
	runs, err := h.Store.List(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "store", err)
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

// decodeBody accepts strict JSON and the lenient forms input.SmartParse
// repairs, but rejects bodies over maxBodyBytes and truncated documents.
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return fmt.Errorf("empty request body")
	}
	if _, err := input.ParseComplete(string(data), v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func writeDecodeError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, "body_too_large", err)
		return
	}
	writeError(w, http.StatusBadRequest, "bad_request", err)
}

func writeEngineError(w http.ResponseWriter, err error) {
	var (
		oor *models.OutOfRangeError
		ia  *models.InvalidAssumptionError
		mb  *models.MissingBenchmarkError
	)
	switch {
	case errors.As(err, &oor):
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error: err.Error(), Kind: "out_of_range_input", Field: oor.Field, Min: oor.Min, Max: oor.Max,
		})
	case errors.As(err, &ia):
		writeError(w, http.StatusUnprocessableEntity, "invalid_assumption", err)
	case errors.As(err, &mb):
		writeError(w, http.StatusUnprocessableEntity, "missing_benchmark_data", err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, "cancelled", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal", err)
	}
}

func writeError(w http.ResponseWriter, status int, kind string, err error) {
	writeJSON(w, status, ErrorResponse{Error: err.Error(), Kind: kind})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
