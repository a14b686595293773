package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"tessera-hq/tessera/pkg/compat"
	"tessera-hq/tessera/pkg/history"
)

// maxValidateBody bounds the props payload; prop bags are small by nature.
const maxValidateBody = 1 << 20

// validateRequest is the POST /v1/validate payload.
type validateRequest struct {
	Component string         `json:"component"`
	Space     string         `json:"space"`
	Props     map[string]any `json:"props"`
}

// errorResponse is the body for non-2xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxValidateBody))
	if err := decoder.Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds %d bytes", maxErr.Limit))
			return
		}
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if req.Component == "" || req.Space == "" {
		writeError(w, http.StatusBadRequest, "component and space are required")
		return
	}

	component := compat.ComponentType(req.Component)
	space := compat.SpaceType(req.Space)

	start := time.Now()
	result := s.ruleManager.Validator().Validate(component, space, req.Props)
	elapsed := time.Since(start)

	if s.collector != nil {
		s.collector.RecordValidation(component, space, result, elapsed)
	}

	var reportID string
	if s.store != nil {
		report := history.NewReport(component, space, result)
		if err := s.store.Save(r.Context(), report); err != nil {
			// Recording is best-effort; the validation result is still good.
			s.logger.Error("failed to record validation report", "error", err)
		} else {
			reportID = report.ID
		}
	}

	writeJSON(w, http.StatusOK, struct {
		compat.Result
		ReportID string `json:"report_id,omitempty"`
	}{Result: result, ReportID: reportID})
}

// rulesListing is one entry of the GET /v1/rules response.
type rulesListing struct {
	Component string         `json:"component"`
	Space     string         `json:"space"`
	Limits    []limitListing `json:"limits"`
}

type limitListing struct {
	Quantity string `json:"quantity"`
	Soft     int    `json:"soft"`
	Hard     int    `json:"hard"`
}

func (s *Server) handleRules(w http.ResponseWriter, r *http.Request) {
	registry := s.ruleManager.Validator().Registry()

	listings := make([]rulesListing, 0, registry.Len())
	for _, pair := range registry.Pairs() {
		listing := rulesListing{
			Component: string(pair.Component),
			Space:     string(pair.Space),
		}
		for _, l := range pair.Rules.Limits {
			listing.Limits = append(listing.Limits, limitListing{
				Quantity: string(l.Quantity),
				Soft:     l.Soft,
				Hard:     l.Hard,
			})
		}
		listings = append(listings, listing)
	}

	writeJSON(w, http.StatusOK, map[string]any{"rules": listings})
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotFound, "history is not enabled")
		return
	}

	opts := history.ListOptions{}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		opts.Limit = n
	}
	if v := r.URL.Query().Get("only_invalid"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid only_invalid")
			return
		}
		opts.OnlyInvalid = b
	}

	reports, err := s.store.List(r.Context(), opts)
	if err != nil {
		s.logger.Error("failed to list reports", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list reports")
		return
	}
	if reports == nil {
		reports = []*history.Report{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"reports": reports})
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotFound, "history is not enabled")
		return
	}

	report, err := s.store.Get(r.Context(), r.PathValue("id"))
	if errors.Is(err, history.ErrNotFound) {
		writeError(w, http.StatusNotFound, "report not found")
		return
	}
	if err != nil {
		s.logger.Error("failed to load report", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load report")
		return
	}

	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "ok",
		"rule_pairs":   s.ruleManager.Validator().Registry().Len(),
		"rule_reloads": s.ruleManager.Reloads(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Default().Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
