// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"cv-sanitizer/internal/detector"
	"cv-sanitizer/internal/logger"
	"cv-sanitizer/internal/redactors"
	"cv-sanitizer/internal/sessions"
)

type detectRequest struct {
	Text   string `json:"text"`
	Locale string `json:"locale"`
}

type detectResponse struct {
	Locale  string               `json:"country_code"`
	Matches []detector.Match     `json:"matches"`
	Summary redactors.PIISummary `json:"summary"`
}

type redactRequest struct {
	Text      string                  `json:"text"`
	Locale    string                  `json:"locale"`
	Username  string                  `json:"username"`
	Document  string                  `json:"document"`
	Edits     []redactors.Edit        `json:"edits"`
	Additions []redactors.ManualMatch `json:"additions"`
}

type redactResponse struct {
	SessionID    string                 `json:"session_id,omitempty"`
	Locale       string                 `json:"country_code"`
	RedactedText string                 `json:"redacted_text"`
	Mapping      redactors.Mapping      `json:"mapping"`
	Matches      []detector.Match       `json:"matches"`
	Edits        []redactors.EditRecord `json:"user_edits"`
	Summary      redactors.PIISummary   `json:"summary"`
}

type restoreRequest struct {
	Text    string            `json:"text"`
	Mapping redactors.Mapping `json:"mapping"`
}

type restoreResponse struct {
	Text string `json:"text"`
}

func (s *Server) locale(requested string) string {
	if strings.TrimSpace(requested) == "" {
		return s.scanner.Engine().DefaultLocale()
	}
	return detector.NormalizeLocale(requested)
}

func (s *Server) handleDetect(w http.ResponseWriter, r *http.Request) {
	var req detectRequest
	if !s.decode(w, r, &req) {
		return
	}
	locale := s.locale(req.Locale)

	matches, err := s.scanner.DetectText(r.Context(), req.Text, locale)
	if err != nil {
		s.respondFailure(w, err)
		return
	}
	if matches == nil {
		matches = []detector.Match{}
	}
	s.metrics.CountDocument("scanned")
	respondJSON(w, http.StatusOK, detectResponse{
		Locale:  locale,
		Matches: matches,
		Summary: redactors.Summary(matches),
	})
}

// handleRedact detects, applies the caller's edits and additions, and returns
// the redacted text with its mapping. With a store configured the exchange is
// recorded as a confirmed session.
func (s *Server) handleRedact(w http.ResponseWriter, r *http.Request) {
	var req redactRequest
	if !s.decode(w, r, &req) {
		return
	}
	ctx := r.Context()
	locale := s.locale(req.Locale)

	matches, err := s.scanner.DetectText(ctx, req.Text, locale)
	if err != nil {
		s.respondFailure(w, err)
		return
	}

	session := redactors.NewSession(req.Text, locale, matches)
	session.SetObserver(s.scanner.Observer())
	if err := session.ApplyEdits(req.Edits); err != nil {
		s.respondFailure(w, err)
		return
	}
	for _, add := range req.Additions {
		if _, err := session.AddManual(add); err != nil {
			s.respondFailure(w, err)
			return
		}
	}

	resp := redactResponse{
		Locale:       locale,
		RedactedText: req.Text,
		Mapping:      redactors.Mapping{},
		Matches:      session.Matches(),
		Edits:        session.Edits(),
	}
	resp.Summary = redactors.Summary(resp.Matches)
	if len(resp.Matches) > 0 {
		result, err := session.Finalize()
		if err != nil {
			s.respondFailure(w, err)
			return
		}
		resp.RedactedText = result.RedactedText
		resp.Mapping = result.Mapping
	}

	if s.store != nil {
		resp.SessionID, err = s.audit(ctx, req, locale, matches, resp.Edits)
		if err != nil {
			logger.Error("failed to record redaction session", zap.Error(err))
			respondError(w, http.StatusInternalServerError, "audit_failed", err.Error())
			return
		}
	}
	s.metrics.CountDocument("redacted")
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) audit(ctx context.Context, req redactRequest, locale string, detected []detector.Match, edits []redactors.EditRecord) (string, error) {
	document := req.Document
	if document == "" {
		document = "api"
	}
	rec, err := s.store.Create(ctx, sessions.Record{Document: document, Username: req.Username, CountryCode: locale})
	if err != nil {
		return "", err
	}
	if err := s.store.RecordDetections(ctx, rec.ID, detected); err != nil {
		return "", err
	}
	for _, e := range edits {
		if err := s.store.RecordEdit(ctx, rec.ID, e); err != nil {
			return "", err
		}
	}
	if err := s.store.RecordConfirmation(ctx, rec.ID, req.Username, true, ""); err != nil {
		return "", err
	}
	return rec.ID, s.store.Complete(ctx, rec.ID, nil)
}

func (s *Server) handleRestore(w http.ResponseWriter, r *http.Request) {
	var req restoreRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Text == "" {
		respondError(w, http.StatusBadRequest, "empty_text", "text is required")
		return
	}
	respondJSON(w, http.StatusOK, restoreResponse{Text: redactors.Restore(req.Text, req.Mapping)})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		respondError(w, http.StatusNotImplemented, "unavailable", "session store not configured")
		return
	}
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	rec, err := s.store.Get(r.Context(), id)
	if errors.Is(err, sessions.ErrNotFound) {
		respondError(w, http.StatusNotFound, "session_not_found", err.Error())
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "store_error", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		respondError(w, http.StatusNotImplemented, "unavailable", "session store not configured")
		return
	}
	records, err := s.store.List(r.Context(), r.URL.Query().Get("username"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "store_error", err.Error())
		return
	}
	if records == nil {
		records = []sessions.Record{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"sessions": records})
}

// handleAudit summarizes sessions created between the optional RFC 3339
// from and to query parameters.
func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		respondError(w, http.StatusNotImplemented, "unavailable", "session store not configured")
		return
	}
	var from, to time.Time
	for name, dst := range map[string]*time.Time{"from": &from, "to": &to} {
		v := r.URL.Query().Get(name)
		if v == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid_"+name, fmt.Sprintf("%s must be RFC 3339: %v", name, err))
			return
		}
		*dst = t
	}
	records, err := s.store.List(r.Context(), "")
	if err != nil {
		respondError(w, http.StatusInternalServerError, "store_error", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, sessions.Summarize(records, from, to))
}

// decode reads the JSON body, answering the request itself on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, out any) bool {
	err := decodeJSON(r, out)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		respondError(w, http.StatusRequestEntityTooLarge, "body_too_large", err.Error())
	case errors.Is(err, errEmptyBody):
		respondError(w, http.StatusBadRequest, "empty_body", "request body is required")
	default:
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
	}
	return false
}

// respondFailure maps detection and review errors to status codes.
func (s *Server) respondFailure(w http.ResponseWriter, err error) {
	var redactionErr *redactors.RedactionError
	switch {
	case errors.Is(err, detector.ErrEmptyText):
		respondError(w, http.StatusBadRequest, "empty_text", err.Error())
	case errors.Is(err, detector.ErrInputTooLarge):
		respondError(w, http.StatusRequestEntityTooLarge, "input_too_large", err.Error())
	case errors.As(err, &redactionErr) && redactionErr.Type == redactors.ErrorInput:
		respondError(w, http.StatusUnprocessableEntity, "invalid_edit", err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		respondError(w, http.StatusServiceUnavailable, "cancelled", err.Error())
	default:
		logger.Error("request failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
