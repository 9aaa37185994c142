package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/pikad/herald/internal/logstore"
	"github.com/pikad/herald/internal/message"
	"github.com/pikad/herald/internal/notify"
	"github.com/pikad/herald/internal/template"
)

// SendRequest is the request body for POST /send
type SendRequest struct {
	To          string               `json:"to"`
	Subject     string               `json:"subject"`
	HTML        string               `json:"html,omitempty"`
	Text        string               `json:"text,omitempty"`
	Attachments []message.Attachment `json:"attachments,omitempty"`
	ReplyTo     string               `json:"reply_to,omitempty"`
	CC          []string             `json:"cc,omitempty"`
	BCC         []string             `json:"bcc,omitempty"`
}

// TemplateRequest is the request body for POST /send/template
type TemplateRequest struct {
	To       string         `json:"to"`
	Template string         `json:"template"`
	Data     map[string]any `json:"data"`
}

// BatchRequest is the request body for POST /send/batch
type BatchRequest struct {
	Recipients []string       `json:"recipients"`
	Template   string         `json:"template"`
	Data       map[string]any `json:"data"`
}

// HealthResponse is the response for GET /health
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Uptime  string `json:"uptime"`
}

// ErrorResponse is the error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// handleSend handles POST /api/v1/send
func (s *Server) handleSend(w http.ResponseWriter, r *http.Request) {
	var req SendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	msg := message.New(req.To, req.Subject, req.HTML, req.Text)
	msg.Attachments = req.Attachments
	msg.ReplyTo = req.ReplyTo
	msg.CC = req.CC
	msg.BCC = req.BCC

	result, err := s.notifier.Send(r.Context(), msg)
	if err != nil {
		s.sendPipelineError(w, err)
		return
	}

	s.sendJSON(w, http.StatusOK, result)
}

// handleSendTemplate handles POST /api/v1/send/template
func (s *Server) handleSendTemplate(w http.ResponseWriter, r *http.Request) {
	var req TemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.To == "" {
		s.sendError(w, http.StatusBadRequest, "to is required")
		return
	}
	if req.Template == "" {
		s.sendError(w, http.StatusBadRequest, "template is required")
		return
	}

	result, err := s.notifier.SendTemplate(r.Context(), template.Type(req.Template), req.Data, req.To)
	if err != nil {
		s.sendPipelineError(w, err)
		return
	}

	s.sendJSON(w, http.StatusOK, result)
}

// handleSendBatch handles POST /api/v1/send/batch
func (s *Server) handleSendBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Recipients) == 0 {
		s.sendError(w, http.StatusBadRequest, "recipients is required")
		return
	}
	if req.Template == "" {
		s.sendError(w, http.StatusBadRequest, "template is required")
		return
	}

	result, err := s.notifier.SendBatch(r.Context(), req.Recipients, template.Type(req.Template), req.Data)
	if err != nil {
		s.sendPipelineError(w, err)
		return
	}

	s.sendJSON(w, http.StatusOK, result)
}

// handleWebhook returns a handler that feeds the raw event payload for
// the given kind into the event mapper.
func (s *Server) handleWebhook(kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, err := io.ReadAll(r.Body)
		if err != nil {
			s.sendError(w, http.StatusBadRequest, "Failed to read request body")
			return
		}

		result, err := s.events.HandleEvent(r.Context(), kind, payload)
		if err != nil {
			s.sendPipelineError(w, err)
			return
		}

		s.sendJSON(w, http.StatusOK, result)
	}
}

// handleStats handles GET /api/v1/stats
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	report, err := s.stats.Collect(r.Context())
	if err != nil {
		s.logger.Error("failed to collect stats", "error", err)
		s.sendError(w, http.StatusInternalServerError, "Failed to collect stats")
		return
	}

	s.sendJSON(w, http.StatusOK, report)
}

// handleHistory handles GET /api/v1/history
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	filter, err := parseHistoryFilter(r)
	if err != nil {
		s.sendError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.store.Query(r.Context(), filter)
	if err != nil {
		s.logger.Error("failed to query delivery log", "error", err)
		s.sendError(w, http.StatusInternalServerError, "Failed to query delivery log")
		return
	}

	s.sendJSON(w, http.StatusOK, result)
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.sendJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Service: "herald",
		Uptime:  time.Since(s.startTime).String(),
	})
}

// parseHistoryFilter builds a log query filter from URL parameters.
func parseHistoryFilter(r *http.Request) (logstore.Filter, error) {
	var f logstore.Filter
	q := r.URL.Query()

	if status := q.Get("status"); status != "" {
		switch logstore.Status(status) {
		case logstore.StatusSent, logstore.StatusFailed:
			f.Status = logstore.Status(status)
		default:
			return f, errors.New("status must be sent or failed")
		}
	}

	if from := q.Get("from"); from != "" {
		ts, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return f, errors.New("from must be an RFC 3339 timestamp")
		}
		f.From = ts
	}
	if to := q.Get("to"); to != "" {
		ts, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return f, errors.New("to must be an RFC 3339 timestamp")
		}
		f.To = ts
	}

	if page := q.Get("page"); page != "" {
		n, err := strconv.Atoi(page)
		if err != nil || n < 1 {
			return f, errors.New("page must be a positive integer")
		}
		f.Page = n
	}
	if size := q.Get("page_size"); size != "" {
		n, err := strconv.Atoi(size)
		if err != nil || n < 1 {
			return f, errors.New("page_size must be a positive integer")
		}
		f.PageSize = n
	}

	return f, nil
}

// sendPipelineError maps pipeline errors to HTTP statuses: contract
// violations are the caller's fault, everything else is ours.
func (s *Server) sendPipelineError(w http.ResponseWriter, err error) {
	var verr *notify.ValidationError
	var eerr *notify.EventError

	switch {
	case errors.As(err, &verr), errors.As(err, &eerr):
		s.sendError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error("notification dispatch failed", "error", err)
		s.sendError(w, http.StatusInternalServerError, err.Error())
	}
}

// sendJSON sends a JSON response
func (s *Server) sendJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// sendError sends an error response
func (s *Server) sendError(w http.ResponseWriter, status int, msg string) {
	s.sendJSON(w, status, ErrorResponse{Error: msg})
}
