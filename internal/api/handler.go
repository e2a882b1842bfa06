// Package api provides the HTTP API the browser front end uses to drive recon sessions
package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"

	"github.com/theopenlane/recon/internal/collector"
	"github.com/theopenlane/recon/internal/render"
	"github.com/theopenlane/recon/internal/session"
	"github.com/theopenlane/recon/internal/types"
)

// serviceName is reported by the health endpoint
const serviceName = "recon"

// Handler manages API endpoints
type Handler struct {
	sessions    *session.Manager
	renderer    *render.Renderer
	maxBodySize int64
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status" example:"healthy"`
	Service   string `json:"service" example:"recon"`
	Timestamp string `json:"timestamp" example:"2024-01-15T10:30:00Z"`
}

// SessionView is the client facing state of a session
type SessionView struct {
	// ID identifies the session in subsequent requests
	ID string `json:"id"`
	// Domain is the current domain text
	Domain string `json:"domain"`
	// ScanType is the selected scan type
	ScanType types.ScanType `json:"scan_type"`
	// Description describes the selected scan type
	Description string `json:"description"`
	// Loading is true while a scan is in flight
	Loading bool `json:"loading"`
	// SubmitLabel is the call to action for the submit control
	SubmitLabel string `json:"submit_label"`
	// Result is the current scan result, null before the first scan and while loading
	Result *types.ScanResult `json:"result"`
	// Transcript is the plain text terminal rendering of the session
	Transcript string `json:"transcript"`
}

// InputRequest updates the session input; omitted fields are left unchanged
type InputRequest struct {
	Domain   *string `json:"domain,omitempty"`
	ScanType *string `json:"scan_type,omitempty"`
}

// handleHealth returns service health status
func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Service:   serviceName,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// handleScanTypes lists the supported scan types in display order
func (h *Handler) handleScanTypes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, types.ScanTypes())
}

// requireSessions rejects session routes when no manager is configured
func (h *Handler) requireSessions(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.sessions == nil {
			respondError(w, http.StatusServiceUnavailable, errCodeUnavailable, ErrSessionsNotConfigured.Error())
			return
		}

		next.ServeHTTP(w, r)
	})
}

// handleCreateSession starts a new session
func (h *Handler) handleCreateSession(w http.ResponseWriter, _ *http.Request) {
	sess, err := h.sessions.Create()
	if err != nil {
		respondError(w, http.StatusInternalServerError, errCodeInternal, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, h.view(sess))
}

// handleGetSession returns the current session view
func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.lookup(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, h.view(sess))
}

// handleDeleteSession drops the session and any scan it has in flight
func (h *Handler) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Delete(chi.URLParam(r, "id")); err != nil {
		respondSessionError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleUpdateInput sets the domain text and/or the selected scan type
func (h *Handler) handleUpdateInput(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.lookup(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)

	var req InputRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, errCodeInvalidRequest, ErrInvalidRequestBody.Error())
		return
	}

	if req.Domain == nil && req.ScanType == nil {
		respondError(w, http.StatusBadRequest, errCodeInvalidRequest, ErrEmptyInput.Error())
		return
	}

	c := sess.Collector()

	if c.Busy() {
		respondError(w, http.StatusConflict, errCodeConflict, collector.ErrInputLocked.Error())
		return
	}

	if req.ScanType != nil {
		scanType, err := types.ParseScanType(*req.ScanType)
		if err != nil {
			respondError(w, http.StatusBadRequest, errCodeValidation, err.Error())
			return
		}

		if err := c.SetScanType(scanType); err != nil {
			respondInputError(w, err)
			return
		}
	}

	if req.Domain != nil {
		if err := c.SetDomain(*req.Domain); err != nil {
			respondInputError(w, err)
			return
		}
	}

	writeJSON(w, http.StatusOK, h.view(sess))
}

// handleSubmitScan submits the session input. Input that fails validation is
// answered with its error result; valid input is scanned in the background
func (h *Handler) handleSubmitScan(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.lookup(w, r)
	if !ok {
		return
	}

	c := sess.Collector()

	if strings.TrimSpace(c.Domain()) == "" {
		respondError(w, http.StatusBadRequest, errCodeValidation, ErrDomainBlank.Error())
		return
	}

	switch c.Dispatch(r.Context()) {
	case collector.OutcomeDispatched:
		writeJSON(w, http.StatusAccepted, h.view(sess))
	case collector.OutcomeFinalized:
		writeJSON(w, http.StatusOK, h.view(sess))
	default:
		respondError(w, http.StatusConflict, errCodeConflict, ErrScanInProgress.Error())
	}
}

// lookup resolves the session named in the route, writing the error response when it is unknown
func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := h.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		respondSessionError(w, err)
		return nil, false
	}

	return sess, true
}

// respondSessionError maps session manager errors to API errors
func respondSessionError(w http.ResponseWriter, err error) {
	if errors.Is(err, session.ErrSessionNotFound) {
		respondError(w, http.StatusNotFound, errCodeNotFound, session.ErrSessionNotFound.Error())
		return
	}

	respondError(w, http.StatusInternalServerError, errCodeInternal, err.Error())
}

// respondInputError maps collector input errors to API errors
func respondInputError(w http.ResponseWriter, err error) {
	if errors.Is(err, collector.ErrInputLocked) {
		respondError(w, http.StatusConflict, errCodeConflict, err.Error())
		return
	}

	respondError(w, http.StatusBadRequest, errCodeValidation, err.Error())
}

// view builds the client facing state of sess
func (h *Handler) view(sess *session.Session) SessionView {
	c := sess.Collector()
	loading := c.Busy()

	var result *types.ScanResult
	if !loading {
		result = sess.Scanner().State().Result
	}

	return SessionView{
		ID:          sess.ID,
		Domain:      c.Domain(),
		ScanType:    c.ScanType(),
		Description: c.Description(),
		Loading:     loading,
		SubmitLabel: lo.Ternary(loading, collector.SubmitLabelBusy, collector.SubmitLabelIdle),
		Result:      result,
		Transcript:  h.renderer.Text(result, loading),
	}
}
