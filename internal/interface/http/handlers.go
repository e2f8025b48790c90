package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/alem-hub/admission-workflow/internal/domain/shared"
	"github.com/alem-hub/admission-workflow/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & STATUS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleRoot serves the root endpoint with basic API information.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{
		"name":    "Admission Workflow API",
		"version": s.deps.Version,
		"endpoints": map[string]string{
			"health":       "/health",
			"ready":        "/ready",
			"metrics":      "/metrics",
			"propositions": "/api/v1/propositions",
		},
	})
}

// handleHealth reports every check; 503 when a critical one fails.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker == nil {
		writeJSON(w, r, http.StatusOK, map[string]any{
			"status":  "healthy",
			"uptime":  s.Uptime().String(),
			"version": s.deps.Version,
		})
		return
	}

	status := s.deps.HealthChecker.Check(r.Context())
	if !status.Healthy {
		writeJSON(w, r, http.StatusServiceUnavailable, status)
		return
	}
	writeJSON(w, r, http.StatusOK, status)
}

// handleReady handles the readiness endpoint.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker != nil {
		status := s.deps.HealthChecker.Check(r.Context())
		if !status.Ready {
			writeJSON(w, r, http.StatusServiceUnavailable, map[string]string{
				"status": "not_ready",
				"reason": status.Message,
			})
			return
		}
	}
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ready"})
}

// handleLive handles the liveness endpoint.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "alive"})
}

// ══════════════════════════════════════════════════════════════════════════════
// ERROR MAPPING
// ══════════════════════════════════════════════════════════════════════════════

// statusFor maps an application error to an HTTP status and error code.
func statusFor(err error) (int, string) {
	switch {
	case shared.IsBusinessRule(err):
		return http.StatusUnprocessableEntity, "business_rule_violation"
	case shared.IsNotFound(err):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, shared.ErrConcurrentModification),
		shared.IsInvalidState(err),
		shared.IsAlreadyExists(err):
		return http.StatusConflict, "conflict"
	case shared.IsValidation(err):
		return http.StatusBadRequest, "invalid_request"
	case shared.IsExternalService(err):
		return http.StatusServiceUnavailable, "service_unavailable"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "timeout"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// violations lists the business rules carried by err.
func violations(err error) []Violation {
	if m, ok := shared.AsMultipleBusinessErrors(err); ok {
		out := make([]Violation, 0, len(m.Errors))
		for _, e := range m.Errors {
			out = append(out, Violation{Code: e.Code, Kind: e.Kind, Message: e.Message})
		}
		return out
	}
	var single *shared.BusinessError
	if errors.As(err, &single) {
		return []Violation{{Code: single.Code, Kind: single.Kind, Message: single.Message}}
	}
	return nil
}

// writeError maps err to a JSON error response. Internal details are logged,
// never returned.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, code := statusFor(err)
	apiErr := &APIError{Code: code, Violations: violations(err)}

	var domainErr *shared.DomainError
	switch {
	case status == http.StatusInternalServerError:
		apiErr.Message = "An unexpected error occurred"
	case len(apiErr.Violations) > 0:
		apiErr.Message = apiErr.Violations[0].Message
	case errors.As(err, &domainErr):
		apiErr.Message = domainErr.Message
	default:
		apiErr.Message = err.Error()
	}

	log := logger.FromContext(r.Context())
	attrs := []any{logger.Operation(op), logger.Err(err), slog.Int("status", status)}
	if status >= http.StatusInternalServerError {
		log.Error("request failed", attrs...)
	} else {
		log.Debug("request rejected", attrs...)
	}

	writeAPIError(w, r, status, apiErr)
}

// invalidRequest builds an error mapped to 400.
func invalidRequest(message string) error {
	return shared.NewDomainError("http", "Decode", shared.ErrInvalidInput, message)
}
