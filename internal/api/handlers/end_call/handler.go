package end_call

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/vaidhya-health/appointment-service/internal/api/handlers"
	"github.com/vaidhya-health/appointment-service/internal/api/middleware"
	"github.com/vaidhya-health/appointment-service/internal/service/calls"
)

const (
	msgInvalidAppointmentID = "invalid appointment ID"
	msgNotFound             = "appointment not found"
	msgForbidden            = "access denied"
	msgCallNotStarted       = "call has not been started"
)

type Handler struct {
	service CallService
	logger  Logger
}

func NewHandler(service CallService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments/{appointmentId}/call/end
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, "missing X-User-ID header")
		return
	}

	vars := mux.Vars(r)
	appointmentID, err := strconv.ParseInt(vars["appointmentId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /appointments/{id}/call/end - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	result, err := h.service.End(r.Context(), appointmentID, userID)
	if err != nil {
		switch {
		case errors.Is(err, calls.ErrAppointmentNotFound):
			h.logger.Warn("POST /appointments/{id}/call/end - Not found: appointment_id=%d", appointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, calls.ErrAccessDenied):
			h.logger.Warn("POST /appointments/{id}/call/end - Access denied: appointment_id=%d, user_id=%d",
				appointmentID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, calls.ErrCallNotStarted):
			h.logger.Warn("POST /appointments/{id}/call/end - Call not started: appointment_id=%d", appointmentID)
			handlers.RespondConflict(w, msgCallNotStarted)

		default:
			h.logger.Error("POST /appointments/{id}/call/end - Failed: appointment_id=%d, error=%v",
				appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments/{id}/call/end - Call ended: appointment_id=%d, duration=%v",
		appointmentID, result.CallDurationSeconds)
	handlers.RespondJSON(w, http.StatusOK, result)
}
