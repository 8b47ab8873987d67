package initialize_call

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
	msgNotACall             = "appointment is not a video or audio consultation"
	msgNotJoinable          = "appointment status does not allow a call"
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

// Handle POST /api/v1/appointments/{appointmentId}/call/initialize
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, "missing X-User-ID header")
		return
	}

	vars := mux.Vars(r)
	appointmentID, err := strconv.ParseInt(vars["appointmentId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /appointments/{id}/call/initialize - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	result, err := h.service.Initialize(r.Context(), appointmentID, userID)
	if err != nil {
		switch {
		case errors.Is(err, calls.ErrAppointmentNotFound):
			h.logger.Warn("POST /appointments/{id}/call/initialize - Not found: appointment_id=%d", appointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, calls.ErrAccessDenied):
			h.logger.Warn("POST /appointments/{id}/call/initialize - Access denied: appointment_id=%d, user_id=%d",
				appointmentID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, calls.ErrNotACallAppointment):
			h.logger.Warn("POST /appointments/{id}/call/initialize - Not a call: appointment_id=%d", appointmentID)
			handlers.RespondUnprocessable(w, msgNotACall)

		case errors.Is(err, calls.ErrNotJoinable):
			h.logger.Warn("POST /appointments/{id}/call/initialize - Not joinable: appointment_id=%d", appointmentID)
			handlers.RespondConflict(w, msgNotJoinable)

		default:
			h.logger.Error("POST /appointments/{id}/call/initialize - Failed: appointment_id=%d, error=%v",
				appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments/{id}/call/initialize - Call initialized: appointment_id=%d, channel=%s",
		appointmentID, result.ChannelName)
	handlers.RespondJSON(w, http.StatusOK, result)
}
