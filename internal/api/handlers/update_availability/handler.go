package update_availability

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/vaidhya-health/appointment-service/internal/api/handlers"
	"github.com/vaidhya-health/appointment-service/internal/api/middleware"
	"github.com/vaidhya-health/appointment-service/internal/service/availability"
)

const (
	msgInvalidProviderID  = "invalid provider ID"
	msgInvalidRequestBody = "invalid request body"
	msgDoctorNotFound     = "doctor not found"
	msgForbidden          = "access denied"
	msgInvalidSchedule    = "invalid schedule"
)

type Handler struct {
	service AvailabilityService
	logger  Logger
}

func NewHandler(service AvailabilityService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/providers/{providerId}/availability
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, "missing X-User-ID header")
		return
	}

	vars := mux.Vars(r)
	providerID, err := strconv.ParseInt(vars["providerId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /providers/{providerId}/availability - Invalid provider ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProviderID)
		return
	}

	// Провайдер меняет только собственное расписание
	if providerID != userID {
		h.logger.Warn("PUT /providers/{providerId}/availability - Access denied: provider_id=%d, user_id=%d",
			providerID, userID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	var req UpdateAvailabilityRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /providers/{providerId}/availability - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Update(r.Context(), req.ToServiceRequest(providerID))
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrDoctorNotFound):
			h.logger.Warn("PUT /providers/{providerId}/availability - Doctor not found: provider_id=%d", providerID)
			handlers.RespondNotFound(w, msgDoctorNotFound)

		case errors.Is(err, availability.ErrInvalidSchedule):
			h.logger.Warn("PUT /providers/{providerId}/availability - Invalid schedule: %v", err)
			handlers.RespondUnprocessable(w, err.Error())

		case errors.Is(err, availability.ErrInvalidInput):
			h.logger.Warn("PUT /providers/{providerId}/availability - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("PUT /providers/{providerId}/availability - Failed: provider_id=%d, error=%v",
				providerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /providers/{providerId}/availability - Schedule replaced: provider_id=%d", providerID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
