package get_availability

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/vaidhya-health/appointment-service/internal/api/handlers"
	"github.com/vaidhya-health/appointment-service/internal/service/availability"
)

const (
	msgInvalidProviderID = "invalid provider ID"
	msgDoctorNotFound    = "doctor not found"
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

// Handle GET /api/v1/providers/{providerId}/availability
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	providerID, err := strconv.ParseInt(vars["providerId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /providers/{providerId}/availability - Invalid provider ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProviderID)
		return
	}

	result, err := h.service.Get(r.Context(), providerID)
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrDoctorNotFound):
			h.logger.Warn("GET /providers/{providerId}/availability - Doctor not found: provider_id=%d", providerID)
			handlers.RespondNotFound(w, msgDoctorNotFound)

		default:
			h.logger.Error("GET /providers/{providerId}/availability - Failed: provider_id=%d, error=%v",
				providerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /providers/{providerId}/availability - Schedule retrieved: provider_id=%d", providerID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
