package get_provider_appointments

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/vaidhya-health/appointment-service/internal/api/handlers"
	"github.com/vaidhya-health/appointment-service/internal/api/middleware"
	"github.com/vaidhya-health/appointment-service/internal/service/appointments"
	"github.com/vaidhya-health/appointment-service/internal/service/appointments/models"
)

const (
	msgInvalidProviderID = "invalid provider ID"
	msgMissingRole       = "missing X-User-Role header"
	msgForbidden         = "access denied"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/providers/{providerId}/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, "missing X-User-ID header")
		return
	}

	vars := mux.Vars(r)
	providerID, err := strconv.ParseInt(vars["providerId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /providers/{providerId}/appointments - Invalid provider ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProviderID)
		return
	}

	// Провайдер видит только собственные записи
	if providerID != userID {
		h.logger.Warn("GET /providers/{providerId}/appointments - Access denied: provider_id=%d, user_id=%d",
			providerID, userID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	// Роль однозначно определяет тип записей провайдера
	role, ok := middleware.UserRole(r.Context())
	if !ok {
		h.logger.Warn("GET /providers/{providerId}/appointments - Missing role: provider_id=%d", providerID)
		handlers.RespondBadRequest(w, msgMissingRole)
		return
	}

	status := r.URL.Query().Get("status")
	var statusPtr *string
	if status != "" {
		statusPtr = &status
	}

	serviceReq := &models.GetProviderAppointmentsRequest{
		ProviderID: providerID,
		Role:       role,
		Status:     statusPtr,
	}

	result, err := h.service.GetProviderAppointments(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrInvalidInput):
			h.logger.Warn("GET /providers/{providerId}/appointments - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("GET /providers/{providerId}/appointments - Failed: provider_id=%d, error=%v",
				providerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /providers/{providerId}/appointments - Appointments retrieved: provider_id=%d, count=%d",
		providerID, len(result.Appointments))
	handlers.RespondJSON(w, http.StatusOK, result)
}
