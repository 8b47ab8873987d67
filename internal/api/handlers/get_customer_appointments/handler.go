package get_customer_appointments

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
	msgInvalidCustomerID = "invalid customer ID"
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

// Handle GET /api/v1/customers/{customerId}/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, "missing X-User-ID header")
		return
	}

	vars := mux.Vars(r)
	customerID, err := strconv.ParseInt(vars["customerId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /customers/{customerId}/appointments - Invalid customer ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCustomerID)
		return
	}

	// Клиент видит только собственные записи
	if customerID != userID {
		h.logger.Warn("GET /customers/{customerId}/appointments - Access denied: customer_id=%d, user_id=%d",
			customerID, userID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	query := r.URL.Query()
	serviceReq := &models.GetCustomerAppointmentsRequest{
		CustomerID: customerID,
		Type:       queryParam(query.Get("type")),
		Status:     queryParam(query.Get("status")),
		LatestOnly: query.Get("latest") == "true",
	}

	result, err := h.service.GetCustomerAppointments(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrInvalidInput):
			h.logger.Warn("GET /customers/{customerId}/appointments - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("GET /customers/{customerId}/appointments - Failed: customer_id=%d, error=%v",
				customerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /customers/{customerId}/appointments - Appointments retrieved: customer_id=%d, count=%d",
		customerID, len(result.Appointments))
	handlers.RespondJSON(w, http.StatusOK, result)
}

func queryParam(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
