package create_appointment

import (
	"errors"
	"net/http"

	"github.com/vaidhya-health/appointment-service/internal/api/handlers"
	"github.com/vaidhya-health/appointment-service/internal/api/middleware"
	bookAppointment "github.com/vaidhya-health/appointment-service/internal/usecase/book_appointment"
)

const (
	msgInvalidRequestBody   = "invalid request body"
	msgInvalidDateTime      = "invalid dateTime, RFC 3339 expected"
	msgCustomerNotFound     = "customer not found"
	msgProviderNotFound     = "provider not found"
	msgSubscriptionInactive = "provider is not accepting bookings"
	msgSlotUnavailable      = "the requested slot is not available"
	msgProviderOnLeave      = "provider is on leave on the requested date"
	msgServiceNotOffered    = "the requested service is not offered by this provider"
	msgPriceNotConfigured   = "the requested service has no configured price"
	msgPaymentOrderFailed   = "failed to create a payment order"
)

type Handler struct {
	useCase BookAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase BookAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, "missing X-User-ID header")
		return
	}

	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(customerID)
	if err != nil {
		h.logger.Warn("POST /appointments - Failed to parse dateTime: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		var slotErr *bookAppointment.SlotUnavailableError

		switch {
		case errors.As(err, &slotErr):
			h.logger.Warn("POST /appointments - Slot unavailable: customer_id=%d, provider_id=%d", customerID, req.ProviderID)
			handlers.RespondConflict(w, slotErr.Error())

		case errors.Is(err, bookAppointment.ErrSlotUnavailable):
			h.logger.Warn("POST /appointments - Slot unavailable: customer_id=%d, provider_id=%d", customerID, req.ProviderID)
			handlers.RespondConflict(w, msgSlotUnavailable)

		case errors.Is(err, bookAppointment.ErrProviderOnLeave):
			h.logger.Warn("POST /appointments - Provider on leave: provider_id=%d", req.ProviderID)
			handlers.RespondConflict(w, msgProviderOnLeave)

		case errors.Is(err, bookAppointment.ErrCustomerNotFound):
			h.logger.Warn("POST /appointments - Customer not found: customer_id=%d", customerID)
			handlers.RespondNotFound(w, msgCustomerNotFound)

		case errors.Is(err, bookAppointment.ErrProviderNotFound):
			h.logger.Warn("POST /appointments - Provider not found: provider_id=%d", req.ProviderID)
			handlers.RespondNotFound(w, msgProviderNotFound)

		case errors.Is(err, bookAppointment.ErrSubscriptionInactive):
			h.logger.Warn("POST /appointments - Provider subscription inactive: provider_id=%d", req.ProviderID)
			handlers.RespondForbidden(w, msgSubscriptionInactive)

		case errors.Is(err, bookAppointment.ErrServiceNotOffered):
			h.logger.Warn("POST /appointments - Service not offered: provider_id=%d", req.ProviderID)
			handlers.RespondUnprocessable(w, msgServiceNotOffered)

		case errors.Is(err, bookAppointment.ErrPriceNotConfigured):
			h.logger.Warn("POST /appointments - Price not configured: provider_id=%d", req.ProviderID)
			handlers.RespondUnprocessable(w, msgPriceNotConfigured)

		case errors.Is(err, bookAppointment.ErrPaymentOrderFailed):
			h.logger.Error("POST /appointments - Payment order failed: customer_id=%d, error=%v", customerID, err)
			handlers.RespondError(w, http.StatusBadGateway, msgPaymentOrderFailed)

		case errors.Is(err, bookAppointment.ErrInvalidInput):
			h.logger.Warn("POST /appointments - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /appointments - Failed to create appointment: customer_id=%d, error=%v", customerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments - Appointment created: appointment_id=%d, customer_id=%d, provider_id=%d",
		result.ID, customerID, req.ProviderID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
