package verify_payment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/vaidhya-health/appointment-service/internal/api/handlers"
	"github.com/vaidhya-health/appointment-service/internal/api/middleware"
	confirmPayment "github.com/vaidhya-health/appointment-service/internal/usecase/confirm_payment"
)

const (
	msgInvalidAppointmentID = "invalid appointment ID"
	msgInvalidRequestBody   = "invalid request body"
	msgNotFound             = "appointment not found"
	msgForbidden            = "access denied"
	msgOrderMismatch        = "payment order does not belong to this appointment"
	msgVerificationFailed   = "payment verification failed, the appointment has been cancelled"
	msgSlotNoLongerFree     = "the slot was taken by a concurrent booking, the appointment has been cancelled"
	msgAlreadyFinalized     = "appointment is already finalized"
)

type Handler struct {
	useCase ConfirmPaymentUseCase
	logger  Logger
}

func NewHandler(useCase ConfirmPaymentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments/{appointmentId}/verify-payment
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, "missing X-User-ID header")
		return
	}

	vars := mux.Vars(r)
	appointmentID, err := strconv.ParseInt(vars["appointmentId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /appointments/{id}/verify-payment - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	var req VerifyPaymentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments/{id}/verify-payment - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(appointmentID, customerID))
	if err != nil {
		switch {
		case errors.Is(err, confirmPayment.ErrAppointmentNotFound):
			h.logger.Warn("POST /appointments/{id}/verify-payment - Not found: appointment_id=%d", appointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, confirmPayment.ErrAccessDenied):
			h.logger.Warn("POST /appointments/{id}/verify-payment - Access denied: appointment_id=%d, user_id=%d",
				appointmentID, customerID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, confirmPayment.ErrOrderMismatch):
			h.logger.Warn("POST /appointments/{id}/verify-payment - Order mismatch: appointment_id=%d", appointmentID)
			handlers.RespondBadRequest(w, msgOrderMismatch)

		case errors.Is(err, confirmPayment.ErrPaymentVerificationFailed):
			h.logger.Warn("POST /appointments/{id}/verify-payment - Verification failed: appointment_id=%d", appointmentID)
			handlers.RespondUnprocessable(w, msgVerificationFailed)

		case errors.Is(err, confirmPayment.ErrSlotNoLongerAvailable):
			h.logger.Warn("POST /appointments/{id}/verify-payment - Slot no longer available: appointment_id=%d", appointmentID)
			handlers.RespondConflict(w, msgSlotNoLongerFree)

		case errors.Is(err, confirmPayment.ErrAlreadyFinalized):
			h.logger.Warn("POST /appointments/{id}/verify-payment - Already finalized: appointment_id=%d", appointmentID)
			handlers.RespondConflict(w, msgAlreadyFinalized)

		case errors.Is(err, confirmPayment.ErrInvalidInput):
			h.logger.Warn("POST /appointments/{id}/verify-payment - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /appointments/{id}/verify-payment - Failed: appointment_id=%d, error=%v",
				appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments/{id}/verify-payment - Payment confirmed: appointment_id=%d, status=%s",
		result.ID, result.Status)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
