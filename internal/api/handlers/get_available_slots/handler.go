package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/vaidhya-health/appointment-service/internal/api/handlers"
	"github.com/vaidhya-health/appointment-service/internal/domain"
	availableSlots "github.com/vaidhya-health/appointment-service/internal/usecase/get_available_slots"
)

const (
	msgInvalidDoctorID = "invalid doctor ID"
	msgInvalidDate     = "invalid date, expected format YYYY-MM-DD"
	msgDoctorNotFound  = "doctor not found"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/doctors/{doctorId}/available-slots?date=YYYY-MM-DD
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	doctorID, err := strconv.ParseInt(vars["doctorId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /doctors/{doctorId}/available-slots - Invalid doctor ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDoctorID)
		return
	}

	date, err := time.Parse(domain.DateFormat, r.URL.Query().Get("date"))
	if err != nil {
		h.logger.Warn("GET /doctors/{doctorId}/available-slots - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &availableSlots.Request{
		ProviderID: doctorID,
		Date:       date,
	})
	if err != nil {
		switch {
		case errors.Is(err, availableSlots.ErrDoctorNotFound):
			h.logger.Warn("GET /doctors/{doctorId}/available-slots - Doctor not found: doctor_id=%d", doctorID)
			handlers.RespondNotFound(w, msgDoctorNotFound)

		case errors.Is(err, availableSlots.ErrInvalidInput):
			h.logger.Warn("GET /doctors/{doctorId}/available-slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("GET /doctors/{doctorId}/available-slots - Failed: doctor_id=%d, error=%v",
				doctorID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /doctors/{doctorId}/available-slots - Slots retrieved: doctor_id=%d, count=%d",
		doctorID, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
