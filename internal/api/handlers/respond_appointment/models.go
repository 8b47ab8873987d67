package respond_appointment

import (
	"github.com/vaidhya-health/appointment-service/internal/service/appointments/models"
)

// RespondAppointmentRequest HTTP request model
type RespondAppointmentRequest struct {
	Action string  `json:"action"` // "confirm" | "reject"
	Reason *string `json:"reason,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *RespondAppointmentRequest) ToServiceRequest(providerID int64) *models.RespondRequest {
	return &models.RespondRequest{
		ProviderID: providerID,
		Action:     r.Action,
		Reason:     r.Reason,
	}
}
