package cancel_appointment

import (
	"time"

	cancelAppointment "github.com/vaidhya-health/appointment-service/internal/usecase/cancel_appointment"
)

// CancelAppointmentRequest HTTP request model
type CancelAppointmentRequest struct {
	Reason *string `json:"reason,omitempty"`
}

// CancelAppointmentResponse HTTP response model
type CancelAppointmentResponse struct {
	ID                 int64   `json:"id"`
	DisplayID          string  `json:"displayId"`
	Status             string  `json:"status"`
	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"`
	SlotReleased       bool    `json:"slotReleased"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CancelAppointmentRequest) ToUseCaseRequest(appointmentID, userID int64) *cancelAppointment.Request {
	return &cancelAppointment.Request{
		AppointmentID: appointmentID,
		UserID:        userID,
		Reason:        r.Reason,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *cancelAppointment.Response) *CancelAppointmentResponse {
	out := &CancelAppointmentResponse{
		ID:                 resp.ID,
		DisplayID:          resp.DisplayID,
		Status:             resp.Status,
		CancellationReason: resp.CancellationReason,
		SlotReleased:       resp.SlotReleased,
	}
	if resp.CancelledAt != nil {
		formatted := resp.CancelledAt.Format(time.RFC3339)
		out.CancelledAt = &formatted
	}
	return out
}
