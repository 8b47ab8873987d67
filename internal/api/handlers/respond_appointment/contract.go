package respond_appointment

import (
	"context"

	"github.com/vaidhya-health/appointment-service/internal/service/appointments/models"
)

// AppointmentService сервис записей на прием
type AppointmentService interface {
	Respond(ctx context.Context, appointmentID int64, req *models.RespondRequest) (*models.AppointmentResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
