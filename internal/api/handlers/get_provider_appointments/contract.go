package get_provider_appointments

import (
	"context"

	"github.com/vaidhya-health/appointment-service/internal/service/appointments/models"
)

// AppointmentService сервис записей на прием
type AppointmentService interface {
	GetProviderAppointments(ctx context.Context, req *models.GetProviderAppointmentsRequest) (*models.AppointmentListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
