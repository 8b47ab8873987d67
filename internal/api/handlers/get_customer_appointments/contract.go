package get_customer_appointments

import (
	"context"

	"github.com/vaidhya-health/appointment-service/internal/service/appointments/models"
)

// AppointmentService сервис записей на прием
type AppointmentService interface {
	GetCustomerAppointments(ctx context.Context, req *models.GetCustomerAppointmentsRequest) (*models.AppointmentListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
