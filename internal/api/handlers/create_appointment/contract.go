package create_appointment

import (
	"context"

	bookAppointment "github.com/vaidhya-health/appointment-service/internal/usecase/book_appointment"
)

// BookAppointmentUseCase use case инициации бронирования
type BookAppointmentUseCase interface {
	Execute(ctx context.Context, req *bookAppointment.Request) (*bookAppointment.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
