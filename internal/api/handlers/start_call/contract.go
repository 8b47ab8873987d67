package start_call

import (
	"context"

	"github.com/vaidhya-health/appointment-service/internal/service/appointments/models"
)

// CallService сервис call-сессий консультаций
type CallService interface {
	Start(ctx context.Context, appointmentID int64, userID int64) (*models.CallDetailsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
