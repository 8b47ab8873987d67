package get_availability

import (
	"context"

	"github.com/vaidhya-health/appointment-service/internal/service/availability/models"
)

// AvailabilityService сервис расписаний врачей
type AvailabilityService interface {
	Get(ctx context.Context, providerID int64) (*models.AvailabilityResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
