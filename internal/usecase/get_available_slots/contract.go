package get_available_slots

import (
	"context"

	"github.com/vaidhya-health/appointment-service/internal/domain"
)

// AvailabilityRepository интерфейс репозитория расписаний
type AvailabilityRepository interface {
	GetByProvider(ctx context.Context, providerID int64) (*domain.WeeklyAvailability, error)
}

// UserRepository интерфейс репозитория пользователей
type UserRepository interface {
	GetDoctor(ctx context.Context, id int64) (*domain.Doctor, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
