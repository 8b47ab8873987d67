package availability

import (
	"context"

	"github.com/vaidhya-health/appointment-service/internal/domain"
)

// AvailabilityRepository интерфейс репозитория расписаний
type AvailabilityRepository interface {
	GetByProvider(ctx context.Context, providerID int64) (*domain.WeeklyAvailability, error)
	Replace(ctx context.Context, providerID int64, avail *domain.WeeklyAvailability) error
}

// UserRepository интерфейс репозитория пользователей
type UserRepository interface {
	GetDoctor(ctx context.Context, id int64) (*domain.Doctor, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
