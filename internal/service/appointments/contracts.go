package appointments

import (
	"context"

	"github.com/vaidhya-health/appointment-service/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей на прием
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	List(ctx context.Context, filter domain.AppointmentFilter) ([]*domain.Appointment, error)
	UpdateStatusIf(ctx context.Context, id int64, expected []domain.AppointmentStatus, to domain.AppointmentStatus) error
	SetRejected(ctx context.Context, id int64, reason string, expected []domain.AppointmentStatus) error
}

// UserRepository интерфейс репозитория пользователей
type UserRepository interface {
	GetUser(ctx context.Context, id int64) (*domain.User, error)
}

// Notifier интерфейс для отправки SMS-уведомлений
type Notifier interface {
	Send(ctx context.Context, phone, message string) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
