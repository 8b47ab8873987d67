package confirm_payment

import (
	"context"

	"github.com/vaidhya-health/appointment-service/internal/domain"
	"github.com/vaidhya-health/appointment-service/pkg/types"
)

// AppointmentRepository интерфейс репозитория записей на прием
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	MarkPaid(ctx context.Context, id int64, paymentID string, expected []domain.AppointmentStatus, to domain.AppointmentStatus) error
	Cancel(ctx context.Context, id int64, reason string) error
}

// AvailabilityRepository интерфейс репозитория расписаний
type AvailabilityRepository interface {
	CommitSlot(ctx context.Context, providerID int64, weekday domain.Weekday, timeOfDay types.TimeString) error
}

// TransactionRepository интерфейс финансового журнала
type TransactionRepository interface {
	Create(ctx context.Context, t *domain.Transaction) (*domain.Transaction, error)
}

// UserRepository интерфейс репозитория пользователей
type UserRepository interface {
	GetUser(ctx context.Context, id int64) (*domain.User, error)
}

// PaymentGateway интерфейс платежного шлюза
type PaymentGateway interface {
	VerifySignature(orderID, paymentID, signature string) bool
}

// Notifier интерфейс для отправки SMS-уведомлений
type Notifier interface {
	Send(ctx context.Context, phone, message string) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
