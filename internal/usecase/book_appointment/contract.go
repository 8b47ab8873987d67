package book_appointment

import (
	"context"
	"time"

	"github.com/vaidhya-health/appointment-service/internal/domain"
	"github.com/vaidhya-health/appointment-service/internal/integrations/razorpay"
)

// AppointmentRepository интерфейс репозитория записей на прием
type AppointmentRepository interface {
	Create(ctx context.Context, appointment *domain.Appointment) (*domain.Appointment, error)
}

// AvailabilityRepository интерфейс репозитория расписаний
type AvailabilityRepository interface {
	GetByProvider(ctx context.Context, providerID int64) (*domain.WeeklyAvailability, error)
}

// UserRepository интерфейс репозитория пользователей
type UserRepository interface {
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	GetDoctor(ctx context.Context, id int64) (*domain.Doctor, error)
	GetHospital(ctx context.Context, id int64) (*domain.Hospital, error)
	GetVendor(ctx context.Context, id int64) (*domain.Vendor, error)
}

// PaymentGateway интерфейс платежного шлюза
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*razorpay.Order, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
