package calls

import (
	"context"
	"time"

	"github.com/vaidhya-health/appointment-service/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей на прием
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	UpdateCallDetails(ctx context.Context, id int64, cd *domain.CallDetails) error
}

// TokenBuilder интерфейс выпуска RTC-токенов
type TokenBuilder interface {
	BuildToken(channelName string, uid uint32, now time.Time) (string, error)
}

// TimeProvider интерфейс получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
