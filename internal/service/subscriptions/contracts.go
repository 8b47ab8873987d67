package subscriptions

import (
	"context"
	"time"

	"github.com/vaidhya-health/appointment-service/internal/domain"
	"github.com/vaidhya-health/appointment-service/internal/integrations/razorpay"
)

// SubscriptionRepository интерфейс репозитория подписок
type SubscriptionRepository interface {
	Create(ctx context.Context, s *domain.Subscription) (*domain.Subscription, error)
}

// UserRepository интерфейс репозитория пользователей
type UserRepository interface {
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	ActivateSubscription(ctx context.Context, userID int64, expiry time.Time) error
}

// PaymentGateway интерфейс платежного шлюза
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*razorpay.Order, error)
	VerifySignature(orderID, paymentID, signature string) bool
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
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
