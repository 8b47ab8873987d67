package create_subscription_order

import (
	"context"

	"github.com/vaidhya-health/appointment-service/internal/service/subscriptions/models"
)

// SubscriptionService сервис подписок провайдеров
type SubscriptionService interface {
	CreateOrder(ctx context.Context, userID int64) (*models.SubscriptionOrderResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
