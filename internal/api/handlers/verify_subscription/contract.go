package verify_subscription

import (
	"context"

	"github.com/vaidhya-health/appointment-service/internal/service/subscriptions/models"
)

// SubscriptionService сервис подписок провайдеров
type SubscriptionService interface {
	VerifyAndActivate(ctx context.Context, req *models.VerifySubscriptionRequest) (*models.SubscriptionResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
