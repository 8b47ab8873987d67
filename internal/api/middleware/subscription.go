package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/vaidhya-health/appointment-service/internal/api/handlers"
)

// SubscriptionChecker проверяет активность подписки провайдера
type SubscriptionChecker interface {
	HasActiveSubscription(ctx context.Context, userID int64, at time.Time) (bool, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RequireSubscription пропускает дальше только провайдеров с активной
// подпиской. Вешается на провайдерские операции: управление расписанием
// и ответы на запросы записей.
func RequireSubscription(checker SubscriptionChecker, logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := UserID(r.Context())
			if !ok {
				handlers.RespondUnauthorized(w, "missing X-User-ID header")
				return
			}

			active, err := checker.HasActiveSubscription(r.Context(), userID, time.Now())
			if err != nil {
				logger.Error("RequireSubscription: failed to check subscription for user=%d: %v", userID, err)
				handlers.RespondInternalError(w)
				return
			}
			if !active {
				logger.Warn("RequireSubscription: user=%d has no active subscription", userID)
				handlers.RespondForbidden(w, "an active subscription is required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
