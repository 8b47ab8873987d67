package create_subscription_order

import (
	"errors"
	"net/http"

	"github.com/vaidhya-health/appointment-service/internal/api/handlers"
	"github.com/vaidhya-health/appointment-service/internal/api/middleware"
	"github.com/vaidhya-health/appointment-service/internal/service/subscriptions"
)

const (
	msgUserNotFound = "user not found"
	msgNotAProvider = "only providers can purchase a subscription"
)

type Handler struct {
	service SubscriptionService
	logger  Logger
}

func NewHandler(service SubscriptionService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/subscriptions/order
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, "missing X-User-ID header")
		return
	}

	result, err := h.service.CreateOrder(r.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, subscriptions.ErrUserNotFound):
			h.logger.Warn("POST /subscriptions/order - User not found: user_id=%d", userID)
			handlers.RespondNotFound(w, msgUserNotFound)

		case errors.Is(err, subscriptions.ErrNotAProvider):
			h.logger.Warn("POST /subscriptions/order - Not a provider: user_id=%d", userID)
			handlers.RespondForbidden(w, msgNotAProvider)

		default:
			h.logger.Error("POST /subscriptions/order - Failed: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /subscriptions/order - Order created: user_id=%d, order_id=%s", userID, result.OrderID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
