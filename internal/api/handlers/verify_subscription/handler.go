package verify_subscription

import (
	"errors"
	"net/http"

	"github.com/vaidhya-health/appointment-service/internal/api/handlers"
	"github.com/vaidhya-health/appointment-service/internal/api/middleware"
	"github.com/vaidhya-health/appointment-service/internal/service/subscriptions"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgUserNotFound       = "user not found"
	msgNotAProvider       = "only providers can purchase a subscription"
	msgVerificationFailed = "payment verification failed"
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

// Handle POST /api/v1/subscriptions/verify
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, "missing X-User-ID header")
		return
	}

	var req VerifySubscriptionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /subscriptions/verify - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.VerifyAndActivate(r.Context(), req.ToServiceRequest(userID))
	if err != nil {
		switch {
		case errors.Is(err, subscriptions.ErrUserNotFound):
			h.logger.Warn("POST /subscriptions/verify - User not found: user_id=%d", userID)
			handlers.RespondNotFound(w, msgUserNotFound)

		case errors.Is(err, subscriptions.ErrNotAProvider):
			h.logger.Warn("POST /subscriptions/verify - Not a provider: user_id=%d", userID)
			handlers.RespondForbidden(w, msgNotAProvider)

		case errors.Is(err, subscriptions.ErrPaymentVerificationFailed):
			h.logger.Warn("POST /subscriptions/verify - Verification failed: user_id=%d", userID)
			handlers.RespondUnprocessable(w, msgVerificationFailed)

		default:
			h.logger.Error("POST /subscriptions/verify - Failed: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /subscriptions/verify - Subscription activated: user_id=%d, subscription_id=%d, expires=%s",
		userID, result.ID, result.EndDate.Format("2006-01-02"))
	handlers.RespondJSON(w, http.StatusOK, result)
}
