package verify_subscription

import (
	"github.com/vaidhya-health/appointment-service/internal/service/subscriptions/models"
)

// VerifySubscriptionRequest HTTP request model
type VerifySubscriptionRequest struct {
	OrderID   string `json:"orderId"`
	PaymentID string `json:"paymentId"`
	Signature string `json:"signature"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *VerifySubscriptionRequest) ToServiceRequest(userID int64) *models.VerifySubscriptionRequest {
	return &models.VerifySubscriptionRequest{
		UserID:    userID,
		OrderID:   r.OrderID,
		PaymentID: r.PaymentID,
		Signature: r.Signature,
	}
}
