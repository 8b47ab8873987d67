package models

import (
	"time"

	"github.com/vaidhya-health/appointment-service/internal/domain"
)

// Request модели

// VerifySubscriptionRequest запрос активации подписки после оплаты
type VerifySubscriptionRequest struct {
	UserID    int64  `json:"userId"`
	OrderID   string `json:"orderId"`
	PaymentID string `json:"paymentId"`
	Signature string `json:"signature"`
}

// Response модели

// SubscriptionOrderResponse платежный заказ на подписку
type SubscriptionOrderResponse struct {
	OrderID  string  `json:"orderId"`
	Amount   float64 `json:"amount"` // В рупиях
	Currency string  `json:"currency"`
	KeyID    string  `json:"keyId"`
}

// SubscriptionResponse активированная подписка
type SubscriptionResponse struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Status    string    `json:"status"`
	Amount    float64   `json:"amount"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

// FromDomainSubscription конвертирует domain модель в DTO
func FromDomainSubscription(s *domain.Subscription) *SubscriptionResponse {
	if s == nil {
		return nil
	}
	return &SubscriptionResponse{
		ID:        s.ID,
		UserID:    s.UserID,
		Status:    string(s.Status),
		Amount:    s.Amount,
		StartDate: s.StartDate,
		EndDate:   s.EndDate,
	}
}
