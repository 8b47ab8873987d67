package domain

import "time"

// SubscriptionStatus lifecycle of a provider subscription purchase
type SubscriptionStatus string

const (
	SubscriptionPendingPayment SubscriptionStatus = "pending"
	SubscriptionCompleted      SubscriptionStatus = "completed"
	SubscriptionFailed         SubscriptionStatus = "failed"
)

// Subscription a paid listing period for a provider. Providers without an
// active subscription cannot be booked and cannot manage their listings.
type Subscription struct {
	ID        int64
	UserID    int64
	OrderID   string
	PaymentID string
	Amount    float64
	Status    SubscriptionStatus
	StartDate time.Time
	EndDate   time.Time
	CreatedAt time.Time
}
