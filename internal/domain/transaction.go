package domain

import "time"

// TransactionStatus lifecycle of a ledger row
type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "pending"
	TransactionCompleted TransactionStatus = "completed"
	TransactionFailed    TransactionStatus = "failed"
)

// Transaction financial ledger row created at payment capture.
// Read-only once created; used for provider earnings aggregation.
type Transaction struct {
	ID               int64
	AppointmentID    int64
	ProviderID       int64
	Amount           float64
	CommissionAmount float64
	ProviderEarnings float64
	PaymentID        string
	Status           TransactionStatus
	CreatedAt        time.Time
}

// NewTransaction builds a ledger row splitting the gross amount by the
// commission percentage
func NewTransaction(appointmentID, providerID int64, amount float64, paymentID string, commissionPercent float64) *Transaction {
	commission := amount * commissionPercent / 100
	return &Transaction{
		AppointmentID:    appointmentID,
		ProviderID:       providerID,
		Amount:           amount,
		CommissionAmount: commission,
		ProviderEarnings: amount - commission,
		PaymentID:        paymentID,
		Status:           TransactionCompleted,
	}
}
