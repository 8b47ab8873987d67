package verify_payment

import (
	"time"

	confirmPayment "github.com/vaidhya-health/appointment-service/internal/usecase/confirm_payment"
)

// VerifyPaymentRequest HTTP request model
type VerifyPaymentRequest struct {
	OrderID   string `json:"orderId"`
	PaymentID string `json:"paymentId"`
	Signature string `json:"signature"`
}

// VerifyPaymentResponse HTTP response model
type VerifyPaymentResponse struct {
	ID        int64   `json:"id"`
	DisplayID string  `json:"displayId"`
	Status    string  `json:"status"`
	IsPaid    bool    `json:"isPaid"`
	PaymentID string  `json:"paymentId"`
	DateTime  string  `json:"dateTime"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *VerifyPaymentRequest) ToUseCaseRequest(appointmentID, customerID int64) *confirmPayment.Request {
	return &confirmPayment.Request{
		AppointmentID: appointmentID,
		CustomerID:    customerID,
		OrderID:       r.OrderID,
		PaymentID:     r.PaymentID,
		Signature:     r.Signature,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *confirmPayment.Response) *VerifyPaymentResponse {
	return &VerifyPaymentResponse{
		ID:        resp.ID,
		DisplayID: resp.DisplayID,
		Status:    resp.Status,
		IsPaid:    resp.IsPaid,
		PaymentID: resp.PaymentID,
		DateTime:  resp.DateTime.Format(time.RFC3339),
		Amount:    resp.Amount,
		Currency:  resp.Currency,
	}
}
