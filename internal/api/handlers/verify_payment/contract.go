package verify_payment

import (
	"context"

	confirmPayment "github.com/vaidhya-health/appointment-service/internal/usecase/confirm_payment"
)

// ConfirmPaymentUseCase use case подтверждения оплаты
type ConfirmPaymentUseCase interface {
	Execute(ctx context.Context, req *confirmPayment.Request) (*confirmPayment.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
